package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/tomatitito/atuin-bar/pkg/version"
)

// GitHub repository publishing atuin-bar releases.
const (
	GitHubOwner = "tomatitito"
	GitHubRepo  = "atuin-bar"
)

// ErrNoRelease is returned when the repository has no matching release.
var ErrNoRelease = errors.New("no releases found")

// UpdateInfo describes the latest release relative to the running binary.
type UpdateInfo struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseNotes   string
	DownloadURL    string
	UpdateNeeded   bool
}

// UpdateOptions controls UpdateWithOptions.
type UpdateOptions struct {
	Force         bool          // reinstall even when already up to date
	TargetVersion string        // empty for the latest release
	Timeout       time.Duration // zero means no timeout
}

// Updater replaces the running executable with a GitHub release.
type Updater struct {
	updater    *selfupdate.Updater
	repository selfupdate.Repository
	slug       string
	current    string
}

// NewUpdater creates an updater validating downloads against checksums.txt.
func NewUpdater() (*Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:    source,
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return &Updater{
		updater:    updater,
		repository: selfupdate.NewRepositorySlug(GitHubOwner, GitHubRepo),
		slug:       GitHubOwner + "/" + GitHubRepo,
		current:    version.GetVersion(),
	}, nil
}

// Slug returns the owner/repo releases are fetched from.
func (u *Updater) Slug() string {
	return u.slug
}

// NeedsUpdate reports whether latest is newer than current. Development
// builds and versions that are not semver always need an update.
func NeedsUpdate(current, latest string) (bool, error) {
	if version.IsDevelopment(current) {
		return true, nil
	}
	cur, err := semver.NewVersion(current)
	if err != nil {
		return true, nil
	}
	next, err := semver.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("invalid latest version %s: %w", latest, err)
	}
	return next.GreaterThan(cur), nil
}

// CheckForUpdates looks up the latest release without installing it.
func (u *Updater) CheckForUpdates(ctx context.Context) (*UpdateInfo, error) {
	latest, err := u.detect(ctx, "")
	if err != nil {
		return nil, err
	}
	return u.info(latest)
}

// UpdateWithOptions installs the latest release, or opts.TargetVersion, when
// it is newer than the running binary or opts.Force is set.
func (u *Updater) UpdateWithOptions(ctx context.Context, opts UpdateOptions) (*UpdateInfo, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	release, err := u.detect(ctx, opts.TargetVersion)
	if err != nil {
		return nil, err
	}
	info, err := u.info(release)
	if err != nil {
		return nil, err
	}
	if opts.TargetVersion != "" {
		info.UpdateNeeded = info.LatestVersion != info.CurrentVersion
	}
	if !info.UpdateNeeded && !opts.Force {
		return info, nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return info, fmt.Errorf("could not locate executable path: %w", err)
	}
	if err := u.updater.UpdateTo(ctx, release, exe); err != nil {
		return info, fmt.Errorf("update to version %s failed: %w", info.LatestVersion, err)
	}
	return info, nil
}

func (u *Updater) detect(ctx context.Context, target string) (*selfupdate.Release, error) {
	var (
		release *selfupdate.Release
		found   bool
		err     error
	)
	if target == "" {
		release, found, err = u.updater.DetectLatest(ctx, u.repository)
	} else {
		release, found, err = u.updater.DetectVersion(ctx, u.repository, target)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to detect releases: %w", err)
	}
	if !found {
		return nil, ErrNoRelease
	}
	return release, nil
}

func (u *Updater) info(release *selfupdate.Release) (*UpdateInfo, error) {
	needed, err := NeedsUpdate(u.current, release.Version())
	if err != nil {
		return nil, err
	}
	return &UpdateInfo{
		CurrentVersion: u.current,
		LatestVersion:  release.Version(),
		ReleaseNotes:   release.ReleaseNotes,
		DownloadURL:    release.AssetURL,
		UpdateNeeded:   needed,
	}, nil
}
