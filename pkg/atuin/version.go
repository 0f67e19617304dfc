package atuin

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinimumVersion is the oldest atuin release whose search supports the
// {exit} and {directory} format fields used by the overlay.
const MinimumVersion = "17.0.0"

// Version runs "atuin --version" and parses the reported release.
func (c *Client) Version(ctx context.Context) (*semver.Version, error) {
	out, err := c.run(ctx, "--version")
	if err != nil {
		return nil, err
	}
	return ParseVersion(out)
}

// ParseVersion extracts the semantic version from output such as
// "atuin 18.3.0".
func ParseVersion(output string) (*semver.Version, error) {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty atuin version output")
	}

	raw := fields[len(fields)-1]
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid atuin version %q: %w", raw, err)
	}
	return v, nil
}

// CheckCompatible verifies that the installed atuin is new enough.
func (c *Client) CheckCompatible(ctx context.Context) (*semver.Version, error) {
	v, err := c.Version(ctx)
	if err != nil {
		return nil, err
	}
	if err := RequireMinimum(v); err != nil {
		return v, err
	}
	return v, nil
}

// RequireMinimum returns an error when v is older than MinimumVersion.
func RequireMinimum(v *semver.Version) error {
	constraint, err := semver.NewConstraint(">= " + MinimumVersion)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("atuin %s is too old, %s or newer is required", v, MinimumVersion)
	}
	return nil
}
