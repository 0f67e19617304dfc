package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsUpdate(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"development build", "dev", "1.0.0", true},
		{"empty version", "", "1.0.0", true},
		{"not semver", "nightly", "1.0.0", true},
		{"older", "1.0.0", "1.1.0", true},
		{"same", "1.1.0", "1.1.0", false},
		{"newer", "1.2.0", "1.1.0", false},
		{"v prefix", "v1.0.0", "1.0.1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NeedsUpdate(tt.current, tt.latest)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNeedsUpdate_InvalidLatest(t *testing.T) {
	_, err := NeedsUpdate("1.0.0", "garbage")
	assert.Error(t, err)
}

func TestNewUpdater_ReleaseRepository(t *testing.T) {
	u, err := NewUpdater()
	require.NoError(t, err)

	assert.Equal(t, "tomatitito/atuin-bar", u.Slug())

	owner, repo, err := u.repository.GetSlug()
	require.NoError(t, err)
	assert.Equal(t, "tomatitito", owner)
	assert.Equal(t, "atuin-bar", repo)
}
