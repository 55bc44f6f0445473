package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^[0-9a-f]{6}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		require.Regexp(t, pattern, id)
		seen[id] = struct{}{}
	}
	require.Greater(t, len(seen), 90)
}

func TestUniqueFilename(t *testing.T) {
	t.Parallel()

	t.Run("free name is used as-is", func(t *testing.T) {
		got, err := UniqueFilename("race1.jpg", func(string) bool { return false })
		require.NoError(t, err)
		require.Equal(t, "race1.jpg", got)
	})

	t.Run("taken name gets a numeric suffix before the extension", func(t *testing.T) {
		taken := map[string]bool{"race1.jpg": true}
		got, err := UniqueFilename("race1.jpg", func(name string) bool { return taken[name] })
		require.NoError(t, err)
		require.Equal(t, "race1-1.jpg", got)
	})

	t.Run("counter keeps climbing past existing suffixes", func(t *testing.T) {
		taken := map[string]bool{"race1.jpg": true, "race1-1.jpg": true, "race1-2.jpg": true}
		got, err := UniqueFilename("race1.jpg", func(name string) bool { return taken[name] })
		require.NoError(t, err)
		require.Equal(t, "race1-3.jpg", got)
	})

	t.Run("sanitizes before checking collisions", func(t *testing.T) {
		taken := map[string]bool{"my_photo.jpg": true}
		got, err := UniqueFilename("my photo.jpg", func(name string) bool { return taken[name] })
		require.NoError(t, err)
		require.Equal(t, "my_photo-1.jpg", got)
	})

	t.Run("propagates sanitize failures", func(t *testing.T) {
		_, err := UniqueFilename("###", func(string) bool { return false })
		require.Error(t, err)
	})
}

func TestEnsureExtension(t *testing.T) {
	t.Parallel()

	require.Equal(t, "new.png", EnsureExtension("new.png", "old.jpg"))
	require.Equal(t, "new.jpg", EnsureExtension("new", "old.jpg"))
	require.Equal(t, "new", EnsureExtension("new", "old"))
}
