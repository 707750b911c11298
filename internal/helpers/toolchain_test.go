package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindToolchain(t *testing.T) {
	t.Parallel()

	t.Run("found on PATH", func(t *testing.T) {
		path, err := FindToolchain(nil, "sh", "sh")
		require.NoError(t, err)
		require.NotEmpty(t, path)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := FindToolchain(nil, "emcc", "emcc-does-not-exist-anywhere")
		require.Error(t, err)
		require.Contains(t, err.Error(), "emcc")
	})
}
