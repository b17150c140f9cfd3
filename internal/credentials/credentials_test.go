package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("not logged in", func(t *testing.T) {
		c, err := Get("", "")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, Set(Credentials{Token: "Bearer abc", UserID: "u1", Anonymous: true}))

		info, err := os.Stat(filepath.Join(home, dirName, credFileName))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		c, err := Get("", "")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "abc", c.Token)
		assert.Equal(t, "u1", c.UserID)
		assert.True(t, c.Anonymous)
		assert.Equal(t, SourceFile, c.Source)
	})

	t.Run("env overrides file", func(t *testing.T) {
		c, err := Get("bearer xyz", "u2")
		require.NoError(t, err)
		assert.Equal(t, "xyz", c.Token)
		assert.Equal(t, "u2", c.UserID)
		assert.Equal(t, SourceEnv, c.Source)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, Delete())
		require.NoError(t, Delete())
		c, err := Get("", "")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("reject empty", func(t *testing.T) {
		assert.Error(t, Set(Credentials{Token: " ", UserID: "u"}))
		assert.Error(t, Set(Credentials{Token: "t"}))
	})
}
