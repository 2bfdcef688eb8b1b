package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess(t *testing.T) {
	// Default config
	config, err := Process([]string{})
	require.NoError(t, err)
	assert.Equal(t, ":29999", config.Listen)
	assert.Equal(t, 50, config.TickMillis)
	assert.Nil(t, config.Redis)
	assert.Equal(t, 3, config.Game.EasyChallengeCount)

	dir := t.TempDir()

	// Single override
	{
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
listen: ":4000"
redis:
  address: "localhost:6379"
`), 0644))

		config, err = Process([]string{path})
		require.NoError(t, err)
		assert.Equal(t, ":4000", config.Listen)
		require.NotNil(t, config.Redis)
		assert.Equal(t, "localhost:6379", config.Redis.Address)
		assert.Equal(t, 50, config.TickMillis, "unset fields keep defaults")
	}

	// Later files override earlier ones
	{
		first := filepath.Join(dir, "first.yaml")
		require.NoError(t, os.WriteFile(first, []byte(`
listen: ":4000"
game:
  totalRounds: 8
`), 0644))

		second := filepath.Join(dir, "second.yaml")
		require.NoError(t, os.WriteFile(second, []byte(`
listen: ":5000"
`), 0644))

		config, err = Process([]string{first, second})
		require.NoError(t, err)
		assert.Equal(t, ":5000", config.Listen)
		assert.Equal(t, int64(8), config.Game.TotalRounds)
	}

	// Unsupported extension
	{
		path := filepath.Join(dir, "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("listen = ':4000'"), 0644))
		_, err = Process([]string{path})
		assert.Error(t, err)
	}

	// Invalid values fail validation
	{
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tickMillis: 0"), 0644))
		_, err = Process([]string{path})
		assert.Error(t, err)
	}

	// Missing file
	_, err = Process([]string{filepath.Join(dir, "nope.yaml")})
	assert.Error(t, err)
}
