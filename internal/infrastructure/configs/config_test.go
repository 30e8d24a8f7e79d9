package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Load_Without_A_File_Applies_Defaults(t *testing.T) {
	// Act
	cfg, err := Load("")

	// Assert
	require.NoError(t, err)
	require.Equal(t, 60*time.Second, cfg.Game.RoundDuration)
	require.Equal(t, 30*time.Minute, cfg.Game.IdleExpiry)
	require.Equal(t, 3, cfg.Game.GuessLimit)
	require.Equal(t, 10, cfg.Game.WinAward)
	require.Equal(t, "memory", cfg.Store.Driver)
	require.False(t, cfg.Messaging.Enabled)
	require.NotZero(t, cfg.HTTP.Port)
}

func Test_Load_Reads_Yaml_Overrides(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
http:
  port: 9099
game:
  round_duration: 45s
  guess_limit: 5
store:
  driver: mongo
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	require.Equal(t, uint16(9099), cfg.HTTP.Port)
	require.Equal(t, 45*time.Second, cfg.Game.RoundDuration)
	require.Equal(t, 5, cfg.Game.GuessLimit)
	require.Equal(t, "mongo", cfg.Store.Driver)

	// Untouched keys keep their defaults.
	require.Equal(t, 30*time.Minute, cfg.Game.IdleExpiry)
}

func Test_Load_Env_Overrides_Beat_Defaults(t *testing.T) {
	// Arrange
	t.Setenv("GAME_ROUND_DURATION", "90s")
	t.Setenv("GAME_WIN_AWARD", "25")

	// Act
	cfg, err := Load("")

	// Assert
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, cfg.Game.RoundDuration)
	require.Equal(t, 25, cfg.Game.WinAward)
}

func Test_Load_Missing_Explicit_File_Fails(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}

func Test_Load_Rejects_An_Unknown_Store_Driver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")

	_, err := Load("")

	require.Error(t, err)
	require.Contains(t, err.Error(), "store.driver")
}
