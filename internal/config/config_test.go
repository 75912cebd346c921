package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Notifications)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
db_path: /tmp/life.db
log_level: debug
timezone: Asia/Tokyo
notifications: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/life.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Notifications)
	assert.Equal(t, Default().LogFile, cfg.LogFile, "unset keys keep their default")

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "db_path: [unterminated"},
		{"unknown timezone", "timezone: Mars/Olympus"},
		{"unknown level", "log_level: loud"},
		{"empty db path", `db_path: ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load(writeFile(t, "db_path: ~/data/life.db\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "life.db"), cfg.DBPath)
}

func TestLocationDefaultsToLocal(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := &Config{DBPath: "/tmp/a.db", LogFile: "/tmp/a.log", LogLevel: "warn", Timezone: "UTC"}
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
