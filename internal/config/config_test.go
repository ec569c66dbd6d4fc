package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 22, cfg.Remote.Port)
	assert.Equal(t, ".", cfg.Local.Root)
	assert.Equal(t, ".", cfg.Local.WPRoot)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, "backups", cfg.Backup.Dir)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Retry.Delay)
	assert.Equal(t, 5*time.Minute, cfg.Timeouts.Command)
	assert.Equal(t, 5*time.Minute, cfg.Timeouts.Sync)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Probe)
	assert.Equal(t, FormatPretty, cfg.Format)
	assert.False(t, cfg.DryRun)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsFile(t *testing.T) {
	path := writeConfig(t, `
remote:
  host: shop.example.com
  port: 2222
  user: deploy
  path: /var/www/shop
local:
  wp_root: public
sync:
  excludes:
    - wp-content/uploads/
    - .env
backup:
  enabled: false
database:
  dump: db/latest.sql.gz
  name: shop
  user: shop_admin
retry:
  max_attempts: 5
  delay: 2s
timeouts:
  sync: 90s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shop.example.com", cfg.Remote.Host)
	assert.Equal(t, 2222, cfg.Remote.Port)
	assert.Equal(t, "deploy", cfg.Remote.User)
	assert.Equal(t, "/var/www/shop", cfg.Remote.Path)
	assert.Equal(t, "public", cfg.Local.WPRoot)
	assert.Equal(t, []string{"wp-content/uploads/", ".env"}, cfg.Sync.Excludes)
	assert.False(t, cfg.Backup.Enabled)
	assert.Equal(t, "db/latest.sql.gz", cfg.Database.Dump)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.Delay)
	assert.Equal(t, 90*time.Second, cfg.Timeouts.Sync)
	// Untouched settings keep their defaults.
	assert.Equal(t, 5*time.Minute, cfg.Timeouts.Command)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoadParseError(t *testing.T) {
	path := writeConfig(t, "remote: [not a mapping")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WPSHIP_REMOTE_HOST", "env.example.com")
	t.Setenv("WPSHIP_DATABASE_PASSWORD", "hunter2")
	t.Setenv("WPSHIP_RETRY_MAX_ATTEMPTS", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env.example.com", cfg.Remote.Host)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, 7, cfg.Retry.MaxAttempts)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := writeConfig(t, "remote:\n  host: file.example.com\n")
	t.Setenv("WPSHIP_REMOTE_HOST", "env.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.example.com", cfg.Remote.Host)
}

func TestApplyFlags(t *testing.T) {
	cfg := Default()
	ApplyFlags(&cfg, FlagValues{
		Host:        StringFlag{Value: "flag.example.com", Set: true},
		Port:        IntFlag{Value: 2200, Set: true},
		User:        StringFlag{Value: "deploy", Set: true},
		RemotePath:  StringFlag{Value: "/srv/www", Set: true},
		WPRoot:      StringFlag{Value: "wordpress", Set: true},
		Excludes:    SliceFlag{Values: []string{".env"}},
		SkipBackup:  BoolFlag{Value: true, Set: true},
		Dump:        StringFlag{Value: "db.sql.gz", Set: true},
		DBName:      StringFlag{Value: "shop", Set: true},
		MaxAttempts: IntFlag{Value: 1, Set: true},
		DryRun:      BoolFlag{Value: true, Set: true},
	})

	assert.Equal(t, "flag.example.com", cfg.Remote.Host)
	assert.Equal(t, 2200, cfg.Remote.Port)
	assert.Equal(t, "deploy", cfg.Remote.User)
	assert.Equal(t, "/srv/www", cfg.Remote.Path)
	assert.Equal(t, "wordpress", cfg.Local.WPRoot)
	assert.Equal(t, []string{".env"}, cfg.Sync.Excludes)
	assert.False(t, cfg.Backup.Enabled)
	assert.Equal(t, "db.sql.gz", cfg.Database.Dump)
	assert.Equal(t, "shop", cfg.Database.Name)
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
	assert.True(t, cfg.DryRun)
}

func TestApplyFlagsLeavesUnsetAlone(t *testing.T) {
	cfg := Default()
	cfg.Remote.Host = "configured.example.com"
	cfg.Backup.Enabled = true

	ApplyFlags(&cfg, FlagValues{
		User: StringFlag{Value: "deploy", Set: true},
	})

	assert.Equal(t, "configured.example.com", cfg.Remote.Host)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, "deploy", cfg.Remote.User)
}

func TestApplyFlagsSkipDatabaseClearsDump(t *testing.T) {
	cfg := Default()
	cfg.Database.Dump = "dumps/site.sql.gz"

	ApplyFlags(&cfg, FlagValues{
		SkipDatabase: BoolFlag{Value: true, Set: true},
	})

	assert.Empty(t, cfg.Database.Dump)
	assert.False(t, cfg.DatabaseRequested())
}

func TestEffectiveExcludesOrder(t *testing.T) {
	cfg := Default()
	cfg.Sync.Excludes = []string{"wp-content/cache/", "node_modules/", ".env"}

	got := cfg.EffectiveExcludes()
	want := []string{".git/", "node_modules/", "wp-content/cache/", "node_modules/", ".env"}
	assert.Equal(t, want, got)
}

func TestEffectiveExcludesDefaultsOnly(t *testing.T) {
	assert.Equal(t, []string{".git/", "node_modules/"}, Default().EffectiveExcludes())
}

func TestSourceDir(t *testing.T) {
	cfg := Default()
	cfg.Local.Root = "/home/me/site"

	cfg.Local.WPRoot = "."
	assert.Equal(t, "/home/me/site", cfg.SourceDir())

	cfg.Local.WPRoot = ""
	assert.Equal(t, "/home/me/site", cfg.SourceDir())

	cfg.Local.WPRoot = "public/wp"
	assert.Equal(t, filepath.Join("/home/me/site", "public/wp"), cfg.SourceDir())
}

func TestTarget(t *testing.T) {
	cfg := Default()
	cfg.Remote.User = "deploy"
	cfg.Remote.Host = "shop.example.com"
	assert.Equal(t, "deploy@shop.example.com", cfg.Target())
}

func TestValidateMissingSettings(t *testing.T) {
	cfg := Default()

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrMissingSettings)
	assert.Contains(t, err.Error(), "remote.host")
	assert.Contains(t, err.Error(), "remote.user")
	assert.Contains(t, err.Error(), "remote.path")
}

func TestValidateComplete(t *testing.T) {
	cfg := completeConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidatePortRange(t *testing.T) {
	cfg := completeConfig()
	cfg.Remote.Port = 0
	require.Error(t, cfg.Validate())

	cfg.Remote.Port = 70000
	require.Error(t, cfg.Validate())
}

func TestValidateDatabaseNeedsCredentials(t *testing.T) {
	cfg := completeConfig()
	cfg.Database.Dump = "db.sql.gz"

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrMissingSettings)
	assert.Contains(t, err.Error(), "database.name")

	cfg.Database.Name = "shop"
	err = cfg.Validate()
	require.ErrorIs(t, err, ErrMissingSettings)
	assert.Contains(t, err.Error(), "database.user")

	cfg.Database.User = "shop_admin"
	require.NoError(t, cfg.Validate())
}

func completeConfig() Config {
	cfg := Default()
	cfg.Remote.Host = "shop.example.com"
	cfg.Remote.User = "deploy"
	cfg.Remote.Path = "/var/www/shop"
	return cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wpship.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
