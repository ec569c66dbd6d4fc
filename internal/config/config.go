// Package config resolves deployment settings from a config file,
// environment variables, CLI flags, and interactive prompts.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/marcwilhelm/wpship/internal/retry"
	"github.com/marcwilhelm/wpship/internal/runner"
)

const (
	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"

	// DefaultConfigFile is looked up in the working directory when no
	// --config flag is given.
	DefaultConfigFile = "wpship.yml"

	// EnvPrefix namespaces environment overrides, e.g. WPSHIP_REMOTE_HOST.
	EnvPrefix = "WPSHIP"

	DefaultPort            = 22
	DefaultBackupDir       = "backups"
	DefaultRemoteBackupDir = "backups"
	DefaultDatabaseHost    = "localhost"

	DefaultSyncTimeout  = 5 * time.Minute
	DefaultProbeTimeout = 10 * time.Second
)

// ErrMissingSettings indicates required settings are still unset after every
// source has been applied.
var ErrMissingSettings = errors.New("missing required settings")

// Config is the fully resolved deployment configuration.
type Config struct {
	Remote   Remote   `mapstructure:"remote"`
	Local    Local    `mapstructure:"local"`
	Sync     Sync     `mapstructure:"sync"`
	Backup   Backup   `mapstructure:"backup"`
	Database Database `mapstructure:"database"`
	Retry    Retry    `mapstructure:"retry"`
	Timeouts Timeouts `mapstructure:"timeouts"`
	Log      Log      `mapstructure:"log"`

	Format    string `mapstructure:"format"`
	DryRun    bool   `mapstructure:"dry_run"`
	Verbose   bool   `mapstructure:"verbose"`
	AssumeYes bool   `mapstructure:"assume_yes"`
}

// Remote identifies the target host and the WordPress root on it.
type Remote struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	User string `mapstructure:"user"`
	Path string `mapstructure:"path"`
}

// Local locates the WordPress tree on this machine. WPRoot is relative to
// Root; "." means the project root itself holds the WordPress files.
type Local struct {
	Root   string `mapstructure:"root"`
	WPRoot string `mapstructure:"wp_root"`
}

// Sync holds file transfer settings.
type Sync struct {
	Excludes []string `mapstructure:"excludes"`
}

// Backup controls the pre-deploy snapshot of the remote site.
type Backup struct {
	Enabled   bool   `mapstructure:"enabled"`
	Dir       string `mapstructure:"dir"`
	RemoteDir string `mapstructure:"remote_dir"`
}

// Database holds the remote database credentials and the local dump to
// import. An empty Dump disables the database stage entirely.
type Database struct {
	Dump     string `mapstructure:"dump"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
}

// Retry bounds how often a failed remote operation is reattempted.
type Retry struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Delay       time.Duration `mapstructure:"delay"`
}

// Timeouts caps how long individual commands may run.
type Timeouts struct {
	Command time.Duration `mapstructure:"command"`
	Sync    time.Duration `mapstructure:"sync"`
	Probe   time.Duration `mapstructure:"probe"`
}

// Log holds logging configuration.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the configuration produced when no file, environment, or
// flags supply values.
func Default() Config {
	return Config{
		Remote:   Remote{Port: DefaultPort},
		Local:    Local{Root: ".", WPRoot: "."},
		Sync:     Sync{Excludes: []string{}},
		Backup:   Backup{Enabled: true, Dir: DefaultBackupDir, RemoteDir: DefaultRemoteBackupDir},
		Database: Database{Host: DefaultDatabaseHost},
		Retry:    Retry{MaxAttempts: retry.DefaultMaxAttempts, Delay: retry.DefaultDelay},
		Timeouts: Timeouts{Command: runner.DefaultTimeout, Sync: DefaultSyncTimeout, Probe: DefaultProbeTimeout},
		Log:      Log{Level: "info", Format: "text"},
		Format:   FormatPretty,
	}
}

// Load reads configuration from the file at path, then applies WPSHIP_*
// environment overrides. A missing file falls back to defaults; a file that
// exists but does not parse is an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigParseError); ok {
				return Config{}, fmt.Errorf("parse config %q: %w", path, err)
			}
			// Missing file is fine, defaults apply.
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key. AutomaticEnv only surfaces variables for
// keys viper already knows about, so even empty settings get a default.
func setDefaults(v *viper.Viper) {
	v.SetDefault("remote.host", "")
	v.SetDefault("remote.port", DefaultPort)
	v.SetDefault("remote.user", "")
	v.SetDefault("remote.path", "")

	v.SetDefault("local.root", ".")
	v.SetDefault("local.wp_root", ".")

	v.SetDefault("sync.excludes", []string{})

	v.SetDefault("backup.enabled", true)
	v.SetDefault("backup.dir", DefaultBackupDir)
	v.SetDefault("backup.remote_dir", DefaultRemoteBackupDir)

	v.SetDefault("database.dump", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.host", DefaultDatabaseHost)

	v.SetDefault("retry.max_attempts", retry.DefaultMaxAttempts)
	v.SetDefault("retry.delay", retry.DefaultDelay.String())

	v.SetDefault("timeouts.command", runner.DefaultTimeout.String())
	v.SetDefault("timeouts.sync", DefaultSyncTimeout.String())
	v.SetDefault("timeouts.probe", DefaultProbeTimeout.String())

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("format", FormatPretty)
	v.SetDefault("dry_run", false)
	v.SetDefault("verbose", false)
	v.SetDefault("assume_yes", false)
}

// DefaultExcludes lists the paths every sync skips, ahead of any configured
// excludes.
func DefaultExcludes() []string {
	return []string{".git/", "node_modules/"}
}

// EffectiveExcludes returns the ordered exclude list for the sync stage:
// defaults first, then configured excludes verbatim. Duplicates are kept;
// rsync ignores the repetition.
func (c Config) EffectiveExcludes() []string {
	out := make([]string, 0, 2+len(c.Sync.Excludes))
	out = append(out, DefaultExcludes()...)
	out = append(out, c.Sync.Excludes...)
	return out
}

// SourceDir returns the local directory whose contents are synced to the
// remote WordPress root.
func (c Config) SourceDir() string {
	if c.Local.WPRoot == "" || c.Local.WPRoot == "." {
		return c.Local.Root
	}
	return filepath.Join(c.Local.Root, c.Local.WPRoot)
}

// Target returns the user@host pair used by ssh, scp, and rsync.
func (c Config) Target() string {
	return c.Remote.User + "@" + c.Remote.Host
}

// DatabaseRequested reports whether a database import is part of this run.
func (c Config) DatabaseRequested() bool {
	return c.Database.Dump != ""
}

// MissingRequired lists the required settings that are still unset.
func (c Config) MissingRequired() []string {
	var missing []string
	if c.Remote.Host == "" {
		missing = append(missing, "remote.host")
	}
	if c.Remote.User == "" {
		missing = append(missing, "remote.user")
	}
	if c.Remote.Path == "" {
		missing = append(missing, "remote.path")
	}
	return missing
}

// Validate checks that the configuration is complete enough to deploy.
func (c Config) Validate() error {
	if missing := c.MissingRequired(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSettings, strings.Join(missing, ", "))
	}
	if c.Remote.Port <= 0 || c.Remote.Port > 65535 {
		return fmt.Errorf("remote.port %d out of range", c.Remote.Port)
	}
	if c.DatabaseRequested() {
		if c.Database.Name == "" {
			return fmt.Errorf("%w: database.name is needed to import %s", ErrMissingSettings, c.Database.Dump)
		}
		if c.Database.User == "" {
			return fmt.Errorf("%w: database.user is needed to import %s", ErrMissingSettings, c.Database.Dump)
		}
	}
	return nil
}

// ApplyFlags mutates cfg by applying values from CLI flags when they were
// set explicitly.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if flags.Host.Set {
		cfg.Remote.Host = flags.Host.Value
	}
	if flags.Port.Set {
		cfg.Remote.Port = flags.Port.Value
	}
	if flags.User.Set {
		cfg.Remote.User = flags.User.Value
	}
	if flags.RemotePath.Set {
		cfg.Remote.Path = flags.RemotePath.Value
	}
	if flags.LocalRoot.Set {
		cfg.Local.Root = flags.LocalRoot.Value
	}
	if flags.WPRoot.Set {
		cfg.Local.WPRoot = flags.WPRoot.Value
	}
	if len(flags.Excludes.Values) > 0 {
		cfg.Sync.Excludes = append([]string{}, flags.Excludes.Values...)
	}
	if flags.SkipBackup.Set {
		cfg.Backup.Enabled = !flags.SkipBackup.Value
	}
	if flags.BackupDir.Set {
		cfg.Backup.Dir = flags.BackupDir.Value
	}
	if flags.Dump.Set {
		cfg.Database.Dump = flags.Dump.Value
	}
	if flags.DBName.Set {
		cfg.Database.Name = flags.DBName.Value
	}
	if flags.DBUser.Set {
		cfg.Database.User = flags.DBUser.Value
	}
	if flags.DBHost.Set {
		cfg.Database.Host = flags.DBHost.Value
	}
	if flags.SkipDatabase.Set && flags.SkipDatabase.Value {
		// An explicit skip clears the dump for this run; the stage reads
		// its enablement from Dump alone.
		cfg.Database.Dump = ""
	}
	if flags.MaxAttempts.Set {
		cfg.Retry.MaxAttempts = flags.MaxAttempts.Value
	}
	if flags.LogLevel.Set {
		cfg.Log.Level = flags.LogLevel.Value
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.DryRun.Set {
		cfg.DryRun = flags.DryRun.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
	if flags.AssumeYes.Set {
		cfg.AssumeYes = flags.AssumeYes.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was
// set explicitly.
type FlagValues struct {
	Host         StringFlag
	Port         IntFlag
	User         StringFlag
	RemotePath   StringFlag
	LocalRoot    StringFlag
	WPRoot       StringFlag
	Excludes     SliceFlag
	SkipBackup   BoolFlag
	BackupDir    StringFlag
	Dump         StringFlag
	DBName       StringFlag
	DBUser       StringFlag
	DBHost       StringFlag
	SkipDatabase BoolFlag
	MaxAttempts  IntFlag
	LogLevel     StringFlag
	Format       StringFlag
	DryRun       BoolFlag
	Verbose      BoolFlag
	AssumeYes    BoolFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// IntFlag represents an int flag and whether it was set.
type IntFlag struct {
	Value int
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
