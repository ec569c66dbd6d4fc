package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcwilhelm/wpship/internal/config"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	if flags.Changed("host") {
		v, err := flags.GetString("host")
		if err != nil {
			return values, fmt.Errorf("parse --host: %w", err)
		}
		values.Host = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("port") {
		v, err := flags.GetInt("port")
		if err != nil {
			return values, fmt.Errorf("parse --port: %w", err)
		}
		values.Port = config.IntFlag{Value: v, Set: true}
	}

	if flags.Changed("user") {
		v, err := flags.GetString("user")
		if err != nil {
			return values, fmt.Errorf("parse --user: %w", err)
		}
		values.User = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("remote-path") {
		v, err := flags.GetString("remote-path")
		if err != nil {
			return values, fmt.Errorf("parse --remote-path: %w", err)
		}
		values.RemotePath = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("local-root") {
		v, err := flags.GetString("local-root")
		if err != nil {
			return values, fmt.Errorf("parse --local-root: %w", err)
		}
		values.LocalRoot = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("wp-root") {
		v, err := flags.GetString("wp-root")
		if err != nil {
			return values, fmt.Errorf("parse --wp-root: %w", err)
		}
		values.WPRoot = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("exclude") {
		v, err := flags.GetStringArray("exclude")
		if err != nil {
			return values, fmt.Errorf("parse --exclude: %w", err)
		}
		values.Excludes = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("skip-backup") {
		v, err := flags.GetBool("skip-backup")
		if err != nil {
			return values, fmt.Errorf("parse --skip-backup: %w", err)
		}
		values.SkipBackup = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("backup-dir") {
		v, err := flags.GetString("backup-dir")
		if err != nil {
			return values, fmt.Errorf("parse --backup-dir: %w", err)
		}
		values.BackupDir = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("db-dump") {
		v, err := flags.GetString("db-dump")
		if err != nil {
			return values, fmt.Errorf("parse --db-dump: %w", err)
		}
		values.Dump = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("db-name") {
		v, err := flags.GetString("db-name")
		if err != nil {
			return values, fmt.Errorf("parse --db-name: %w", err)
		}
		values.DBName = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("db-user") {
		v, err := flags.GetString("db-user")
		if err != nil {
			return values, fmt.Errorf("parse --db-user: %w", err)
		}
		values.DBUser = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("db-host") {
		v, err := flags.GetString("db-host")
		if err != nil {
			return values, fmt.Errorf("parse --db-host: %w", err)
		}
		values.DBHost = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("skip-database") {
		v, err := flags.GetBool("skip-database")
		if err != nil {
			return values, fmt.Errorf("parse --skip-database: %w", err)
		}
		values.SkipDatabase = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("retries") {
		v, err := flags.GetInt("retries")
		if err != nil {
			return values, fmt.Errorf("parse --retries: %w", err)
		}
		values.MaxAttempts = config.IntFlag{Value: v, Set: true}
	}

	if flags.Changed("log-level") {
		v, err := flags.GetString("log-level")
		if err != nil {
			return values, fmt.Errorf("parse --log-level: %w", err)
		}
		values.LogLevel = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("format") {
		v, err := flags.GetString("format")
		if err != nil {
			return values, fmt.Errorf("parse --format: %w", err)
		}
		values.Format = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("dry-run") {
		v, err := flags.GetBool("dry-run")
		if err != nil {
			return values, fmt.Errorf("parse --dry-run: %w", err)
		}
		values.DryRun = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return values, fmt.Errorf("parse --verbose: %w", err)
		}
		values.Verbose = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("yes") {
		v, err := flags.GetBool("yes")
		if err != nil {
			return values, fmt.Errorf("parse --yes: %w", err)
		}
		values.AssumeYes = config.BoolFlag{Value: v, Set: true}
	}

	return values, nil
}
