package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcwilhelm/wpship/internal/config"
	"github.com/marcwilhelm/wpship/internal/deploy"
	"github.com/marcwilhelm/wpship/internal/discovery"
	"github.com/marcwilhelm/wpship/internal/output"
	"github.com/marcwilhelm/wpship/internal/report"
	"github.com/marcwilhelm/wpship/internal/runner"
	"github.com/marcwilhelm/wpship/internal/wpconfig"
)

// loadConfig resolves settings from the config file, environment, CLI flags,
// and the site's wp-config.php, in that order. The returned warnings are
// worth showing but do not block a run.
func loadConfig(cmd *cobra.Command) (config.Config, []string, error) {
	path := config.DefaultConfigFile
	if cmd.Flags().Changed("config") {
		v, err := cmd.Flags().GetString("config")
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("parse --config: %w", err)
		}
		if _, err := os.Stat(v); err != nil {
			return config.Config{}, nil, fmt.Errorf("config file: %w", err)
		}
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	config.ApplyFlags(&cfg, flags)

	warnings := prefillFromWPConfig(&cfg)
	return cfg, warnings, nil
}

// prefillFromWPConfig fills unset database settings from the wp-config.php
// that is about to be synced and reports mismatches between the two sources.
// A missing or unreadable wp-config.php is not an error.
func prefillFromWPConfig(cfg *config.Config) []string {
	values, err := wpconfig.Load(filepath.Join(cfg.SourceDir(), "wp-config.php"))
	if err != nil || values.Empty() {
		return nil
	}

	var warnings []string
	check := func(field *string, parsed, key string) {
		switch {
		case parsed == "":
		case *field == "":
			*field = parsed
		case *field != parsed:
			warnings = append(warnings, fmt.Sprintf("%s is %q but wp-config.php says %q", key, *field, parsed))
		}
	}
	check(&cfg.Database.Name, values.Name, "database.name")
	check(&cfg.Database.User, values.User, "database.user")

	// The synced wp-config.php decides which database host the remote site
	// talks to, so it wins over the built-in default.
	if values.Host != "" {
		if cfg.Database.Host == "" || cfg.Database.Host == config.DefaultDatabaseHost {
			cfg.Database.Host = values.Host
		} else if cfg.Database.Host != values.Host {
			warnings = append(warnings, fmt.Sprintf("database.host is %q but wp-config.php says %q", cfg.Database.Host, values.Host))
		}
	}

	if cfg.Database.Password == "" {
		cfg.Database.Password = values.Password
	}
	return warnings
}

// resolveDump turns the configured dump file, directory, or glob into a
// concrete path before any remote work starts.
func resolveDump(cfg *config.Config) error {
	if !cfg.DatabaseRequested() {
		return nil
	}
	resolved, err := discovery.Dump(cfg.Local.Root, cfg.Database.Dump)
	if err != nil {
		if errors.Is(err, discovery.ErrNoDump) {
			return fmt.Errorf("%w; point database.dump or --db-dump at a dump file", err)
		}
		return err
	}
	cfg.Database.Dump = resolved
	return nil
}

// ensureSettings prompts for whatever is still missing when a terminal is
// attached, then validates the final configuration.
func ensureSettings(cmd *cobra.Command, cfg *config.Config) error {
	if config.InteractiveAllowed() && !cfg.AssumeYes {
		opts := config.PromptOptions{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
		if err := config.PromptMissing(cfg, opts); err != nil {
			return err
		}
	}
	return cfg.Validate()
}

// buildPipeline wires a pipeline for cfg along with the matching renderer.
// Pretty output doubles as the live progress reporter; JSON stays silent
// until the final report.
func buildPipeline(cmd *cobra.Command, cfg config.Config) (*deploy.Pipeline, func(report.Outcome) error, error) {
	var reporter deploy.Reporter
	var render func(report.Outcome) error
	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		renderer := output.NewPretty(cmd.OutOrStdout())
		reporter = renderer
		render = renderer.RenderOutcome
	case config.FormatJSON:
		reporter = deploy.NopReporter{}
		render = output.NewJSON(cmd.OutOrStdout()).Render
	default:
		return nil, nil, fmt.Errorf("unsupported format %q", cfg.Format)
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())
	run := runner.New(runner.Options{
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
		Verbose: cfg.Verbose,
		DryRun:  cfg.DryRun,
		Logger:  logger.With("component", "runner"),
	})
	pipe := deploy.New(deploy.Options{
		Config:   cfg,
		Runner:   run,
		Reporter: reporter,
		Logger:   logger.With("component", "deploy"),
	})
	return pipe, render, nil
}

// setupLogger builds the logger the pipeline and runner share. Logs go to
// stderr so they never mix with rendered output on stdout.
func setupLogger(cfg config.Config, out io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if cfg.Verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
	}
}
