package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/marcwilhelm/wpship/internal/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter wpship.yml",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigFile
	if cmd.Flags().Changed("config") {
		v, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("parse --config: %w", err)
		}
		path = v
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	data, err := yaml.Marshal(starterConfig())
	if err != nil {
		return fmt.Errorf("render starter config: %w", err)
	}
	header := []byte("# wpship deployment settings. Empty values can come from WPSHIP_*\n# environment variables, CLI flags, or interactive prompts.\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

// scaffold mirrors Config with yaml tags and string durations so the
// generated file reads the way people write it. The database password is
// left out on purpose; it belongs in WPSHIP_DATABASE_PASSWORD or a prompt.
type scaffold struct {
	Remote struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		User string `yaml:"user"`
		Path string `yaml:"path"`
	} `yaml:"remote"`
	Local struct {
		Root   string `yaml:"root"`
		WPRoot string `yaml:"wp_root"`
	} `yaml:"local"`
	Sync struct {
		Excludes []string `yaml:"excludes"`
	} `yaml:"sync"`
	Backup struct {
		Enabled   bool   `yaml:"enabled"`
		Dir       string `yaml:"dir"`
		RemoteDir string `yaml:"remote_dir"`
	} `yaml:"backup"`
	Database struct {
		Dump string `yaml:"dump"`
		Name string `yaml:"name"`
		User string `yaml:"user"`
		Host string `yaml:"host"`
	} `yaml:"database"`
	Retry struct {
		MaxAttempts int    `yaml:"max_attempts"`
		Delay       string `yaml:"delay"`
	} `yaml:"retry"`
	Timeouts struct {
		Command string `yaml:"command"`
		Sync    string `yaml:"sync"`
		Probe   string `yaml:"probe"`
	} `yaml:"timeouts"`
}

func starterConfig() scaffold {
	defaults := config.Default()

	var sc scaffold
	sc.Remote.Port = defaults.Remote.Port
	sc.Local.Root = defaults.Local.Root
	sc.Local.WPRoot = defaults.Local.WPRoot
	sc.Sync.Excludes = []string{".env", "wp-content/uploads/"}
	sc.Backup.Enabled = defaults.Backup.Enabled
	sc.Backup.Dir = defaults.Backup.Dir
	sc.Backup.RemoteDir = defaults.Backup.RemoteDir
	sc.Database.Host = defaults.Database.Host
	sc.Retry.MaxAttempts = defaults.Retry.MaxAttempts
	sc.Retry.Delay = defaults.Retry.Delay.String()
	sc.Timeouts.Command = defaults.Timeouts.Command.String()
	sc.Timeouts.Sync = defaults.Timeouts.Sync.String()
	sc.Timeouts.Probe = defaults.Timeouts.Probe.String()
	return sc
}
