package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the remote site without deploying",
		RunE:  runBackup,
	}
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, warnings, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	printWarnings(cmd, warnings)

	if err := ensureSettings(cmd, &cfg); err != nil {
		return err
	}

	pipe, render, err := buildPipeline(cmd, cfg)
	if err != nil {
		return err
	}

	outcome := pipe.RunBackup(cmd.Context())
	if err := render(outcome); err != nil {
		return err
	}
	if outcome.ExitCode() != 0 {
		return fmt.Errorf("backup aborted at the %s stage", outcome.AbortedAt)
	}
	return nil
}
