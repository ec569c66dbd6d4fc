package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcwilhelm/wpship/internal/config"
)

func newDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the local site to the remote host",
		RunE:  runDeploy,
	}
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg, warnings, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	printWarnings(cmd, warnings)

	if err := resolveDump(&cfg); err != nil {
		return err
	}
	if err := ensureSettings(cmd, &cfg); err != nil {
		return err
	}

	if !cfg.AssumeYes && !cfg.DryRun && config.InteractiveAllowed() {
		question := fmt.Sprintf("Deploy %s to %s:%s?", cfg.SourceDir(), cfg.Target(), cfg.Remote.Path)
		ok, err := config.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), question)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("deployment cancelled")
		}
	}

	pipe, render, err := buildPipeline(cmd, cfg)
	if err != nil {
		return err
	}

	outcome := pipe.Run(cmd.Context())
	if err := render(outcome); err != nil {
		return err
	}
	if outcome.ExitCode() != 0 {
		return fmt.Errorf("deployment aborted at the %s stage", outcome.AbortedAt)
	}
	return nil
}
