package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcwilhelm/wpship/internal/config"
	"github.com/marcwilhelm/wpship/internal/deploy"
	"github.com/marcwilhelm/wpship/internal/output"
	"github.com/marcwilhelm/wpship/internal/tools"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify local tools, configuration, and remote reachability",
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, warnings, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	printWarnings(cmd, warnings)

	rep := output.CheckReport{Ready: true}
	if cfg.Remote.Host != "" {
		rep.Target = cfg.Target()
	}

	for _, status := range tools.DetectAll() {
		check := output.ToolCheck{Name: status.Name}
		switch {
		case status.Err == nil:
			check.Found = true
			check.Version = status.Info.Version
			check.Path = status.Info.Path
		case tools.Missing(status.Err):
			check.Detail = "not found"
			rep.Ready = false
		default:
			check.Detail = status.Err.Error()
			rep.Ready = false
		}
		rep.Tools = append(rep.Tools, check)
	}

	if err := resolveDump(&cfg); err != nil {
		rep.ConfigProblems = append(rep.ConfigProblems, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		rep.ConfigProblems = append(rep.ConfigProblems, err.Error())
	}
	if len(rep.ConfigProblems) > 0 {
		rep.Ready = false
	}

	// Probing an incompletely configured target only reports noise.
	if len(rep.ConfigProblems) == 0 {
		pipe := deploy.New(deploy.Options{Config: cfg, Logger: setupLogger(cfg, cmd.ErrOrStderr())})
		result := pipe.Probe(cmd.Context())
		rep.Probe = &result
		if result.Err != nil {
			rep.ProbeError = result.Failure().Error()
			rep.Ready = false
		}
	}

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		if err := output.NewPretty(cmd.OutOrStdout()).RenderCheck(rep); err != nil {
			return err
		}
	case config.FormatJSON:
		if err := output.NewJSON(cmd.OutOrStdout()).RenderCheck(rep); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	if !rep.Ready {
		return fmt.Errorf("preflight failed")
	}
	return nil
}
