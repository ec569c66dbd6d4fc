// Package deploy orchestrates a WordPress deployment: probe the remote
// host, snapshot it, sync the local tree over, and import a database dump.
package deploy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/marcwilhelm/wpship/internal/config"
	"github.com/marcwilhelm/wpship/internal/report"
	"github.com/marcwilhelm/wpship/internal/retry"
	"github.com/marcwilhelm/wpship/internal/runner"
)

// stampLayout names backup staging directories and uploaded dumps after the
// moment the run started.
const stampLayout = "20060102-150405"

var (
	// ErrUnreachable reports that the connectivity probe failed.
	ErrUnreachable = errors.New("remote host unreachable")
	// ErrMissingArtifact reports that the configured database dump does not
	// exist locally.
	ErrMissingArtifact = errors.New("database dump missing")
	// ErrSourceMissing reports that the local sync source disappeared.
	ErrSourceMissing = errors.New("sync source missing")
)

// Reporter receives progress events while a pipeline runs.
type Reporter interface {
	StageStarted(name string)
	StageFinished(res report.StageResult)
	Warning(msg string)
	Info(msg string)
}

// NopReporter discards all progress events.
type NopReporter struct{}

func (NopReporter) StageStarted(string)              {}
func (NopReporter) StageFinished(report.StageResult) {}
func (NopReporter) Warning(string)                   {}
func (NopReporter) Info(string)                      {}

// Options configure a Pipeline.
type Options struct {
	Config   config.Config
	Runner   runner.Runner
	Retry    retry.Policy
	Reporter Reporter
	Logger   *slog.Logger
	Now      func() time.Time
	NewRunID func() string
}

// Pipeline executes deployment stages in a fixed order and aggregates their
// results into a report.
type Pipeline struct {
	opts Options
}

// New creates a pipeline with the supplied options.
func New(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Runner == nil {
		opts.Runner = runner.New(runner.Options{
			Verbose: opts.Config.Verbose,
			DryRun:  opts.Config.DryRun,
			Logger:  opts.Logger,
		})
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.Policy{
			MaxAttempts: opts.Config.Retry.MaxAttempts,
			Delay:       opts.Config.Retry.Delay,
			Logger:      opts.Logger,
		}
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	return &Pipeline{opts: opts}
}

type stage struct {
	name    string
	enabled bool
	skip    string
	run     func(ctx context.Context, out *report.Outcome, res *report.StageResult) error
}

func (p *Pipeline) stages() []stage {
	cfg := p.opts.Config
	return []stage{
		{name: report.StageProbe, enabled: true, run: p.runProbe},
		{name: report.StageBackup, enabled: cfg.Backup.Enabled, skip: "disabled", run: p.runBackup},
		{name: report.StageSync, enabled: true, run: p.runSync},
		{name: report.StageDatabase, enabled: cfg.DatabaseRequested(), skip: "no dump configured", run: p.runDatabase},
	}
}

// Run executes the full deployment: probe, backup, sync, database import.
// The first stage failure aborts the run; later stages are reported as not
// attempted. There is no rollback.
func (p *Pipeline) Run(ctx context.Context) report.Outcome {
	return p.execute(ctx, p.stages())
}

// RunBackup executes only the probe and snapshot stages. An explicit backup
// request overrides backup.enabled.
func (p *Pipeline) RunBackup(ctx context.Context) report.Outcome {
	stages := p.stages()[:2]
	stages[1].enabled = true
	stages[1].skip = ""
	return p.execute(ctx, stages)
}

// Probe runs only the connectivity check and returns the raw result.
func (p *Pipeline) Probe(ctx context.Context) runner.Result {
	return p.run(ctx, probeCommand(p.opts.Config))
}

func (p *Pipeline) execute(ctx context.Context, stages []stage) report.Outcome {
	out := report.Outcome{
		RunID:     p.opts.NewRunID(),
		StartedAt: p.opts.Now(),
		DryRun:    p.opts.Config.DryRun,
		Status:    report.StatusSuccess,
	}
	p.opts.Logger.Info("deployment started",
		"run_id", out.RunID,
		"target", p.opts.Config.Target(),
		"dry_run", out.DryRun)

	for _, st := range stages {
		res := report.StageResult{Name: st.name}
		switch {
		case out.Status == report.StatusAborted:
			res.Reason = "earlier stage failed"
		case !st.enabled:
			res.Reason = st.skip
		default:
			p.opts.Reporter.StageStarted(st.name)
			res.Attempted = true
			start := p.opts.Now()
			err := st.run(ctx, &out, &res)
			res.Duration = p.opts.Now().Sub(start)
			res.DurationMS = res.Duration.Milliseconds()
			if err != nil {
				res.Reason = err.Error()
				out.Status = report.StatusAborted
				out.AbortedAt = st.name
				p.opts.Logger.Error("stage failed", "stage", st.name, "error", err)
			} else {
				res.Succeeded = true
			}
			p.opts.Reporter.StageFinished(res)
		}
		out.Stages = append(out.Stages, res)
	}

	out.Duration = p.opts.Now().Sub(out.StartedAt)
	out.DurationMS = out.Duration.Milliseconds()
	p.opts.Logger.Info("deployment finished", "run_id", out.RunID, "status", out.Terminal())
	return out
}

// run executes a single command under the general command timeout.
func (p *Pipeline) run(ctx context.Context, command string) runner.Result {
	return p.opts.Runner.Run(ctx, command, p.opts.Config.Timeouts.Command)
}

// warn records a non-fatal problem on the outcome and surfaces it.
func (p *Pipeline) warn(out *report.Outcome, msg string) {
	out.Warnings = append(out.Warnings, msg)
	p.opts.Reporter.Warning(msg)
	p.opts.Logger.Warn(msg)
}
