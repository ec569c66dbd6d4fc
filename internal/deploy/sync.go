package deploy

import (
	"context"
	"fmt"
	"os"

	"github.com/marcwilhelm/wpship/internal/report"
)

// runSync mirrors the local WordPress tree onto the remote root. The
// transfer is retried as a whole; the source directory is re-checked right
// before every attempt since it can vanish while the run waits between
// retries.
func (p *Pipeline) runSync(ctx context.Context, out *report.Outcome, res *report.StageResult) error {
	cfg := p.opts.Config
	command := rsyncCommand(cfg)

	outcome := p.opts.Retry.Do(ctx, "sync", func(ctx context.Context) error {
		if err := checkSourceDir(cfg.SourceDir()); err != nil {
			return err
		}
		if result := p.opts.Runner.Run(ctx, command, cfg.Timeouts.Sync); !result.Succeeded {
			return result.Failure()
		}
		return nil
	})
	res.Attempts = outcome.Attempts
	return outcome.Err()
}

func checkSourceDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceMissing, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceMissing, dir)
	}
	return nil
}
