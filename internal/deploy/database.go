package deploy

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/marcwilhelm/wpship/internal/report"
)

// runDatabase imports the configured dump into the remote database. A
// missing dump fails the stage before any remote operation happens. The
// upload, import, and cleanup form one retryable unit: a retry starts over
// from the upload so the import never reads a half-transferred file.
func (p *Pipeline) runDatabase(ctx context.Context, out *report.Outcome, res *report.StageResult) error {
	cfg := p.opts.Config
	dump := cfg.Database.Dump

	if _, err := os.Stat(dump); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingArtifact, dump)
	}

	stamp := out.StartedAt.Format(stampLayout)
	remoteDump := path.Join("/tmp", fmt.Sprintf("wpship-%s.sql.gz", stamp))

	upload := scpToRemote(cfg, dump, remoteDump)
	importLoad := sshCommand(cfg, importCommand(cfg, remoteDump))
	cleanup := sshCommand(cfg, removeCommand(remoteDump))

	outcome := p.opts.Retry.Do(ctx, "database import", func(ctx context.Context) error {
		if result := p.run(ctx, upload); !result.Succeeded {
			return fmt.Errorf("upload dump: %w", result.Failure())
		}
		if result := p.run(ctx, importLoad); !result.Succeeded {
			return fmt.Errorf("import dump: %w", result.Failure())
		}
		if result := p.run(ctx, cleanup); !result.Succeeded {
			return fmt.Errorf("remove remote dump: %w", result.Failure())
		}
		return nil
	})
	res.Attempts = outcome.Attempts
	return outcome.Err()
}
