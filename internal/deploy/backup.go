package deploy

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/marcwilhelm/wpship/internal/report"
)

// runBackup snapshots the remote site before anything changes it. Only the
// directories are load-bearing: a failed archive or download degrades to a
// warning, so a deploy is never blocked by its own safety net. The snapshot
// is taken once, without retries.
func (p *Pipeline) runBackup(ctx context.Context, out *report.Outcome, res *report.StageResult) error {
	cfg := p.opts.Config
	res.Attempts = 1

	stamp := out.StartedAt.Format(stampLayout)
	remoteDir := path.Join(cfg.Backup.RemoteDir, stamp)
	artifact := &report.BackupArtifact{Stamp: stamp, RemoteDir: remoteDir}
	out.Backup = artifact

	if result := p.run(ctx, sshCommand(cfg, mkdirCommand(remoteDir))); !result.Succeeded {
		return fmt.Errorf("create remote staging %s: %v", remoteDir, result.Failure())
	}

	if p.run(ctx, sshCommand(cfg, testDirCommand(cfg.Remote.Path))).Succeeded {
		if result := p.run(ctx, sshCommand(cfg, tarCommand(cfg, remoteDir))); result.Succeeded {
			artifact.FilesArchived = true
		} else {
			p.warn(out, fmt.Sprintf("file archive failed: %v", result.Failure()))
		}
	} else {
		p.warn(out, fmt.Sprintf("remote path %s does not exist yet; skipping file archive", cfg.Remote.Path))
	}

	if cfg.Database.Name == "" {
		p.warn(out, "database.name not set; skipping database archive")
	} else {
		if result := p.run(ctx, sshCommand(cfg, dumpCommand(cfg, remoteDir))); result.Succeeded {
			artifact.DatabaseArchived = true
		} else {
			p.warn(out, fmt.Sprintf("database archive failed: %v", result.Failure()))
		}
	}

	if !artifact.FilesArchived && !artifact.DatabaseArchived {
		// Nothing staged, nothing to retrieve.
		artifact.Downloaded = true
		p.warn(out, "nothing was archived; skipping retrieval")
		return nil
	}

	localDir := filepath.Join(cfg.Backup.Dir, stamp)
	if !cfg.DryRun {
		if err := os.MkdirAll(localDir, 0o755); err != nil {
			return fmt.Errorf("create local backup dir %s: %w", localDir, err)
		}
	}
	artifact.LocalDir = localDir

	result := p.run(ctx, scpFromRemote(cfg, path.Join(remoteDir, "*"), localDir))
	if !result.Succeeded {
		p.warn(out, fmt.Sprintf("backup retrieval failed: %v; the snapshot remains on the remote at %s",
			result.Failure(), remoteDir))
		return nil
	}
	artifact.Downloaded = true
	p.opts.Reporter.Info(fmt.Sprintf("snapshot saved to %s", localDir))
	return nil
}
