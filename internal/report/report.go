package report

import (
	"fmt"
	"time"
)

// Stage names in pipeline order.
const (
	StageProbe    = "probe"
	StageBackup   = "backup"
	StageSync     = "sync"
	StageDatabase = "database"
)

// Status values for a finished deployment.
const (
	StatusSuccess = "success"
	StatusAborted = "aborted"
)

// StageResult captures the outcome of a single pipeline stage.
type StageResult struct {
	Name       string        `json:"name"`
	Attempted  bool          `json:"attempted"`
	Succeeded  bool          `json:"succeeded"`
	Attempts   int           `json:"attempts,omitempty"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	Reason     string        `json:"reason,omitempty"`
}

// BackupArtifact records where a pre-deployment snapshot ended up. RemoteDir
// always names the staging directory on the remote host; it doubles as the
// fallback location when the download to LocalDir fails.
type BackupArtifact struct {
	Stamp            string `json:"stamp"`
	RemoteDir        string `json:"remote_dir"`
	LocalDir         string `json:"local_dir"`
	FilesArchived    bool   `json:"files_archived"`
	DatabaseArchived bool   `json:"database_archived"`
	// Downloaded means the local copy is complete for everything that was
	// archived. It is true when nothing was archived at all.
	Downloaded bool `json:"downloaded"`
}

// Outcome aggregates the results of a deployment run. Stages always appear in
// pipeline order; stages the run never reached carry Attempted=false.
type Outcome struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	Duration   time.Duration   `json:"-"`
	DurationMS int64           `json:"duration_ms"`
	DryRun     bool            `json:"dry_run"`
	Stages     []StageResult   `json:"stages"`
	Status     string          `json:"status"`
	AbortedAt  string          `json:"aborted_at,omitempty"`
	Backup     *BackupArtifact `json:"backup,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
}

// Terminal renders the final status line for the run.
func (o Outcome) Terminal() string {
	if o.Status == StatusSuccess {
		return "SUCCESS"
	}
	return fmt.Sprintf("ABORTED_AT(%s)", o.AbortedAt)
}

// ExitCode returns the process exit code the outcome implies.
func (o Outcome) ExitCode() int {
	if o.Status == StatusSuccess {
		return 0
	}
	return 1
}
