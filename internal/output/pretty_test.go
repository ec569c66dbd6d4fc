package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/marcwilhelm/wpship/internal/report"
)

func TestPrettyStageEvents(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer := NewPretty(buf)

	renderer.StageStarted("probe")
	renderer.StageFinished(report.StageResult{
		Name: "probe", Attempted: true, Succeeded: true, Attempts: 1, Duration: 1200 * time.Millisecond,
	})
	renderer.StageFinished(report.StageResult{
		Name: "sync", Attempted: true, Succeeded: true, Attempts: 2, Duration: 32 * time.Second,
	})
	renderer.StageFinished(report.StageResult{
		Name: "database", Attempted: true, Attempts: 3, Reason: "failed after 3 attempts: import dump: exit status 1",
	})
	renderer.Warning("file archive failed")

	out := buf.String()
	if !strings.Contains(out, "probe") {
		t.Fatalf("expected stage name, got %q", out)
	}
	if !strings.Contains(out, "✓") || !strings.Contains(out, "✗") {
		t.Fatalf("expected status glyphs, got %q", out)
	}
	if !strings.Contains(out, "2 attempts") {
		t.Fatalf("expected attempt count, got %q", out)
	}
	if !strings.Contains(out, "import dump") {
		t.Fatalf("expected failure reason, got %q", out)
	}
	if !strings.Contains(out, "⚠") || !strings.Contains(out, "file archive failed") {
		t.Fatalf("expected warning line, got %q", out)
	}
}

func TestPrettyRenderOutcomeSuccess(t *testing.T) {
	outcome := report.Outcome{
		Status:   report.StatusSuccess,
		Duration: 43 * time.Second,
		Backup: &report.BackupArtifact{
			RemoteDir:  "backups/20240301-123000",
			LocalDir:   "local-backups/20240301-123000",
			Downloaded: true,
		},
		Warnings: []string{"one thing"},
	}

	buf := &bytes.Buffer{}
	if err := NewPretty(buf).RenderOutcome(outcome); err != nil {
		t.Fatalf("render outcome: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "SUCCESS") {
		t.Fatalf("expected SUCCESS, got %q", out)
	}
	if !strings.Contains(out, "backups/20240301-123000") {
		t.Fatalf("expected backup location, got %q", out)
	}
	if !strings.Contains(out, "1 warning") {
		t.Fatalf("expected warning count, got %q", out)
	}
}

func TestPrettyRenderOutcomeAborted(t *testing.T) {
	outcome := report.Outcome{
		Status:    report.StatusAborted,
		AbortedAt: report.StageSync,
		Duration:  5 * time.Second,
	}

	buf := &bytes.Buffer{}
	if err := NewPretty(buf).RenderOutcome(outcome); err != nil {
		t.Fatalf("render outcome: %v", err)
	}

	if !strings.Contains(buf.String(), "ABORTED_AT(sync)") {
		t.Fatalf("expected terminal status, got %q", buf.String())
	}
}

func TestPrettyRenderOutcomeDryRun(t *testing.T) {
	outcome := report.Outcome{Status: report.StatusSuccess, DryRun: true}

	buf := &bytes.Buffer{}
	if err := NewPretty(buf).RenderOutcome(outcome); err != nil {
		t.Fatalf("render outcome: %v", err)
	}
	if !strings.Contains(buf.String(), "dry-run") {
		t.Fatalf("expected dry-run marker, got %q", buf.String())
	}
}

func TestPrettyRenderOutcomeRemoteFallback(t *testing.T) {
	outcome := report.Outcome{
		Status: report.StatusSuccess,
		Backup: &report.BackupArtifact{
			RemoteDir: "backups/20240301-123000",
			LocalDir:  "local-backups/20240301-123000",
		},
	}

	buf := &bytes.Buffer{}
	if err := NewPretty(buf).RenderOutcome(outcome); err != nil {
		t.Fatalf("render outcome: %v", err)
	}
	if !strings.Contains(buf.String(), "kept on the remote at backups/20240301-123000") {
		t.Fatalf("expected fallback note, got %q", buf.String())
	}
}

func TestPrettyRenderCheck(t *testing.T) {
	rep := CheckReport{
		Target: "deploy@shop.example.com",
		Tools: []ToolCheck{
			{Name: "ssh", Found: true, Version: "9.6p1", Path: "/usr/bin/ssh"},
			{Name: "rsync", Found: false, Detail: "not found"},
		},
		ConfigProblems: []string{"remote.host is unset"},
		Ready:          false,
	}

	buf := &bytes.Buffer{}
	if err := NewPretty(buf).RenderCheck(rep); err != nil {
		t.Fatalf("render check: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ssh 9.6p1") {
		t.Fatalf("expected tool version, got %q", out)
	}
	if !strings.Contains(out, "rsync") || !strings.Contains(out, "not found") {
		t.Fatalf("expected missing tool, got %q", out)
	}
	if !strings.Contains(out, "remote.host is unset") {
		t.Fatalf("expected config problem, got %q", out)
	}
	if !strings.Contains(out, "Not ready to deploy.") {
		t.Fatalf("expected readiness verdict, got %q", out)
	}
}

func TestPrettyRenderCheckReady(t *testing.T) {
	rep := CheckReport{
		Target: "deploy@shop.example.com",
		Tools:  []ToolCheck{{Name: "ssh", Found: true, Path: "/usr/bin/ssh"}},
		Ready:  true,
	}

	buf := &bytes.Buffer{}
	if err := NewPretty(buf).RenderCheck(rep); err != nil {
		t.Fatalf("render check: %v", err)
	}
	if !strings.Contains(buf.String(), "Ready to deploy.") {
		t.Fatalf("expected readiness verdict, got %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{450 * time.Millisecond, "450ms"},
		{3*time.Second + 200*time.Millisecond, "3.2s"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.in); got != tc.want {
			t.Fatalf("formatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
