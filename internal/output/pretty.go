package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcwilhelm/wpship/internal/report"
)

// Color palette for terminal output.
var (
	ColorSuccess = lipgloss.Color("#2ECC71")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorAccent  = lipgloss.Color("#3498DB")
	ColorMuted   = lipgloss.Color("#7F8C8D")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
}

// Icon provides themed status glyphs.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconSkipped Icon = "○"
	IconArrow   Icon = "→"
)

// Render returns the icon with its status color.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconSkipped:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// PrettyRenderer renders deployment progress and results for humans. It
// doubles as the live progress reporter for a running pipeline.
type PrettyRenderer struct {
	out io.Writer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// StageStarted announces that a stage began.
func (p *PrettyRenderer) StageStarted(name string) {
	fmt.Fprintf(p.out, "%s %s\n", IconArrow.Render(), Styles.Bold.Render(name))
}

// StageFinished prints the stage line with its duration and, for failures,
// the reason.
func (p *PrettyRenderer) StageFinished(res report.StageResult) {
	icon := IconSuccess
	if !res.Succeeded {
		icon = IconError
	}
	detail := formatDuration(res.Duration)
	if res.Attempts > 1 {
		detail += fmt.Sprintf(", %d attempts", res.Attempts)
	}
	fmt.Fprintf(p.out, "%s %s (%s)\n", icon.Render(), res.Name, detail)
	if !res.Succeeded && res.Reason != "" {
		fmt.Fprintf(p.out, "%s\n", indent(Styles.Error.Render(res.Reason), "  "))
	}
}

// Warning prints a non-fatal problem as it happens.
func (p *PrettyRenderer) Warning(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", IconWarning.Render(), Styles.Warning.Render(msg))
}

// Info prints an informational progress message.
func (p *PrettyRenderer) Info(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", Styles.Muted.Render("│"), msg)
}

// RenderOutcome prints the closing summary for a finished run. Stage lines
// were already printed live; this adds the backup location, the warning
// count, and the terminal status.
func (p *PrettyRenderer) RenderOutcome(out report.Outcome) error {
	fmt.Fprintln(p.out)

	if b := out.Backup; b != nil {
		switch {
		case b.Downloaded && b.LocalDir != "":
			fmt.Fprintf(p.out, "Backup: %s %s %s\n", b.RemoteDir, IconArrow.Render(), b.LocalDir)
		case b.LocalDir != "":
			fmt.Fprintf(p.out, "Backup: retrieval incomplete; snapshot kept on the remote at %s\n", b.RemoteDir)
		default:
			fmt.Fprintf(p.out, "Backup: %s\n", Styles.Muted.Render("nothing to archive"))
		}
	}

	if n := len(out.Warnings); n > 0 {
		label := "warnings"
		if n == 1 {
			label = "warning"
		}
		fmt.Fprintf(p.out, "%s %d %s\n", IconWarning.Render(), n, label)
	}

	status := Styles.Success.Render(out.Terminal())
	if out.Status != report.StatusSuccess {
		status = Styles.Error.Render(out.Terminal())
	}
	suffix := ""
	if out.DryRun {
		suffix = " " + Styles.Muted.Render("(dry-run)")
	}
	fmt.Fprintf(p.out, "%s (%s)%s\n", status, formatDuration(out.Duration), suffix)
	return nil
}

// RenderCheck prints the preflight report.
func (p *PrettyRenderer) RenderCheck(rep CheckReport) error {
	fmt.Fprintln(p.out, Styles.Title.Render("Local tools"))
	for _, tool := range rep.Tools {
		switch {
		case tool.Found && tool.Version != "":
			fmt.Fprintf(p.out, "  %s %s %s %s\n", IconSuccess.Render(), tool.Name, tool.Version, Styles.Muted.Render(tool.Path))
		case tool.Found:
			fmt.Fprintf(p.out, "  %s %s %s\n", IconSuccess.Render(), tool.Name, Styles.Muted.Render(tool.Path))
		default:
			fmt.Fprintf(p.out, "  %s %s %s\n", IconError.Render(), tool.Name, Styles.Error.Render(tool.Detail))
		}
	}

	fmt.Fprintln(p.out, Styles.Title.Render("Config"))
	if len(rep.ConfigProblems) == 0 {
		fmt.Fprintf(p.out, "  %s complete\n", IconSuccess.Render())
	} else {
		for _, problem := range rep.ConfigProblems {
			fmt.Fprintf(p.out, "  %s %s\n", IconError.Render(), problem)
		}
	}

	if rep.Probe != nil {
		fmt.Fprintln(p.out, Styles.Title.Render("Remote"))
		if rep.Probe.Succeeded {
			fmt.Fprintf(p.out, "  %s %s reachable\n", IconSuccess.Render(), rep.Target)
		} else {
			fmt.Fprintf(p.out, "  %s %s unreachable: %s\n", IconError.Render(), rep.Target, rep.ProbeError)
		}
	}

	if rep.Ready {
		fmt.Fprintf(p.out, "%s\n", Styles.Success.Render("Ready to deploy."))
	} else {
		fmt.Fprintf(p.out, "%s\n", Styles.Error.Render("Not ready to deploy."))
	}
	return nil
}

func indent(s, pad string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Truncate(time.Millisecond).String()
}
