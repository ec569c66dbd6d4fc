package output

import (
	"encoding/json"
	"io"

	"github.com/marcwilhelm/wpship/internal/report"
	"github.com/marcwilhelm/wpship/internal/runner"
)

// JSONRenderer emits structured deployment data.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Render encodes the run outcome as JSON.
func (j *JSONRenderer) Render(outcome report.Outcome) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}

// CheckReport captures the preflight schema shared by both renderers.
type CheckReport struct {
	Target         string         `json:"target"`
	Tools          []ToolCheck    `json:"tools"`
	ConfigProblems []string       `json:"config_problems,omitempty"`
	Probe          *runner.Result `json:"probe,omitempty"`
	ProbeError     string         `json:"probe_error,omitempty"`
	Ready          bool           `json:"ready"`
}

// ToolCheck describes one local transfer tool.
type ToolCheck struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Version string `json:"version,omitempty"`
	Path    string `json:"path,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// RenderCheck encodes the preflight report as JSON.
func (j *JSONRenderer) RenderCheck(rep CheckReport) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
