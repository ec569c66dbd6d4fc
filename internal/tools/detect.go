package tools

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Info captures a transfer tool installed on the local machine.
type Info struct {
	Name    string
	Version string
	Path    string
}

var (
	sshRegex   = regexp.MustCompile(`(?i)OpenSSH[_ ](\d+\.\d+(?:p\d+)?)`)
	rsyncRegex = regexp.MustCompile(`(?i)version\s+(\d+\.\d+(?:\.\d+)?)`)
)

// DetectSSH returns the local ssh client version by calling `ssh -V`.
func DetectSSH() (Info, error) {
	out, err := runCommand("ssh", "-V")
	if err != nil {
		return Info{}, err
	}
	return Info{Name: "ssh", Version: parseVersion(sshRegex, out), Path: lookPath("ssh")}, nil
}

// DetectRsync returns the local rsync version by calling `rsync --version`.
func DetectRsync() (Info, error) {
	out, err := runCommand("rsync", "--version")
	if err != nil {
		return Info{}, err
	}
	return Info{Name: "rsync", Version: parseVersion(rsyncRegex, out), Path: lookPath("rsync")}, nil
}

// DetectSCP checks that scp is on PATH. scp has no version flag; presence is
// all that can be verified.
func DetectSCP() (Info, error) {
	path, err := exec.LookPath("scp")
	if err != nil {
		return Info{}, err
	}
	return Info{Name: "scp", Path: path}, nil
}

// Status pairs a detection result with its error for reporting.
type Status struct {
	Name string
	Info Info
	Err  error
}

// DetectAll probes every tool a deployment shells out to locally.
func DetectAll() []Status {
	detectors := []struct {
		name   string
		detect func() (Info, error)
	}{
		{"ssh", DetectSSH},
		{"scp", DetectSCP},
		{"rsync", DetectRsync},
	}
	statuses := make([]Status, 0, len(detectors))
	for _, d := range detectors {
		info, err := d.detect()
		statuses = append(statuses, Status{Name: d.name, Info: info, Err: err})
	}
	return statuses
}

// Missing reports whether the detection error means the tool is not installed.
func Missing(cmdErr error) bool {
	return errors.Is(cmdErr, exec.ErrNotFound)
}

func runCommand(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	var buf bytes.Buffer
	// ssh -V writes its banner to stderr.
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		if Missing(err) {
			return "", err
		}
		return "", fmt.Errorf("run %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func parseVersion(re *regexp.Regexp, out string) string {
	match := re.FindStringSubmatch(out)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

func lookPath(name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return path
}
