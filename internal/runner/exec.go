package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a command invocation when the caller does not supply
// its own limit.
const DefaultTimeout = 5 * time.Minute

var (
	// ErrTimeout reports that a command exceeded its time limit and was killed.
	ErrTimeout = errors.New("command timed out")
	// ErrNonZeroExit reports that a command ran to completion with a non-zero
	// exit status.
	ErrNonZeroExit = errors.New("command exited non-zero")
	// ErrSpawn reports that a command could not be started at all.
	ErrSpawn = errors.New("command failed to start")
)

// Result captures the outcome of a single command invocation.
type Result struct {
	Command    string        `json:"command"`
	Succeeded  bool          `json:"succeeded"`
	ExitCode   int           `json:"exit_code"`
	Stdout     string        `json:"stdout,omitempty"`
	Stderr     string        `json:"stderr,omitempty"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	Err        error         `json:"-"`
}

// Failure returns the classified error, annotated with the last captured
// stderr line when one exists. It returns nil for a successful result.
func (r Result) Failure() error {
	if r.Err == nil {
		return nil
	}
	if line := lastLine(r.Stderr); line != "" {
		return fmt.Errorf("%w: %s", r.Err, line)
	}
	return r.Err
}

// Runner executes a shell command under a timeout. Implementations must kill
// the underlying process when the timeout expires.
type Runner interface {
	Run(ctx context.Context, command string, timeout time.Duration) Result
}

// Options configure how commands are executed.
type Options struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Verbose   bool
	DryRun    bool
	TailLines int
	Env       []string
	Shell     []string
	Now       func() time.Time
	Logger    *slog.Logger
}

// ExecRunner runs commands through the system shell.
type ExecRunner struct {
	opts Options
}

// New creates a runner with the supplied options.
func New(opts Options) *ExecRunner {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.TailLines <= 0 {
		opts.TailLines = 20
	}
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	if len(opts.Shell) == 0 {
		opts.Shell = []string{"sh", "-c"}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &ExecRunner{opts: opts}
}

// Run executes command through the shell, streaming output when verbose and
// capturing a tail of both streams. The process group is killed once timeout
// elapses; the returned result classifies any failure via ErrTimeout,
// ErrNonZeroExit, or ErrSpawn.
func (r *ExecRunner) Run(ctx context.Context, command string, timeout time.Duration) Result {
	result := Result{Command: command}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if r.opts.DryRun {
		fmt.Fprintf(r.opts.Stdout, "dry-run: %s\n", command)
		result.Succeeded = true
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, r.opts.Shell...), command)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = r.opts.Env
	// Wait must not hang on the output pipes if something the shell spawned
	// survives the kill and keeps the write ends open.
	cmd.WaitDelay = time.Second
	setProcessGroup(cmd)

	var stdoutBuf, stderrBuf strings.Builder
	if r.opts.Verbose {
		cmd.Stdout = io.MultiWriter(r.opts.Stdout, &stdoutBuf)
		cmd.Stderr = io.MultiWriter(r.opts.Stderr, &stderrBuf)
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	r.opts.Logger.Debug("exec", "command", command, "timeout", timeout)

	start := r.opts.Now()
	err := cmd.Run()
	result.Duration = r.opts.Now().Sub(start)
	result.DurationMS = result.Duration.Milliseconds()
	result.Stdout = tailLines(stdoutBuf.String(), r.opts.TailLines)
	result.Stderr = tailLines(stderrBuf.String(), r.opts.TailLines)

	if err == nil {
		result.Succeeded = true
		return result
	}

	result.ExitCode = exitCode(err)
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		// Timeout wins over the exit status of the killed process.
		result.Err = fmt.Errorf("timed out after %s: %w", timeout, ErrTimeout)
		r.opts.Logger.Warn("command timed out", "command", command, "timeout", timeout)
	case ctx.Err() == context.Canceled:
		// The operator gave up, not the command.
		result.Err = fmt.Errorf("interrupted: %w", context.Canceled)
	case isExitError(err):
		result.Err = fmt.Errorf("exit status %d: %w", result.ExitCode, ErrNonZeroExit)
	default:
		result.Err = fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	return result
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

func tailLines(input string, maxLines int) string {
	if input == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(input, "\n"), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-maxLines:], "\n")
}

func lastLine(input string) string {
	lines := strings.Split(strings.TrimRight(input, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
