package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// PromptOptions controls interactive prompting. Zero values fall back to
// stdin, stderr, and a hidden terminal read for passwords.
type PromptOptions struct {
	In           io.Reader
	Out          io.Writer
	PasswordFunc func() (string, error)
}

// InteractiveAllowed reports whether prompting can happen at all: both
// stdin and stderr must be terminals.
func InteractiveAllowed() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

// PromptMissing asks for the required settings that remain unset and for
// the database password when a dump is about to be imported without one.
// cfg is updated in place with the answers.
func PromptMissing(cfg *Config, opts PromptOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stderr
	}
	if opts.PasswordFunc == nil {
		opts.PasswordFunc = readPassword
	}

	reader := bufio.NewReader(opts.In)
	fields := []struct {
		label string
		value *string
	}{
		{"Remote host", &cfg.Remote.Host},
		{"Remote user", &cfg.Remote.User},
		{"Remote WordPress path", &cfg.Remote.Path},
	}
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		answer, err := ask(reader, opts.Out, f.label)
		if err != nil {
			return err
		}
		*f.value = answer
	}

	if cfg.DatabaseRequested() && cfg.Database.Password == "" {
		fmt.Fprintf(opts.Out, "Database password for %s: ", cfg.Database.User)
		password, err := opts.PasswordFunc()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Fprint(opts.Out, "\n")
		cfg.Database.Password = password
	}
	return nil
}

// Confirm asks a yes/no question and reports whether the answer was yes.
// Pressing enter defaults to no, as does end of input.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func ask(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return "", fmt.Errorf("%w: no answer for %s", ErrMissingSettings, label)
	}
	return answer, nil
}

// readPassword reads from the terminal without echoing.
func readPassword() (string, error) {
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
