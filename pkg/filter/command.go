package filter

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultCommandTimeout bounds a command filter invocation when no timeout
// is configured.
const DefaultCommandTimeout = 5 * time.Second

// Command runs an external program with the filter input appended as the
// final argument and resolves to the program's standard output.
//
// The filter always resolves to a string. On non-zero exit, timeout, or
// any I/O error it resolves to the captured error output when there is
// any, else to the error message itself. Callers never see a failure.
type Command struct {
	name    string
	argv    []string
	timeout time.Duration
}

// NewCommand returns a command filter registered under name that executes
// argv[0] with argv[1:] plus the filter input. A non-positive timeout
// falls back to DefaultCommandTimeout.
func NewCommand(name string, argv []string, timeout time.Duration) Filter {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &Command{name: name, argv: argv, timeout: timeout}
}

func (c *Command) Name() string {
	return c.name
}

// Apply executes the configured command. Each invocation is independent:
// its own process, its own deadline, no shared state.
func (c *Command) Apply(ctx context.Context, input string) string {
	if len(c.argv) == 0 {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := append(append([]string(nil), c.argv[1:]...), input)
	cmd := exec.CommandContext(ctx, c.argv[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Debug().
			Err(err).
			Str("filter", c.name).
			Str("command", c.argv[0]).
			Msg("Command filter failed, resolving to error output")

		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return msg
		}
		return err.Error()
	}

	return strings.TrimRight(stdout.String(), "\n")
}
