// Package command runs the external control tool with a bounded timeout and
// turns its standard output into trimmed lines.
package command

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
	perrors "github.com/jmylchreest/pprofiler/internal/errors"
)

// waitDelay bounds how long Wait keeps draining stdout after the process was
// killed, in case a grandchild still holds the pipe open.
const waitDelay = 250 * time.Millisecond

// Status classifies a finished invocation.
type Status int

const (
	Success Status = iota
	Failure
)

func (s Status) String() string {
	if s == Success {
		return "success"
	}
	return "failure"
}

// Result is the immutable outcome of one invocation.
type Result struct {
	Status Status
	// Lines holds each stdout line with surrounding whitespace removed,
	// blank lines included. Always empty after a timeout.
	Lines []string
	// TimedOut is set when the process was killed at the deadline. Callers
	// treat it like any other failure; it is kept for logging.
	TimedOut bool
	// Err is the underlying cause of a failure, for logging only.
	Err error
}

// OK reports whether the command exited with status 0.
func (r Result) OK() bool {
	return r.Status == Success
}

// Runner executes a command line.
type Runner interface {
	Run(ctx context.Context, commandLine string, timeout time.Duration) Result
}

// ExecRunner runs commands as child processes. The command line is split with
// shell word rules and executed directly, never through a shell.
type ExecRunner struct {
	logger *slog.Logger
}

// NewExecRunner creates a runner that logs through logger.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

// Run executes commandLine and waits at most timeout for it to finish.
func (r *ExecRunner) Run(ctx context.Context, commandLine string, timeout time.Duration) Result {
	args, err := Split(commandLine)
	if err != nil {
		r.logger.Debug("command: invalid command line", "command", commandLine, "error", err)
		return Result{Status: Failure, Err: err}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...) //nolint:gosec // command path from user config
	cmd.Stdout = &stdout
	cmd.Stderr = nil
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err = cmd.Run()

	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		r.logger.Debug("command: timed out",
			"command", commandLine,
			"timeout", timeout,
		)
		return Result{
			Status:   Failure,
			TimedOut: true,
			Err:      perrors.Timeoutf("%s killed after %s", args[0], timeout),
		}
	}

	lines := SplitLines(stdout.String())
	if err != nil {
		r.logger.Debug("command: failed",
			"command", commandLine,
			"error", err,
			"duration", time.Since(start),
		)
		return Result{
			Status: Failure,
			Lines:  lines,
			Err:    perrors.WrapErrorf(err, "%s", args[0]),
		}
	}

	r.logger.Debug("command: finished",
		"command", commandLine,
		"lines", len(lines),
		"duration", time.Since(start),
	)
	return Result{Status: Success, Lines: lines}
}

// Split breaks a command line into an argument vector using shell word rules.
// No expansion of any kind takes place.
func Split(commandLine string) ([]string, error) {
	args, err := shlex.Split(commandLine)
	if err != nil {
		return nil, perrors.InvalidInputf("parsing command line %q: %v", commandLine, err)
	}
	if len(args) == 0 {
		return nil, perrors.InvalidInputf("empty command line")
	}
	return args, nil
}

// Quote returns s in a form Split reads back as exactly one argument.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\r\n'\"\\#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// SplitLines splits captured output into lines, trimming each one. A final
// newline does not produce a trailing empty line.
func SplitLines(output string) []string {
	if output == "" {
		return []string{}
	}
	output = strings.ReplaceAll(output, "\r\n", "\n")
	output = strings.TrimSuffix(output, "\n")

	raw := strings.Split(output, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
