package github

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Result is the outcome of one command invocation.
//
// Three states are possible:
//   - success: Err is nil and ExitCode is 0
//   - ran and failed: Err is nil and ExitCode is the non-zero status
//   - did not run: Err is set and ExitCode is -1 (binary not found,
//     permission denied, context cancelled before start)
//
// Callers that only care about the first state use Success.
type Result struct {
	// Command is the argument vector that was (or would have been) run.
	Command []string

	// ExitCode is the process exit status, or -1 when Err is set.
	ExitCode int

	// Stdout and Stderr are the captured output streams. Both are empty
	// for interactive commands, whose output goes to the terminal.
	Stdout string
	Stderr string

	// Err is set only when the command could not be executed at all.
	Err error

	// JSON holds the decoded stdout of a successful "--json" command. It is
	// nil for every other command.
	JSON map[string]interface{}

	// DryRun marks a synthetic result for a command that was not run.
	DryRun bool
}

// Success reports whether the command ran and exited zero.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// ErrorText returns the most useful diagnostic text of a failed result:
// stderr, else stdout, else the execution error, else the exit status.
// Surrounding whitespace is trimmed. A successful result returns "".
func (r Result) ErrorText() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	if s := strings.TrimSpace(r.Stdout); s != "" {
		return s
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	if r.ExitCode != 0 {
		return "command exited with status " + strconv.Itoa(r.ExitCode)
	}
	return ""
}

// CommandLine renders Command for log output.
func (r Result) CommandLine() string {
	return strings.Join(r.Command, " ")
}

// Runner executes external commands.
//
// Implementations must not return a Go error for a non-zero exit; that is
// part of the Result. Client is the only caller in production, and the
// githubtest package provides a scripted implementation for tests.
type Runner interface {
	// Run executes argv with stdout and stderr captured.
	Run(ctx context.Context, argv []string) Result

	// RunInteractive executes argv attached to the user's terminal, for
	// commands such as "gh auth login" that prompt for input.
	RunInteractive(ctx context.Context, argv []string) Result
}

// ExecRunner runs commands with os/exec. The zero value attaches
// interactive commands to the process's standard streams.
type ExecRunner struct {
	// Stdin, Stdout and Stderr replace the process streams for
	// RunInteractive. Nil fields fall back to os.Stdin, os.Stdout and
	// os.Stderr. Run always captures output and ignores them.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes argv and captures its output.
//
// The command runs with the process environment, so variables unset
// earlier in the process (such as a token removed before re-login) are
// not passed on. The context kills the process when it is cancelled.
func (r ExecRunner) Run(ctx context.Context, argv []string) Result {
	res := Result{Command: argv, ExitCode: -1}
	if len(argv) == 0 {
		res.Err = errors.New("empty command")
		return res
	}

	// #nosec G204 -- argv is assembled by this package, not taken from a shell string
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return finish(res, err)
}

// RunInteractive executes argv with the runner's streams attached.
func (r ExecRunner) RunInteractive(ctx context.Context, argv []string) Result {
	res := Result{Command: argv, ExitCode: -1}
	if len(argv) == 0 {
		res.Err = errors.New("empty command")
		return res
	}

	// #nosec G204 -- argv is assembled by this package
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = orDefault(r.Stdin, os.Stdin)
	cmd.Stdout = orDefaultW(r.Stdout, os.Stdout)
	cmd.Stderr = orDefaultW(r.Stderr, os.Stderr)

	return finish(res, cmd.Run())
}

// finish folds the error from cmd.Run into res. A non-zero exit only sets
// ExitCode; anything else means the command never ran properly and is
// stored in Err with ExitCode left at -1.
func finish(res Result, err error) Result {
	if err == nil {
		res.ExitCode = 0
		return res
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res
	}
	res.Err = err
	return res
}

// orDefault returns r, or def when r is nil.
func orDefault(r io.Reader, def io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return def
}

// orDefaultW is orDefault for writers.
func orDefaultW(w io.Writer, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
