package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/shinji-kodama/template-repo/internal/github"
	"github.com/shinji-kodama/template-repo/internal/github/githubtest"
	"github.com/shinji-kodama/template-repo/internal/pipeline"
)

// cliResult captures one command invocation.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the root command with args and an isolated home
// directory, so no user config is read.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TEMPLATE_REPO_CONFIG", "")

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// scriptHost replaces the GitHub client with one driven by runner for the
// rest of the test.
func scriptHost(t *testing.T, runner *githubtest.Runner) {
	t.Helper()
	orig := newHostClient
	newHostClient = func(logger *log.Logger, dryRun bool) pipeline.HostClient {
		return github.NewClient(runner, github.WithLogger(logger), github.WithDryRun(dryRun))
	}
	t.Cleanup(func() { newHostClient = orig })
}
