package pipeline

import (
	"context"
	"os"

	"github.com/shinji-kodama/template-repo/internal/github"
	"github.com/shinji-kodama/template-repo/internal/model"
)

// HostClient is the subset of *github.Client the orchestrator drives.
//
// The interface lists only what a packaging run needs. git operations are
// not part of it: they happen inside CreateRepository, which owns the
// init/commit/push sequence for the workspace.
type HostClient interface {
	// CheckGHInstalled reports whether the gh binary can be executed.
	CheckGHInstalled(ctx context.Context) bool

	// CheckScopes reports the login state and which of required the
	// active token lacks. It never fails; problems show up in the result.
	CheckScopes(ctx context.Context, required ...string) github.ScopeCheck

	// CreateRepository creates the repository from workspace. With
	// opts.SkipGitOperations set, the workspace is assumed to be committed
	// already and only the remote repository is created.
	CreateRepository(ctx context.Context, name, workspace string, opts github.CreateOptions) (github.CreateResult, error)

	// ViewRepository reads back a repository by "owner/name" reference.
	ViewRepository(ctx context.Context, ref string) (model.RepositoryRecord, error)

	// Login runs the interactive login flow.
	Login(ctx context.Context) error

	// Logout removes the stored login.
	Logout(ctx context.Context) error
}

// Prompter asks the user a yes/no question.
//
// Confirm returns true only for an explicit yes. An error means the answer
// could not be read; the orchestrator treats it the same as no.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// Environment reads and removes process environment variables.
//
// Unset must affect commands started afterwards, because gh reads its token
// variables from the environment it inherits.
type Environment interface {
	Lookup(key string) (string, bool)
	Unset(key string) error
}

// OSEnvironment is the real process environment.
type OSEnvironment struct{}

// Lookup calls os.LookupEnv.
func (OSEnvironment) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// Unset calls os.Unsetenv.
func (OSEnvironment) Unset(key string) error { return os.Unsetenv(key) }

// declinePrompter answers no to everything. It is the default so that a
// non-interactive run never blocks on input.
type declinePrompter struct{}

func (declinePrompter) Confirm(string) (bool, error) { return false, nil }

// TokenEnvVars are the token variables that make gh ignore the stored user
// login. CI systems and GitHub Apps set them, and their tokens usually may
// not create repositories for a user. They are checked in this order.
var TokenEnvVars = []string{"GITHUB_TOKEN", "GH_TOKEN"}
