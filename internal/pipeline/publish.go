package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/shinji-kodama/template-repo/internal/github"
	"github.com/shinji-kodama/template-repo/internal/model"
)

// CheckPrerequisites verifies that the host CLI can create repositories
// for the current user.
//
// The checks run in a fixed order and stop at the first failure, so the
// user always sees the most basic problem first:
//  1. gh is installed (KindHostUnavailable otherwise).
//  2. gh has a logged-in account (KindNotAuthenticated).
//  3. The token holds every scope in github.DefaultScopes (KindMissingScopes).
//
// Each message names the command that fixes it. A single "gh auth status"
// call answers both steps 2 and 3.
func (o *Orchestrator) CheckPrerequisites(ctx context.Context) error {
	// Step 1: the binary itself. Without it nothing else can be checked.
	if !o.host.CheckGHInstalled(ctx) {
		return model.NewCLIError(model.KindHostUnavailable,
			"gh CLI not installed. Please install it from https://cli.github.com/")
	}

	// Steps 2 and 3 share one status query. An unauthenticated result
	// reports every scope as missing, so Authenticated is checked first.
	check := o.host.CheckScopes(ctx, github.DefaultScopes...)
	if !check.Authenticated {
		return model.NewCLIError(model.KindNotAuthenticated,
			"Not authenticated with GitHub. Run 'gh auth login' first.")
	}
	if !check.HasScopes {
		return model.NewCLIErrorf(model.KindMissingScopes,
			"Current GitHub authentication is missing required scopes: %s. "+
				"Run 'gh auth refresh -s repo' to add the required scopes.",
			strings.Join(check.MissingScopes, ", "))
	}
	return nil
}

// publish creates the repository from the validated workspace ws and
// records the outcome in res.
//
// The loop runs at most twice. The second pass happens only when all of
// these hold after the first attempt fails:
//   - the failure is GitHub's "Resource not accessible by integration"
//     error, which means the active token belongs to an app or CI
//     integration rather than a user
//   - a token variable (GITHUB_TOKEN or GH_TOKEN) is set, so gh is using it
//     instead of the stored user login
//   - a fresh scope check confirms the token lacks the repo scope
//   - the user agrees to unset the variable and log in again, and the
//     login succeeds
//
// The second attempt sets SkipGitOperations. The first attempt already
// initialized, committed and pushed the workspace, so only the repository
// creation itself is repeated.
//
// Any other failure, or a failed second attempt, ends the run. Failures
// that gh reports in a recognizable form get a remediation hint attached
// (see hints.go); the original error text is always kept.
func (o *Orchestrator) publish(ctx context.Context, req Request, ws string, res *Result) error {
	// envKey is the token variable in effect for the current attempt.
	// It is re-read after re-authentication, when the variable has been
	// removed from the environment.
	envKey := o.tokenEnv()
	reauthenticated := false

	for {
		// Prerequisites are checked before every attempt. After a re-login
		// the account, and with it the scopes, may have changed.
		if err := o.CheckPrerequisites(ctx); err != nil {
			return err
		}

		created, err := o.host.CreateRepository(ctx, req.RepoName, ws, github.CreateOptions{
			Private:      req.Private,
			Template:     req.Template,
			TemplateRepo: req.TemplateRepo,
			Org:          req.Org,
			Description:  req.Name,
			// A retry reuses the workspace the first attempt committed.
			SkipGitOperations: reauthenticated,
		})
		if err == nil {
			// Success. Reading the repository back is informational only.
			res.Repository = created.Repository
			res.Retried = reauthenticated
			fmt.Fprintf(o.out, "✓ Created repository: %s\n", created.Repository)
			o.describe(ctx, created.Repository, res)
			return nil
		}

		// Decide between retrying and failing with a hint. Classification
		// works on the error text because gh reports every API failure as
		// a non-zero exit with a message on stderr.
		kind := github.ClassifyFailure(err.Error())
		if !reauthenticated && kind == github.FailureIntegrationPermission && envKey != "" {
			// A token that already has the repo scope is blocked for another
			// reason, such as an organization policy. Logging in again would
			// not change that, so the retry is only offered when scopes are
			// really missing.
			check := o.host.CheckScopes(ctx, github.DefaultScopes...)
			if !check.HasScopes && o.reauthenticate(ctx, envKey) {
				reauthenticated = true
				envKey = o.tokenEnv()
				continue
			}
		}

		// Terminal failure. The permission hint is worded for the token
		// variable still present now, which differs from envKey when the
		// variable was removed but the login failed.
		switch kind {
		case github.FailureIntegrationPermission:
			err = model.WithHint(err, PermissionHint(o.tokenEnv()))
		case github.FailureAlreadyExists:
			err = model.WithHint(err, AlreadyExistsHint(req.RepoName))
		case github.FailureAuthentication:
			err = model.WithHint(err, AuthenticationHint())
		case github.FailureRateLimit:
			err = model.WithHint(err, RateLimitHint())
		}
		return err
	}
}

// reauthenticate offers to drop the token variable envKey and log in as a
// user. It reports whether a fresh login succeeded.
//
// Steps:
//  1. Ask for consent. A declined prompt, or one that cannot be read
//     (for example stdin is not a terminal), returns false.
//  2. Remove envKey from the process environment. gh gives a token
//     variable precedence over the stored login, so the login below would
//     otherwise have no effect.
//  3. Log out. This may fail when nothing is stored, which is fine.
//  4. Run the interactive "gh auth login".
//
// The environment change only affects this process and the commands it
// starts; the user's shell keeps the variable.
func (o *Orchestrator) reauthenticate(ctx context.Context, envKey string) bool {
	// Step 1: consent.
	ok, err := o.prompter.Confirm(reauthQuestion(envKey))
	if err != nil {
		o.logger.Debug("re-login prompt failed", "err", err)
		return false
	}
	if !ok {
		return false
	}

	// Step 2: drop the token variable.
	if err := o.env.Unset(envKey); err != nil {
		o.logger.Warn("failed to unset token variable", "var", envKey, "err", err)
		return false
	}
	// Step 3: best-effort logout.
	if err := o.host.Logout(ctx); err != nil {
		o.logger.Debug("gh auth logout failed", "err", err)
	}
	// Step 4: interactive login.
	if err := o.host.Login(ctx); err != nil {
		o.logger.Warn("gh auth login failed; please rerun manually.", "err", err)
		return false
	}
	return true
}

// describe reads the new repository back and prints its URL.
//
// The repository exists at this point, so a failed read (a transient API
// error, or a new repository that is not yet visible) only warns and
// leaves res.Record nil. It never turns a successful run into a failure.
func (o *Orchestrator) describe(ctx context.Context, ref string, res *Result) {
	record, err := o.host.ViewRepository(ctx, ref)
	if err != nil {
		o.logger.Warn("could not read repository details", "repo", ref, "err", err)
		return
	}
	res.Record = &record
	if record.URL != "" {
		fmt.Fprintf(o.out, "  %s\n", record.URL)
	}
}

// tokenEnv returns the first variable in TokenEnvVars that is set to a
// non-empty value, or "" when none is.
func (o *Orchestrator) tokenEnv() string {
	for _, key := range TokenEnvVars {
		if v, ok := o.env.Lookup(key); ok && v != "" {
			return key
		}
	}
	return ""
}
