package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/shinji-kodama/template-repo/internal/model"
)

// Fallback commit identity, set on the workspace repository only when no
// global identity is configured. Fresh CI machines and containers often
// have no user.name or user.email, and "git commit" refuses to run
// without them. The noreply address keeps the commit from being linked to
// any real account.
const (
	FallbackUserName  = "Template Repo CLI"
	FallbackUserEmail = "template-repo@users.noreply.github.com"
)

// DefaultBranch is the branch the workspace commits to and pushes.
const DefaultBranch = "main"

// runGit runs git against dir via "git -C <dir>".
//
// The -C flag makes git change into dir itself, so the process's working
// directory is never touched.
//
// A command that does not exit zero is returned as a git-command error
// built from everything that was captured:
//
//	git commit failed (stdout: nothing to commit; stderr: fatal: ...; exit status 1)
//
// git reports some failures on stdout ("nothing to commit") and others on
// stderr, and its exit status is 1 for almost everything, so all three
// parts are kept. A command that could not start reports the start error
// in place of the exit status.
func (c *Client) runGit(ctx context.Context, dir string, args ...string) (Result, error) {
	argv := append([]string{"git", "-C", dir}, args...)
	res := c.ExecuteCommand(ctx, argv)
	if res.Success() {
		return res, nil
	}

	// Only the subcommand goes in the headline. Full arguments can be long
	// (commit messages, paths) and appear in the debug log anyway.
	message := fmt.Sprintf("git %s failed", args[0])
	var details []string
	if out := strings.TrimSpace(res.Stdout); out != "" {
		details = append(details, "stdout: "+out)
	}
	if errOut := strings.TrimSpace(res.Stderr); errOut != "" {
		details = append(details, "stderr: "+errOut)
	}
	if res.Err != nil {
		details = append(details, res.Err.Error())
	} else {
		details = append(details, fmt.Sprintf("exit status %d", res.ExitCode))
	}
	return res, model.NewCLIError(model.KindGitCommand, message+" ("+strings.Join(details, "; ")+")")
}

// InitGitRepo initializes a repository in workspace on DefaultBranch.
//
// Re-running it on an initialized workspace is harmless: "git init"
// reinitializes in place and the symbolic-ref is set again.
func (c *Client) InitGitRepo(ctx context.Context, workspace string) error {
	if _, err := c.runGit(ctx, workspace, "init"); err != nil {
		return err
	}
	// Pin the branch name regardless of the user's init.defaultBranch.
	_, err := c.runGit(ctx, workspace, "symbolic-ref", "HEAD", "refs/heads/"+DefaultBranch)
	return err
}

// CommitFiles stages everything in workspace and commits it.
//
// Steps:
//  1. Read the global user.name and user.email. git exits 1 for an
//     unset key; an empty value is treated the same way.
//  2. For each missing key, set FallbackUserName or FallbackUserEmail in
//     the workspace repository only. The user's global config is never
//     written.
//  3. "git add ." then "git commit -m message".
//
// An empty workspace makes the commit fail with "nothing to commit", which
// is returned as a git-command error.
func (c *Client) CommitFiles(ctx context.Context, workspace, message string) error {
	identity := []struct{ key, fallback string }{
		{"user.name", FallbackUserName},
		{"user.email", FallbackUserEmail},
	}

	var missing []int
	for i, id := range identity {
		res := c.ExecuteCommand(ctx, []string{"git", "-C", workspace, "config", "--global", id.key})
		// git exits 1 for an unset key; an empty value counts as unset too.
		if !res.Success() || strings.TrimSpace(res.Stdout) == "" {
			missing = append(missing, i)
		}
	}
	for _, i := range missing {
		id := identity[i]
		c.logger.Debug("global git identity not set, using fallback", "key", id.key, "value", id.fallback)
		if _, err := c.runGit(ctx, workspace, "config", id.key, id.fallback); err != nil {
			return err
		}
	}

	if _, err := c.runGit(ctx, workspace, "add", "."); err != nil {
		return err
	}
	_, err := c.runGit(ctx, workspace, "commit", "-m", message)
	return err
}

// PushToRemote adds remoteURL as origin and pushes DefaultBranch to it,
// setting it as the upstream. CreateRepository does not need it because
// "gh repo create --push" pushes the same branch; it is for repositories
// created without a local source.
func (c *Client) PushToRemote(ctx context.Context, workspace, remoteURL string) error {
	if _, err := c.runGit(ctx, workspace, "remote", "add", "origin", remoteURL); err != nil {
		return err
	}
	_, err := c.runGit(ctx, workspace, "push", "-u", "origin", DefaultBranch)
	return err
}
