package pipeline

import "fmt"

// PermissionHint explains how to get a token that may create repositories.
// envKey names the token variable found in the environment, if any.
func PermissionHint(envKey string) string {
	hint := "The current GitHub authentication token cannot create repositories. " +
		"Run `gh auth login` with a user account/token that has the `repo` scope " +
		"or provide a personal access token via GH_TOKEN."

	switch envKey {
	case "GITHUB_TOKEN":
		hint += " It looks like GITHUB_TOKEN is set (e.g., from GitHub Apps or CI). " +
			"Unset GITHUB_TOKEN before running `gh auth login` so you can authenticate " +
			"as a user with repo permissions."
	case "GH_TOKEN":
		hint += " Ensure GH_TOKEN references a personal access token with the `repo` scope."
	}
	return hint
}

// AlreadyExistsHint explains a repository naming conflict.
func AlreadyExistsHint(repoName string) string {
	return fmt.Sprintf("A repository named '%s' already exists. "+
		"Either delete the existing repository or choose a different name.", repoName)
}

// AuthenticationHint is attached when gh rejects a command because its
// login expired or was revoked after the prerequisite check passed.
func AuthenticationHint() string {
	return "GitHub rejected the stored credentials. " +
		"Run `gh auth status` to inspect them and `gh auth login` to sign in again."
}

// RateLimitHint is attached when the GitHub API rate limit was hit. Nothing
// has to change locally; the command can be rerun once the limit resets.
func RateLimitHint() string {
	return "The GitHub API rate limit was exceeded. " +
		"Wait for the limit to reset (see `gh api rate_limit`) and run the command again."
}

// reauthQuestion is the consent prompt shown before a token variable is
// removed from the environment.
func reauthQuestion(envKey string) string {
	return fmt.Sprintf("Detected %s which can block user authentication. "+
		"Unset it and run `gh auth login` now?", envKey)
}
