// Package github drives the GitHub CLI (gh) and git as external services
// to publish a packaged workspace as a remote repository.
//
// Every subprocess goes through a Runner, so tests substitute a scripted
// fake and never spawn processes. Command outcomes are carried by Result:
// a non-zero exit is data, not a Go error. Only commands that could not be
// started at all (binary missing, OS failure) set Result.Err.
//
// The repository-creation sequence is:
//
//  1. git init, stage and commit the workspace (skipped on retry)
//  2. gh repo create <owner/name> --source <workspace> --push
//  3. gh repo edit <owner/name> --template (when a template is requested)
//
// A failure in step 3 is reported as an overall failure even though the
// repository exists; nothing is rolled back.
//
// Design decisions:
//   - We shell out to gh and git instead of calling the GitHub REST API.
//     gh owns the user's login, token storage and scope handling, and
//     "gh repo create --source --push" creates and pushes in one step.
//   - Checks (CheckGHInstalled, CheckAuthentication, CheckScopes) return
//     values, not errors. A missing binary is simply "not installed".
//   - Mutating operations return *model.CLIError with the command's
//     stderr (or stdout) in the message, because gh and git print their
//     real diagnosis there and exit with a generic status.
//   - ClassifyFailure turns that text into a FailureKind so callers can
//     attach remediation hints without matching strings themselves.
package github
