// Package pipeline sequences a packaging run: select exercises, collect
// their files, assemble and validate a workspace, then publish it to
// GitHub or print what would be published.
//
// A run has two halves. The local half (selection, collection,
// population, validation) only reads the exercise repository and writes
// into a fresh temporary workspace. The remote half (prerequisite checks,
// repository creation, read-back) runs only when the local half succeeded
// and dry-run mode is off. A failure in the local half therefore never
// leaves anything behind on GitHub.
//
// Design decisions:
//   - The workspace is removed exactly once on every exit path, including
//     a panic. The panic is recovered at the Create boundary and reported
//     as an "unexpected error"; its stack trace is logged at debug level.
//   - The orchestrator talks to GitHub through the HostClient interface,
//     to the terminal through Prompter, and to the process environment
//     through Environment. Tests replace all three.
//   - Prerequisites are checked before any remote mutation, and again
//     before a retry.
//   - When creation fails because an app token in GITHUB_TOKEN or GH_TOKEN
//     may not create repositories, the user is offered a re-login through
//     the Prompter. On consent the token variable is unset, gh is logged
//     out and in again, and creation is retried once, reusing the
//     committed workspace. There is never a third attempt.
//   - Progress lines ("✓ Created repository", "[DRY RUN] ...") go to the
//     configured output writer. Diagnostics go to the logger. The two are
//     never mixed.
package pipeline
