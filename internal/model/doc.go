// Package model defines the domain types and value objects for the
// template-repo CLI.
//
// It holds the exercise taxonomy (Construct, ExerciseType), the per-exercise
// FileSet produced by the collector, the RepositoryRecord read back from the
// hosting service, and the pure validation and sanitizing rules applied to
// user input before anything touches the filesystem.
//
// The package also defines exit codes (ExitCode) and the CLIError type whose
// Kind classifies a failure as an invalid argument, a missing resource or a
// failed external command.
package model
