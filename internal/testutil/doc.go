// Package testutil builds on-disk exercise repositories for tests.
//
// The fixture mirrors the real repository layout: a construct/type taxonomy
// under exercises/, flat notebooks/ and tests/ directories, the grading
// harness, and a template_repo_files/ scaffold. Tests mutate the fixture
// through Write and Remove to set up the edge case they need.
package testutil
