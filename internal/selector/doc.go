// Package selector maps selection criteria onto a concrete list of exercise
// identifiers.
//
// Exercises are discovered from two places in the repository:
//
//	exercises/<construct>/<type>/<exercise-id>/   taxonomy placement
//	notebooks/<exercise-id>.ipynb                 flat notebook directory
//
// Construct and type selection scan the taxonomy; explicit-id and pattern
// selection scan the notebook directory. Every result is sorted and free of
// duplicates.
//
// Design decisions:
//   - Only the known constructs and types are scanned. A directory such as
//     exercises/misc/ is never visited, so stray folders cannot leak into a
//     package.
//   - A construct or type name is validated before any disk access. A
//     valid name whose directory is missing is an empty contribution, not
//     an error; a repository is allowed to have no exercises of a kind yet.
//   - Nothing is cached, so each call reflects the tree as it is on disk
//     at that moment.
//   - Results are never nil. An empty selection encodes as [] in JSON and
//     YAML output.
package selector
