// Package defect models a single SpotBugs defect resolved against a review
// root.
//
// A [Record] is built once from a raw BugInstance entry and the source roots
// its report declares. Construction resolves the tool-reported source path to
// an absolute path by suffix match against the source roots, then strips the
// review root to obtain the repository-relative path a code-review host uses
// to address the file. Records are immutable after [New] returns.
package defect
