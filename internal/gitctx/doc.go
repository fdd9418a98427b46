// Package gitctx reads repository metadata and the set of files under review
// from a git working tree.
//
// The file set follows the usual review-bot convention: every modified file
// that was not deleted, plus every added file. A rename counts as deleting the
// old path and adding the new one.
package gitctx
