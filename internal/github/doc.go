// Package github reads pull-request file lists and posts defects as a single
// pull-request review, using go-github with an OAuth2 token source.
//
// [ReviewSink] buffers comments as they are emitted and [ReviewSink.Flush]
// posts them in one review. Inline comments carry the file path and line;
// summary comments and inline comments without a line go into the review
// body, grouped by severity.
package github
