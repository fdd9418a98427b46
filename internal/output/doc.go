// Package output formats review reports for display or machine consumption.
//
// Four formats are supported:
//   - text: human-readable terminal output (default)
//   - json: full structured JSON report
//   - markdown: failure and warning tables for pasting into a PR comment
//   - sarif: SARIF v2.1.0 for upload to code scanning
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*review.Report]. [WriteReport]
// handles destination selection. [ConsoleSink] prints comments to a terminal
// as they are emitted.
package output
