// Package cli wires together the Cobra command tree for the spotreview
// binary.
//
// It defines the root command and its subcommands (report, config, version),
// binds flags, reads configuration, resolves the review root and the files
// under review, invokes the review engine, and returns deterministic exit
// codes for CI gating.
package cli
