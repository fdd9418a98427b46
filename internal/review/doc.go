// Package review turns SpotBugs reports into review comments.
//
// The [Aggregator] parses report documents in caller order, resolves each bug
// instance into a [defect.Record], keeps the records whose relative path is in
// the changed-file set and emits one [Comment] per kept record to a [Sink],
// strictly sequentially so comments appear in a reproducible order.
//
// [Run] is the top-level operation: it runs the build task (unless skipped),
// discovers report files, fails with a [PreconditionError] when none match,
// and aggregates them into a [Report].
package review
