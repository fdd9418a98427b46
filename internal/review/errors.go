package review

import (
	"errors"
	"fmt"
)

// PreconditionError means the review could not start: the build launcher is
// missing or no report file matched.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

// IsPrecondition reports whether err is or wraps a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// ParseError means a report document could not be read as a SpotBugs report.
// Index is the bug instance position when the failure is in a single entry,
// -1 when the document itself is malformed.
type ParseError struct {
	Source string
	Index  int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("parsing %s: bug instance %d: %v", e.Source, e.Index, e.Err)
	}
	return fmt.Sprintf("parsing %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParse reports whether err is or wraps a ParseError.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
