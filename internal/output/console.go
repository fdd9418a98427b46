package output

import (
	"context"
	"fmt"
	"io"

	"github.com/dshills/spotreview/internal/defect"
	"github.com/dshills/spotreview/internal/review"
)

// ConsoleSink prints each comment on one line as it is emitted.
type ConsoleSink struct {
	W io.Writer
}

func (s *ConsoleSink) Emit(_ context.Context, c review.Comment) error {
	label := warningStyle.Render("warning")
	if c.Severity == defect.Failure {
		label = failureStyle.Render("failure")
	}
	var err error
	if c.Inline {
		_, err = fmt.Fprintf(s.W, "%s %s:%d: %s\n", label, c.Path, c.Line, c.Message)
	} else {
		_, err = fmt.Fprintf(s.W, "%s %s\n", label, c.Text())
	}
	return err
}
