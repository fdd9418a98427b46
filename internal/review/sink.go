package review

import (
	"context"
	"fmt"

	"github.com/dshills/spotreview/internal/defect"
)

// Comment is one review comment emitted for an accepted defect.
type Comment struct {
	Severity defect.Severity
	Message  string
	Path     string
	Line     int
	Inline   bool
}

// CommentFor builds the comment for an accepted record.
func CommentFor(r defect.Record, inline bool) Comment {
	return Comment{
		Severity: r.Severity(),
		Message:  r.Description(),
		Path:     r.RelativePath(),
		Line:     r.Line(),
		Inline:   inline,
	}
}

// SummaryLine is the single-line form used when comments are not inline.
func SummaryLine(c Comment) string {
	return fmt.Sprintf("%s : %s at %d", c.Path, c.Message, c.Line)
}

// Text is the comment body: the description for inline comments, the
// summary line otherwise.
func (c Comment) Text() string {
	if c.Inline {
		return c.Message
	}
	return SummaryLine(c)
}

// Sink receives comments in emission order. An error aborts the review.
type Sink interface {
	Emit(ctx context.Context, c Comment) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, c Comment) error

func (f SinkFunc) Emit(ctx context.Context, c Comment) error { return f(ctx, c) }

// Discard is a Sink that drops every comment.
var Discard Sink = SinkFunc(func(context.Context, Comment) error { return nil })
