package annotate

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/spotreview/internal/defect"
	"github.com/dshills/spotreview/internal/review"
)

// Level is the workflow command for a severity.
type Level string

const (
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// LevelFor maps a severity onto a workflow command.
func LevelFor(s defect.Severity) Level {
	if s == defect.Failure {
		return LevelError
	}
	return LevelWarning
}

// Sink writes one workflow command per comment to W, usually stdout.
type Sink struct {
	W     io.Writer
	Title string
}

// Emit writes c. Inline comments carry file and line properties; summary
// comments carry the summary line as the message and no location.
func (s *Sink) Emit(_ context.Context, c review.Comment) error {
	_, err := io.WriteString(s.W, Format(c, s.Title)+"\n")
	return err
}

// Format renders c as a single workflow command line.
func Format(c review.Comment, title string) string {
	var props []string
	if c.Inline && c.Path != "" {
		props = append(props, "file="+escapeProperty(c.Path))
		if c.Line > 0 {
			props = append(props, fmt.Sprintf("line=%d", c.Line))
		}
	}
	if title != "" {
		props = append(props, "title="+escapeProperty(title))
	}

	var sb strings.Builder
	sb.WriteString("::")
	sb.WriteString(string(LevelFor(c.Severity)))
	if len(props) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(props, ","))
	}
	sb.WriteString("::")
	sb.WriteString(escapeData(c.Text()))
	return sb.String()
}

var (
	dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

func escapeData(s string) string     { return dataEscaper.Replace(s) }
func escapeProperty(s string) string { return propEscaper.Replace(s) }
