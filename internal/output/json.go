package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/spotreview/internal/review"
)

// JSONWriter encodes the report as one JSON document. Compact drops the
// indentation for machine consumers.
type JSONWriter struct {
	Compact bool
}

func (j *JSONWriter) Write(w io.Writer, report *review.Report) error {
	enc := json.NewEncoder(w)
	// SpotBugs messages quote generics such as List<String>.
	enc.SetEscapeHTML(false)
	if !j.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}
