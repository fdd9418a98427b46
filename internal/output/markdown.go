package output

import (
	"io"
	"strings"

	"github.com/dshills/spotreview/internal/defect"
	"github.com/dshills/spotreview/internal/review"
)

// MarkdownWriter outputs failure and warning tables for a PR comment.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	counts := report.Summary.Counts

	ew.printf("## SpotBugs\n\n")
	ew.printf("| Severity | Count |\n")
	ew.printf("|----------|-------|\n")
	ew.printf("| Failure  | %d    |\n", counts.Failure)
	ew.printf("| Warning  | %d    |\n\n", counts.Warning)

	if counts.Failure+counts.Warning == 0 {
		ew.println("No defects in the files under review. :white_check_mark:")
		return ew.err
	}

	writeTable(ew, report.Defects, defect.Failure, ":no_entry_sign:", "Failures")
	writeTable(ew, report.Defects, defect.Warning, ":warning:", "Warnings")

	ew.printf("*Parsed %d defects from %d report(s) in %dms*\n",
		report.Summary.Parsed, len(report.Inputs.ReportFiles), report.Timing.TotalMs)
	return ew.err
}

func writeTable(ew *errWriter, records []defect.Record, sev defect.Severity, icon, title string) {
	var rows []defect.Record
	for _, r := range records {
		if r.Severity() == sev {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return
	}
	ew.printf("|   | %d %s |\n", len(rows), title)
	ew.printf("|---|---|\n")
	for _, r := range rows {
		ew.printf("| %s | `%s:%d` %s |\n", icon, escapeCell(r.RelativePath()), r.Line(), escapeCell(r.Description()))
	}
	ew.println("")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

