package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/spotreview/internal/defect"
	"github.com/dshills/spotreview/internal/review"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	counts := report.Summary.Counts
	total := counts.Failure + counts.Warning

	ew.println(headerStyle.Render("SpotBugs Review"))
	ew.printf("Repository: %s", report.Repo.Root)
	if report.Repo.Branch != "" {
		ew.printf(" (branch: %s)", report.Repo.Branch)
	}
	ew.println("")
	for _, f := range report.Inputs.ReportFiles {
		ew.printf("Report: %s\n", f)
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Defects: %d in files under review", total)
	if total > 0 {
		ew.printf(" (%d failures, %d warnings)", counts.Failure, counts.Warning)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if total == 0 {
		ew.println("\nNo defects in the files under review.")
	}

	for _, sev := range []defect.Severity{defect.Failure, defect.Warning} {
		var recs []defect.Record
		for _, r := range report.Defects {
			if r.Severity() == sev {
				recs = append(recs, r)
			}
		}
		if len(recs) == 0 {
			continue
		}

		ew.printf("\n%s\n", severityLabel(sev))
		ew.println(strings.Repeat("─", 40))
		for _, r := range recs {
			ew.printf("\n  %s:%d  %s\n", r.RelativePath(), r.Line(), r.Type())
			ew.printf("  Rank: %d | Category: %s\n", r.Rank(), r.Category())
			for _, line := range wrapText(r.Description(), 70) {
				ew.printf("    %s\n", line)
			}
		}
	}

	s := report.Summary
	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.println(dimStyle.Render(fmt.Sprintf("Parsed %d, unresolved %d, outside review %d. Completed in %dms (build: %dms)",
		s.Parsed, s.Unresolved, s.Filtered, report.Timing.TotalMs, report.Timing.BuildMs)))

	return ew.err
}

func severityLabel(s defect.Severity) string {
	if s == defect.Failure {
		return failureStyle.Render("[FAIL] FAILURES")
	}
	return warningStyle.Render("[WARN] WARNINGS")
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
