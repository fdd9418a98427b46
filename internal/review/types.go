package review

import (
	"github.com/dshills/spotreview/internal/defect"
)

// RepoInfo contains repository metadata.
type RepoInfo struct {
	Root   string `json:"root"`
	Head   string `json:"head,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// InputInfo describes what was reviewed.
type InputInfo struct {
	GradleTask   string   `json:"gradleTask,omitempty"`
	BuildSkipped bool     `json:"buildSkipped"`
	ReportFiles  []string `json:"reportFiles"`
	ChangedFiles int      `json:"changedFiles"`
	InlineMode   bool     `json:"inlineMode"`
}

// SeverityCounts holds counts by severity.
type SeverityCounts struct {
	Warning int `json:"warning"`
	Failure int `json:"failure"`
}

// Summary provides an overview of accepted defects.
type Summary struct {
	Counts          SeverityCounts  `json:"counts"`
	HighestSeverity defect.Severity `json:"highestSeverity,omitempty"`
	Parsed          int             `json:"parsed"`
	Unresolved      int             `json:"unresolved"`
	Filtered        int             `json:"filtered"`
}

// Timing contains performance metrics.
type Timing struct {
	BuildMs int64 `json:"buildMs"`
	TotalMs int64 `json:"totalMs"`
}

// Report is the top-level output structure.
type Report struct {
	Tool    string          `json:"tool"`
	Version string          `json:"version"`
	RunID   string          `json:"runId"`
	Repo    RepoInfo        `json:"repo"`
	Inputs  InputInfo       `json:"inputs"`
	Summary Summary         `json:"summary"`
	Defects []defect.Record `json:"defects"`
	Timing  Timing          `json:"timing"`
}

// ComputeSummary counts accepted records by severity.
func ComputeSummary(records []defect.Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Severity() {
		case defect.Warning:
			s.Counts.Warning++
		case defect.Failure:
			s.Counts.Failure++
		}
		if defect.SeverityRank(r.Severity()) > defect.SeverityRank(s.HighestSeverity) {
			s.HighestSeverity = r.Severity()
		}
	}
	return s
}
