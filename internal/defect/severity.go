package defect

// Severity classifies a defect for review reporting.
type Severity string

const (
	Warning Severity = "warning"
	Failure Severity = "failure"
)

// RankFailureThreshold is the highest SpotBugs rank reported as a failure.
// Lower ranks are more severe.
const RankFailureThreshold = 4

// SeverityForRank maps a SpotBugs rank onto the two-variant severity.
func SeverityForRank(rank int) Severity {
	if rank <= RankFailureThreshold {
		return Failure
	}
	return Warning
}

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case Failure:
		return 2
	case Warning:
		return 1
	default:
		return 0
	}
}

// MeetsThreshold returns true if severity is at or above the threshold.
// Threshold is one of "none", "warning" or "failure".
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	return SeverityRank(s) >= SeverityRank(Severity(threshold))
}
