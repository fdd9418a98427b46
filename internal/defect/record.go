package defect

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingRank is returned when a bug instance carries no rank attribute.
var ErrMissingRank = errors.New("bug instance has no rank attribute")

// SourceLine is one SourceLine child of a bug instance.
type SourceLine struct {
	SourcePath string
	Start      string // raw attribute text, "" when absent
}

// Raw is a bug instance as read from a report, before resolution.
type Raw struct {
	Rank         string // raw attribute text, "" when absent
	Type         string
	Category     string
	Priority     string
	ShortMessage string
	LongMessage  string
	SourceLines  []SourceLine
}

// Record is one resolved defect. The zero value is an unresolved record with
// no content; use New to build one.
type Record struct {
	rank         int
	severity     Severity
	sourcePath   string
	absolutePath string
	relativePath string
	resolved     bool
	line         int
	description  string

	bugType      string
	category     string
	priority     string
	shortMessage string
}

// New builds a Record from a raw bug instance. reviewRoot is the absolute
// path of the repository root; sourceRoots are the source directories the
// report declares, in document order.
func New(reviewRoot string, sourceRoots []string, raw Raw) (Record, error) {
	rank, err := parseRank(raw.Rank)
	if err != nil {
		return Record{}, err
	}
	line, err := parseLine(raw.SourceLines)
	if err != nil {
		return Record{}, err
	}

	var sourcePath string
	if len(raw.SourceLines) > 0 {
		sourcePath = toSlash(raw.SourceLines[0].SourcePath)
	}

	r := Record{
		rank:         rank,
		severity:     SeverityForRank(rank),
		sourcePath:   sourcePath,
		line:         line,
		description:  raw.LongMessage,
		bugType:      raw.Type,
		category:     raw.Category,
		priority:     raw.Priority,
		shortMessage: raw.ShortMessage,
	}

	if abs, ok := ResolveSourcePath(sourcePath, sourceRoots); ok {
		r.absolutePath = abs
		r.relativePath = Relativize(abs, reviewRoot)
		r.resolved = true
	}
	return r, nil
}

// ResolveSourcePath returns the first source root that ends with sourcePath.
// An empty sourcePath never resolves.
func ResolveSourcePath(sourcePath string, sourceRoots []string) (string, bool) {
	sourcePath = toSlash(sourcePath)
	if sourcePath == "" {
		return "", false
	}
	for _, root := range sourceRoots {
		root = toSlash(root)
		if strings.HasSuffix(root, sourcePath) {
			return root, true
		}
	}
	return "", false
}

// NormalizeRoot returns root with forward slashes and exactly one trailing
// separator. An empty root stays empty.
func NormalizeRoot(root string) string {
	root = toSlash(root)
	if root == "" {
		return ""
	}
	return strings.TrimRight(root, "/") + "/"
}

// Relativize strips the normalized review root from absolutePath when it is a
// character-exact prefix, and returns absolutePath unchanged otherwise.
func Relativize(absolutePath, reviewRoot string) string {
	prefix := NormalizeRoot(reviewRoot)
	if prefix != "" && strings.HasPrefix(absolutePath, prefix) {
		return absolutePath[len(prefix):]
	}
	return absolutePath
}

func parseRank(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingRank
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid rank %q: %w", s, err)
	}
	return n, nil
}

func parseLine(lines []SourceLine) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}
	s := strings.TrimSpace(lines[0].Start)
	if s == "" {
		// Class- and field-level source lines carry no start.
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid start line %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid start line %d: must not be negative", n)
	}
	return n, nil
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Rank is the SpotBugs rank; lower is more severe.
func (r Record) Rank() int { return r.rank }

// Severity is derived from Rank.
func (r Record) Severity() Severity { return r.severity }

// SourcePath is the path as reported by SpotBugs, slash-normalized.
func (r Record) SourcePath() string { return r.sourcePath }

// AbsolutePath is the matched source root, or "" when unresolved.
func (r Record) AbsolutePath() string { return r.absolutePath }

// RelativePath is the path relative to the review root, or "" when
// unresolved.
func (r Record) RelativePath() string { return r.relativePath }

// Resolved reports whether SourcePath matched one of the source roots.
func (r Record) Resolved() bool { return r.resolved }

// Line is the 1-based start line, or 0 when the report has none.
func (r Record) Line() int { return r.line }

// Description is the LongMessage text.
func (r Record) Description() string { return r.description }

// Type is the bug pattern, e.g. NP_NULL_ON_SOME_PATH.
func (r Record) Type() string { return r.bugType }

func (r Record) Category() string     { return r.category }
func (r Record) Priority() string     { return r.priority }
func (r Record) ShortMessage() string { return r.shortMessage }

type recordJSON struct {
	Rank         int      `json:"rank"`
	Severity     Severity `json:"severity"`
	Type         string   `json:"type,omitempty"`
	Category     string   `json:"category,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	SourcePath   string   `json:"sourcePath"`
	AbsolutePath string   `json:"absolutePath,omitempty"`
	RelativePath string   `json:"relativePath,omitempty"`
	Resolved     bool     `json:"resolved"`
	Line         int      `json:"line"`
	ShortMessage string   `json:"shortMessage,omitempty"`
	Description  string   `json:"description"`
}

// MarshalJSON encodes the record's resolved fields.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Rank:         r.rank,
		Severity:     r.severity,
		Type:         r.bugType,
		Category:     r.category,
		Priority:     r.priority,
		SourcePath:   r.sourcePath,
		AbsolutePath: r.absolutePath,
		RelativePath: r.relativePath,
		Resolved:     r.resolved,
		Line:         r.line,
		ShortMessage: r.shortMessage,
		Description:  r.description,
	})
}
