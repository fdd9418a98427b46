package github

import (
	"regexp"
	"strconv"
	"strings"
)

var hunkHeaderRe = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// DiffLines holds, per file, the new-side lines a review comment may target.
// GitHub accepts RIGHT-side comments only on added or context lines of a hunk.
type DiffLines map[string]map[int]bool

// Commentable reports whether line of path appears in the pull request diff.
func (d DiffLines) Commentable(path string, line int) bool {
	return d[path][line]
}

// PullFiles is the file list of a pull request.
type PullFiles struct {
	// Files holds the paths under review: every file not removed.
	Files map[string]bool
	Lines DiffLines
}

// ParsePatch returns the new-side line numbers covered by the hunks of a
// unified diff patch as GitHub returns it per file.
func ParsePatch(patch string) map[int]bool {
	lines := make(map[int]bool)
	cur, inHunk := 0, false
	for _, l := range strings.Split(patch, "\n") {
		if m := hunkHeaderRe.FindStringSubmatch(l); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				inHunk = false
				continue
			}
			cur, inHunk = n, true
			continue
		}
		if !inHunk || l == "" {
			continue
		}
		switch l[0] {
		case '+', ' ':
			lines[cur] = true
			cur++
		case '-', '\\':
			// removed line or "\ No newline at end of file"
		default:
			inHunk = false
		}
	}
	return lines
}
