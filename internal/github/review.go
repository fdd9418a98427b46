package github

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gh "github.com/google/go-github/v68/github"

	"github.com/dshills/spotreview/internal/defect"
	"github.com/dshills/spotreview/internal/review"
)

// ReviewSink collects comments for one pull request.
type ReviewSink struct {
	client *Client
	owner  string
	repo   string
	pr     int
	lines  DiffLines

	mu       sync.Mutex
	inline   []*gh.DraftReviewComment
	warnings []string
	failures []string
	counts   review.SeverityCounts
}

// NewReviewSink returns a sink posting to owner/repo#pr. Inline comments on
// lines outside lines go into the review body instead, since GitHub rejects
// the whole review when one comment misses the diff.
func NewReviewSink(c *Client, owner, repo string, pr int, lines DiffLines) *ReviewSink {
	return &ReviewSink{client: c, owner: owner, repo: repo, pr: pr, lines: lines}
}

// Emit buffers c. Nothing is sent until Flush.
func (s *ReviewSink) Emit(_ context.Context, c review.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Severity == defect.Failure {
		s.counts.Failure++
	} else {
		s.counts.Warning++
	}

	if c.Inline && s.lines.Commentable(c.Path, c.Line) {
		s.inline = append(s.inline, &gh.DraftReviewComment{
			Path: gh.Ptr(c.Path),
			Line: gh.Ptr(c.Line),
			Side: gh.Ptr("RIGHT"),
			Body: gh.Ptr(inlineBody(c)),
		})
		return nil
	}

	line := review.SummaryLine(c)
	switch c.Severity {
	case defect.Failure:
		s.failures = append(s.failures, line)
	default:
		s.warnings = append(s.warnings, line)
	}
	return nil
}

// Pending returns the number of buffered comments.
func (s *ReviewSink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts.Warning + s.counts.Failure
}

// Flush posts the buffered comments as one COMMENT review. It does nothing
// when no comment was emitted.
func (s *ReviewSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counts == (review.SeverityCounts{}) {
		return nil
	}
	req := &gh.PullRequestReviewRequest{
		Body:     gh.Ptr(s.body()),
		Event:    gh.Ptr("COMMENT"),
		Comments: s.inline,
	}
	if err := s.client.createReview(ctx, s.owner, s.repo, s.pr, req); err != nil {
		return err
	}
	s.inline = nil
	s.warnings = nil
	s.failures = nil
	s.counts = review.SeverityCounts{}
	return nil
}

func (s *ReviewSink) body() string {
	var sb strings.Builder
	sb.WriteString("## SpotBugs\n\n")
	sb.WriteString("| Severity | Count |\n|----------|-------|\n")
	fmt.Fprintf(&sb, "| Failure | %d |\n", s.counts.Failure)
	fmt.Fprintf(&sb, "| Warning | %d |\n", s.counts.Warning)
	writeSection(&sb, "Failures", s.failures)
	writeSection(&sb, "Warnings", s.warnings)
	return sb.String()
}

func writeSection(sb *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n### %s\n\n", title)
	for _, l := range lines {
		fmt.Fprintf(sb, "- %s\n", l)
	}
}

func inlineBody(c review.Comment) string {
	if c.Severity == defect.Failure {
		return ":no_entry_sign: " + c.Message
	}
	return ":warning: " + c.Message
}
