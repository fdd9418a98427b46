package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned when no API token is available.
var ErrNoToken = errors.New("GITHUB_TOKEN environment variable is not set")

// Client wraps the GitHub REST API.
type Client struct {
	gh *gh.Client
}

// NewClient creates an authenticated client. apiURL may be empty for
// github.com or a full API root such as https://ghe.example.com/api/v3.
func NewClient(ctx context.Context, token, apiURL string) (*Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := gh.NewClient(oauth2.NewClient(ctx, ts))

	if apiURL != "" {
		u, err := url.Parse(strings.TrimRight(apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing GitHub API URL %q: %w", apiURL, err)
		}
		client.BaseURL = u
	}
	return &Client{gh: client}, nil
}

// IsAuthError reports whether err means the token is missing or rejected.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNoToken) {
		return true
	}
	var er *gh.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode == http.StatusUnauthorized || er.Response.StatusCode == http.StatusForbidden
	}
	return false
}

// ChangedFiles returns the files a pull request touches, minus those it
// removes, with the diff lines of each. A renamed file is listed under its
// new name. Files without a patch (binary or too large) have no lines.
func (c *Client) ChangedFiles(ctx context.Context, owner, repo string, prNumber int) (PullFiles, error) {
	pf := PullFiles{Files: make(map[string]bool), Lines: make(DiffLines)}
	opts := &gh.ListOptions{PerPage: 100}
	for {
		page, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return PullFiles{}, fmt.Errorf("listing files of PR #%d in %s/%s: %w", prNumber, owner, repo, err)
		}
		for _, f := range page {
			if f.GetStatus() == "removed" {
				continue
			}
			pf.Files[f.GetFilename()] = true
			if patch := f.GetPatch(); patch != "" {
				pf.Lines[f.GetFilename()] = ParsePatch(patch)
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return pf, nil
}

func (c *Client) createReview(ctx context.Context, owner, repo string, prNumber int, req *gh.PullRequestReviewRequest) error {
	_, _, err := c.gh.PullRequests.CreateReview(ctx, owner, repo, prNumber, req)
	if err != nil {
		return fmt.Errorf("posting review to PR #%d in %s/%s: %w", prNumber, owner, repo, err)
	}
	return nil
}
