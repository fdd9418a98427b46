// Package annotate writes defects as GitHub Actions workflow commands, which
// the runner turns into check annotations on the pull request.
package annotate
