package gitctx

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// GetRepoMeta collects repository metadata from git.
func GetRepoMeta() (RepoMeta, error) {
	root, err := RepoRoot()
	if err != nil {
		return RepoMeta{}, err
	}
	head, err := gitOutput("rev-parse", "HEAD")
	if err != nil {
		head = "" // new repo with no commits
	}
	branch, err := gitOutput("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}
	return RepoMeta{
		Root:   root,
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}

// RepoRoot returns the absolute path of the top-level working tree.
func RepoRoot() (string, error) {
	root, err := gitOutput("rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(root), nil
}

// FileChanges groups changed paths the way review hosts report them.
type FileChanges struct {
	Modified []string
	Added    []string
	Deleted  []string
}

// Targets returns (modified - deleted) + added as a membership set.
func (c FileChanges) Targets() map[string]bool {
	deleted := make(map[string]bool, len(c.Deleted))
	for _, p := range c.Deleted {
		deleted[p] = true
	}
	set := make(map[string]bool, len(c.Modified)+len(c.Added))
	for _, p := range c.Modified {
		if !deleted[p] {
			set[p] = true
		}
	}
	for _, p := range c.Added {
		set[p] = true
	}
	return set
}

// SortedTargets returns Targets as a sorted slice.
func (c FileChanges) SortedTargets() []string {
	set := c.Targets()
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ChangedFiles lists the files changed relative to base. With a base ref the
// merge-base range base...HEAD is used; without one the staged, unstaged and
// untracked files of the working tree are used.
func ChangedFiles(base string) (FileChanges, error) {
	if base != "" {
		out, err := gitOutput("diff", "--name-status", "-z", base+"...HEAD")
		if err != nil {
			return FileChanges{}, fmt.Errorf("git diff %s...HEAD: %w", base, err)
		}
		return parseNameStatus(out)
	}

	var all FileChanges
	for _, args := range [][]string{
		{"diff", "--name-status", "-z", "--cached"},
		{"diff", "--name-status", "-z"},
	} {
		out, err := gitOutput(args...)
		if err != nil {
			return FileChanges{}, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		fc, err := parseNameStatus(out)
		if err != nil {
			return FileChanges{}, err
		}
		all = merge(all, fc)
	}

	out, err := gitOutput("ls-files", "--others", "--exclude-standard", "--full-name", "-z")
	if err != nil {
		return FileChanges{}, fmt.Errorf("git ls-files: %w", err)
	}
	for _, p := range strings.Split(out, "\x00") {
		if p != "" {
			all.Added = append(all.Added, p)
		}
	}
	return all, nil
}

func merge(a, b FileChanges) FileChanges {
	a.Modified = append(a.Modified, b.Modified...)
	a.Added = append(a.Added, b.Added...)
	a.Deleted = append(a.Deleted, b.Deleted...)
	return a
}

// parseNameStatus reads NUL-separated `git diff --name-status -z` output.
// Renames and copies carry two paths: the source and the destination.
func parseNameStatus(out string) (FileChanges, error) {
	var fc FileChanges
	fields := strings.Split(out, "\x00")
	for i := 0; i < len(fields); i++ {
		status := fields[i]
		if status == "" {
			continue
		}
		if i+1 >= len(fields) || fields[i+1] == "" {
			return FileChanges{}, fmt.Errorf("malformed name-status output near %q", status)
		}
		path := fields[i+1]
		i++

		switch status[0] {
		case 'A':
			fc.Added = append(fc.Added, path)
		case 'D':
			fc.Deleted = append(fc.Deleted, path)
		case 'M', 'T':
			fc.Modified = append(fc.Modified, path)
		case 'R', 'C':
			if i+1 >= len(fields) || fields[i+1] == "" {
				return FileChanges{}, fmt.Errorf("missing destination for %s %q", status, path)
			}
			dest := fields[i+1]
			i++
			if status[0] == 'R' {
				fc.Deleted = append(fc.Deleted, path)
			}
			fc.Added = append(fc.Added, dest)
		default:
			// U (unmerged) and X (unknown) are still under review.
			fc.Modified = append(fc.Modified, path)
		}
	}
	return fc, nil
}

func gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
