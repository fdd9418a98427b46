package gradle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dshills/spotreview/internal/review"
)

// Launcher is the wrapper script expected in the project directory.
const Launcher = "gradlew"

// Runner invokes ./gradlew in Dir. A zero Runner uses the working directory
// and discards task output.
type Runner struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes one Gradle task. A missing launcher is a
// *review.PreconditionError; a non-zero exit is returned with the tail of
// the task's stderr.
func (r Runner) Run(ctx context.Context, task string) error {
	dir := r.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}
	launcher := filepath.Join(dir, Launcher)
	if info, err := os.Stat(launcher); err != nil || info.IsDir() {
		return &review.PreconditionError{Reason: fmt.Sprintf("could not find `%s` inside %s", Launcher, dir)}
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, launcher, task)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if msg := lastLines(stderr.String(), 10); msg != "" {
			return fmt.Errorf("%s %s: %w: %s", Launcher, task, err, msg)
		}
		return fmt.Errorf("%s %s: %w", Launcher, task, err)
	}
	return nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
