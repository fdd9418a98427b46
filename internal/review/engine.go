package review

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/spotreview/internal/spotbugs"
)

const (
	toolName    = "spotreview"
	toolVersion = "0.1.0"
)

// Builder runs the task that produces the reports.
type Builder interface {
	Run(ctx context.Context, task string) error
}

// Options configures a review run. ReviewRoot and ChangedFiles are resolved
// by the caller; Run never consults the environment for them.
type Options struct {
	Task      string
	SkipBuild bool
	Builder   Builder

	ReportPatterns []string
	// Discover expands ReportPatterns; defaults to spotbugs.Discover.
	Discover func(patterns []string) ([]string, error)
	// ReadFile defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)

	ReviewRoot   string
	ChangedFiles map[string]bool
	Inline       bool
	Repo         RepoInfo

	Sink   Sink
	Logger *zap.SugaredLogger
}

// Run builds (unless skipped), discovers and aggregates the reports.
func Run(ctx context.Context, opts Options) (*Report, error) {
	startTime := time.Now()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	if !opts.SkipBuild {
		if opts.Builder == nil {
			return nil, &PreconditionError{Reason: "no build runner configured"}
		}
		log.Infow("running build task", "task", opts.Task)
		if err := opts.Builder.Run(ctx, opts.Task); err != nil {
			return nil, fmt.Errorf("running build task %s: %w", opts.Task, err)
		}
	}
	buildMs := time.Since(startTime).Milliseconds()

	discover := opts.Discover
	if discover == nil {
		discover = spotbugs.Discover
	}
	files, err := discover(opts.ReportPatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &PreconditionError{
			Reason: fmt.Sprintf("could not find matching SpotBugs report files for %v inside current directory", opts.ReportPatterns),
		}
	}
	log.Debugw("discovered reports", "files", files)

	readFile := opts.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	sources := make([]Source, 0, len(files))
	for _, f := range files {
		data, err := readFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading report %s: %w", f, err)
		}
		sources = append(sources, Source{Name: f, Data: data})
	}

	agg := &Aggregator{Sink: opts.Sink, Logger: log}
	res, err := agg.Aggregate(ctx, sources, opts.ChangedFiles, opts.ReviewRoot, opts.Inline)
	if err != nil {
		return nil, err
	}

	summary := ComputeSummary(res.Records)
	summary.Parsed = res.Stats.Parsed
	summary.Unresolved = res.Stats.Unresolved
	summary.Filtered = res.Stats.Filtered

	repo := opts.Repo
	if repo.Root == "" {
		repo.Root = opts.ReviewRoot
	}

	return &Report{
		Tool:    toolName,
		Version: toolVersion,
		RunID:   uuid.NewString(),
		Repo:    repo,
		Inputs: InputInfo{
			GradleTask:   opts.Task,
			BuildSkipped: opts.SkipBuild,
			ReportFiles:  files,
			ChangedFiles: len(opts.ChangedFiles),
			InlineMode:   opts.Inline,
		},
		Summary: summary,
		Defects: res.Records,
		Timing: Timing{
			BuildMs: buildMs,
			TotalMs: time.Since(startTime).Milliseconds(),
		},
	}, nil
}
