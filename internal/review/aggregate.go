package review

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/spotreview/internal/defect"
	"github.com/dshills/spotreview/internal/spotbugs"
)

// Source is one raw report document.
type Source struct {
	Name string
	Data []byte
}

// Stats counts what happened to parsed bug instances.
type Stats struct {
	Parsed     int
	Unresolved int
	Filtered   int
}

// Result is the outcome of an aggregation.
type Result struct {
	Records []defect.Record
	Stats   Stats
}

// Aggregator parses reports, filters defects against the files under review
// and emits a comment per accepted defect.
type Aggregator struct {
	Sink   Sink
	Logger *zap.SugaredLogger
}

// Report processes sources in order and returns the accepted records in
// report order, then document order. changed holds repository-relative paths
// compared by exact string equality.
func (a *Aggregator) Report(ctx context.Context, sources []Source, changed map[string]bool, reviewRoot string, inline bool) ([]defect.Record, error) {
	res, err := a.Aggregate(ctx, sources, changed, reviewRoot, inline)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Aggregate is Report with per-run statistics.
func (a *Aggregator) Aggregate(ctx context.Context, sources []Source, changed map[string]bool, reviewRoot string, inline bool) (Result, error) {
	if reviewRoot == "" {
		return Result{}, errors.New("review root must not be empty")
	}
	log := a.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	sink := a.Sink
	if sink == nil {
		sink = Discard
	}

	res := Result{Records: []defect.Record{}}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		doc, err := spotbugs.Parse(src.Data)
		if err != nil {
			return Result{}, &ParseError{Source: src.Name, Index: -1, Err: err}
		}
		log.Debugw("parsed report",
			"report", src.Name,
			"sourceDirs", len(doc.SourceDirs),
			"bugs", len(doc.Bugs))

		for i, raw := range doc.Bugs {
			rec, err := defect.New(reviewRoot, doc.SourceDirs, raw)
			if err != nil {
				return Result{}, &ParseError{Source: src.Name, Index: i, Err: err}
			}
			res.Stats.Parsed++

			if !rec.Resolved() {
				res.Stats.Unresolved++
				log.Debugw("no source root matches defect path",
					"report", src.Name,
					"sourcePath", rec.SourcePath())
				continue
			}
			if !changed[rec.RelativePath()] {
				res.Stats.Filtered++
				log.Debugw("defect outside files under review",
					"report", src.Name,
					"path", rec.RelativePath(),
					"line", rec.Line())
				continue
			}

			if err := sink.Emit(ctx, CommentFor(rec, inline)); err != nil {
				return Result{}, fmt.Errorf("emitting comment for %s:%d: %w", rec.RelativePath(), rec.Line(), err)
			}
			res.Records = append(res.Records, rec)
		}
	}
	return res, nil
}
