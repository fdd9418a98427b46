package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/spotreview/internal/review"
)

// Writer renders a finished review report.
type Writer interface {
	Write(w io.Writer, report *review.Report) error
}

// Formats lists the canonical format names, in help order.
var Formats = []string{"text", "json", "markdown", "sarif"}

var writers = map[string]func() Writer{
	"":         func() Writer { return &TextWriter{} },
	"text":     func() Writer { return &TextWriter{} },
	"json":     func() Writer { return &JSONWriter{} },
	"markdown": func() Writer { return &MarkdownWriter{} },
	"md":       func() Writer { return &MarkdownWriter{} },
	"sarif":    func() Writer { return &SARIFWriter{} },
}

// GetWriter returns the writer for format. An empty format means text.
func GetWriter(format string) (Writer, error) {
	newWriter, ok := writers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported output format %q (want one of %v)", format, Formats)
	}
	return newWriter(), nil
}

// WriteReport renders report into outPath. Missing parent directories are
// created, and the file is replaced only once rendering has succeeded.
func WriteReport(report *review.Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outPath)+".*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := writer.Write(tmp, report); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}
