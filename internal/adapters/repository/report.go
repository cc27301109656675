package repository

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/elorank/internal/domain/model"
)

const defaultReportSize = 10

// Report writes the top of the ranking as numbered lines:
//
//	1. Chess (12)
//
// where the number in brackets is the item's comparison count.
type Report struct {
	fileBase
	size int
}

// NewReport creates a report writer for the top size items.
func NewReport(path string, size int, opts ...Option) *Report {
	if size < 1 {
		size = defaultReportSize
	}
	return &Report{fileBase: newFileBase(path, "report", opts), size: size}
}

// Size returns how many items the report lists.
func (r *Report) Size() int { return r.size }

// Write renders the report for t and replaces the report file.
func (r *Report) Write(_ context.Context, t *model.Table) error {
	const op = "repository.report.write"
	if err := writeAtomic(r.path, func(w io.Writer) error {
		return Render(w, t, r.size)
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Render writes the top n lines of t to w.
func Render(w io.Writer, t *model.Table, n int) error {
	for i, it := range t.TopN(n) {
		if _, err := fmt.Fprintf(w, "%d. %s (%d)\n", i+1, it.Name, it.Comparisons); err != nil {
			return err
		}
	}
	return nil
}
