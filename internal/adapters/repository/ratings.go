package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/okian/elorank/internal/domain/model"
	"github.com/okian/elorank/pkg/logger"
)

var ratingsHeader = []string{"name", "rating", "n_comparisons"}

// TableStore persists the rating table as CSV, highest rating first.
type TableStore struct {
	fileBase
}

// NewTableStore creates a table store backed by path.
func NewTableStore(path string, opts ...Option) *TableStore {
	return &TableStore{fileBase: newFileBase(path, "ratings", opts)}
}

// Init creates an empty ratings file when none exists.
func (s *TableStore) Init(ctx context.Context) error {
	ok, err := exists(s.path)
	if err != nil || ok {
		return err
	}
	empty, err := model.NewTable(nil)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "creating ratings file", logger.String("path", s.path))
	return s.Save(ctx, empty)
}

// Load reads the table. A missing file yields an empty table.
func (s *TableStore) Load(ctx context.Context) (*model.Table, error) {
	const op = "repository.ratings.load"
	t, err := model.NewTable(nil)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(ratingsHeader)
	row := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrCorruptRecord, err)
		}
		row++
		if row == 1 && rec[0] == ratingsHeader[0] {
			continue
		}
		it, err := parseItem(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", op, row, err)
		}
		if err := t.Put(it); err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", op, row, err)
		}
	}
	s.logger.Debug(ctx, "ratings loaded", logger.Int("items", t.Len()))
	return t, nil
}

// Save overwrites the file with the whole table.
func (s *TableStore) Save(ctx context.Context, t *model.Table) error {
	const op = "repository.ratings.save"
	err := writeAtomic(s.path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(ratingsHeader); err != nil {
			return err
		}
		for _, it := range t.Ranked() {
			rec := []string{
				it.Name,
				strconv.FormatFloat(it.Rating, 'g', -1, 64),
				strconv.Itoa(it.Comparisons),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Debug(ctx, "ratings saved", logger.Int("items", t.Len()))
	return nil
}

// parseItem accepts integral comparison counts written as floats ("3.0"),
// which older rating files contain.
func parseItem(rec []string) (model.Item, error) {
	rating, err := strconv.ParseFloat(rec[1], 64)
	if err != nil {
		return model.Item{}, fmt.Errorf("%w: rating %q", ErrCorruptRecord, rec[1])
	}
	n, err := strconv.ParseFloat(rec[2], 64)
	if err != nil || n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
		return model.Item{}, fmt.Errorf("%w: n_comparisons %q", ErrCorruptRecord, rec[2])
	}
	return model.Item{Name: rec[0], Rating: rating, Comparisons: int(n)}, nil
}
