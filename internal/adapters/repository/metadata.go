package repository

import (
	"context"
	"fmt"
	"io"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/elorank/pkg/logger"
)

const keyComparisons = "n_comparisons"

// Metadata is the cross-session state kept apart from the rating table.
type Metadata struct {
	Comparisons int `koanf:"n_comparisons"`
}

// MetadataStore keeps Metadata in a small YAML document.
type MetadataStore struct {
	fileBase
}

// NewMetadataStore creates a metadata store backed by path.
func NewMetadataStore(path string, opts ...Option) *MetadataStore {
	return &MetadataStore{fileBase: newFileBase(path, "metadata", opts)}
}

// Init creates the file with a zero counter when none exists.
func (s *MetadataStore) Init(ctx context.Context) error {
	ok, err := exists(s.path)
	if err != nil || ok {
		return err
	}
	s.logger.Info(ctx, "creating metadata file", logger.String("path", s.path))
	return s.Save(ctx, Metadata{})
}

// Load reads the metadata. A missing file yields the zero value.
func (s *MetadataStore) Load(_ context.Context) (Metadata, error) {
	const op = "repository.metadata.load"
	ok, err := exists(s.path)
	if err != nil {
		return Metadata{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return Metadata{}, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(s.path), yaml.Parser()); err != nil {
		return Metadata{}, fmt.Errorf("%s: %w: %w", op, ErrCorruptRecord, err)
	}
	var m Metadata
	if err := k.UnmarshalWithConf("", &m, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Metadata{}, fmt.Errorf("%s: %w: %w", op, ErrCorruptRecord, err)
	}
	if m.Comparisons < 0 {
		return Metadata{}, fmt.Errorf("%s: %w: negative %s", op, ErrCorruptRecord, keyComparisons)
	}
	return m, nil
}

// Save overwrites the metadata file.
func (s *MetadataStore) Save(_ context.Context, m Metadata) error {
	const op = "repository.metadata.save"
	k := koanf.New(".")
	if err := k.Set(keyComparisons, m.Comparisons); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeAtomic(s.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Increment adds one completed comparison and returns the new total.
func (s *MetadataStore) Increment(ctx context.Context) (int, error) {
	m, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	m.Comparisons++
	if err := s.Save(ctx, m); err != nil {
		return 0, err
	}
	return m.Comparisons, nil
}
