package repository

import "github.com/okian/elorank/pkg/logger"

// Option applies a configuration option to a file-backed store.
type Option func(*fileBase)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(b *fileBase) {
		if l != nil {
			b.logger = l
		}
	}
}

// fileBase carries what every file-backed store shares.
type fileBase struct {
	path   string
	logger logger.Logger
}

func newFileBase(path, name string, opts []Option) fileBase {
	b := fileBase{path: path}
	for _, opt := range opts {
		opt(&b)
	}
	if b.logger == nil {
		b.logger = logger.Named(name)
	}
	return b
}

// Path returns the backing file path.
func (b *fileBase) Path() string { return b.path }
