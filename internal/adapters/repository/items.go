package repository

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/okian/elorank/pkg/logger"
)

// ItemList reads the authoritative list of item names, one per line.
type ItemList struct {
	fileBase
}

// NewItemList creates an item list backed by path.
func NewItemList(path string, opts ...Option) *ItemList {
	return &ItemList{fileBase: newFileBase(path, "items", opts)}
}

// Load returns the item names in file order. Lines are trimmed, blank lines
// are skipped and repeated names keep their first position.
func (l *ItemList) Load(ctx context.Context) ([]string, error) {
	const op = "repository.items.load"
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = f.Close() }()

	var names []string
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			l.logger.Warn(ctx, "duplicate item ignored", logger.String("item", name), logger.Int("line", line))
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %s: %w", op, l.path, ErrNoItems)
	}
	l.logger.Debug(ctx, "item list loaded", logger.Int("items", len(names)))
	return names, nil
}
