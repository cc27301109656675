package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Table maps item names to their records and remembers the order in which
// items were added. Iteration always follows that order so that random draws
// are reproducible under a fixed seed.
//
// A Table is not safe for concurrent use; a session or simulation owns it
// exclusively for the duration of a run.
type Table struct {
	order []string
	items map[string]*Item
}

// NewTable creates a table holding one default record per name.
func NewTable(names []string) (*Table, error) {
	t := &Table{items: make(map[string]*Item, len(names))}
	for _, name := range names {
		if err := t.add(NewItem(name)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(it Item) error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("empty name: %w", ErrInvalidItem)
	}
	if math.IsNaN(it.Rating) || math.IsInf(it.Rating, 0) {
		return fmt.Errorf("%q rating %v: %w", it.Name, it.Rating, ErrInvalidItem)
	}
	if it.Comparisons < 0 {
		return fmt.Errorf("%q comparisons %d: %w", it.Name, it.Comparisons, ErrInvalidItem)
	}
	if _, ok := t.items[it.Name]; ok {
		return fmt.Errorf("%q: %w", it.Name, ErrDuplicateItem)
	}
	t.order = append(t.order, it.Name)
	cp := it
	t.items[it.Name] = &cp
	return nil
}

// Put inserts a new record. Persistence uses it to rebuild a table from
// stored rows; existing names are rejected with ErrDuplicateItem.
func (t *Table) Put(it Item) error {
	if t.items == nil {
		t.items = make(map[string]*Item)
	}
	return t.add(it)
}

// EnsureItems adds a default record for every name not yet present and
// returns the names that were added.
func (t *Table) EnsureItems(names []string) ([]string, error) {
	var added []string
	for _, name := range names {
		if t.Has(name) {
			continue
		}
		if err := t.Put(NewItem(name)); err != nil {
			return added, err
		}
		added = append(added, name)
	}
	return added, nil
}

// Len returns the number of items.
func (t *Table) Len() int { return len(t.order) }

// Has reports whether name is present.
func (t *Table) Has(name string) bool {
	_, ok := t.items[name]
	return ok
}

// Get returns a copy of the named record.
func (t *Table) Get(name string) (Item, error) {
	it, ok := t.items[name]
	if !ok {
		return Item{}, fmt.Errorf("%q: %w", name, ErrUnknownItem)
	}
	return *it, nil
}

// ref returns the live record; callers inside the package mutate through it.
func (t *Table) ref(name string) (*Item, error) {
	it, ok := t.items[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownItem)
	}
	return it, nil
}

// Apply replaces the rating of name and increments its comparison count by one.
func (t *Table) Apply(name string, rating float64) (Item, error) {
	it, err := t.ref(name)
	if err != nil {
		return Item{}, err
	}
	it.Rating = rating
	it.Comparisons++
	return *it, nil
}

// Names returns item names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Items returns copies of all records in insertion order.
func (t *Table) Items() []Item {
	out := make([]Item, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.items[name])
	}
	return out
}

// MinComparisons returns the smallest comparison count, or 0 for an empty table.
func (t *Table) MinComparisons() int {
	if len(t.order) == 0 {
		return 0
	}
	least := math.MaxInt
	for _, name := range t.order {
		if c := t.items[name].Comparisons; c < least {
			least = c
		}
	}
	return least
}

// TotalComparisons sums comparison counts; every round adds two.
func (t *Table) TotalComparisons() int {
	total := 0
	for _, it := range t.items {
		total += it.Comparisons
	}
	return total
}

// Clone returns a deep copy that shares nothing with t.
func (t *Table) Clone() *Table {
	c := &Table{
		order: make([]string, len(t.order)),
		items: make(map[string]*Item, len(t.items)),
	}
	copy(c.order, t.order)
	for name, it := range t.items {
		cp := *it
		c.items[name] = &cp
	}
	return c
}

// Ranked returns all records ordered by rating descending. Equal ratings keep
// insertion order.
func (t *Table) Ranked() []Item {
	out := t.Items()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return out
}

// RankedNames is Ranked reduced to names.
func (t *Table) RankedNames() []string {
	ranked := t.Ranked()
	out := make([]string, len(ranked))
	for i, it := range ranked {
		out[i] = it.Name
	}
	return out
}

// TopN returns at most n records from Ranked. n <= 0 returns everything.
func (t *Table) TopN(n int) []Item {
	ranked := t.Ranked()
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
