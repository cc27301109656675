// Package model contains domain models passed between layers.
package model

// DefaultRating is assigned to every item when it first enters a table.
const DefaultRating = 1000.0

// Item is a single rated entry in the table.
type Item struct {
	Name        string  // unique identifier
	Rating      float64 // current Elo rating
	Comparisons int     // completed comparisons involving this item
}

// NewItem returns an item with the default rating and no comparisons.
func NewItem(name string) Item {
	return Item{Name: name, Rating: DefaultRating}
}
