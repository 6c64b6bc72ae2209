package catalog

import (
	"strings"

	domain "github.com/cswatch/catalog/internal/app/domain/catalog"
)

// FilterAll is the sentinel value that disables the rarity filter.
const FilterAll = "all"

// Params is the query configuration shared by every protocol adapter. All
// filters compose with logical AND; zero values leave a filter disabled.
type Params struct {
	// Name matches case-insensitively as a substring of the item name or
	// description.
	Name string
	// Rarity matches rarity.name exactly, case-insensitively. Empty or
	// FilterAll disables the filter.
	Rarity string
	// Team matches case-insensitively as a substring of team.name. Empty
	// disables the filter; FilterAll is a rarity-only sentinel.
	Team string
	// Category matches exactly.
	Category string
	// MinPrice and MaxPrice are inclusive bounds. Items without a price are
	// excluded once either bound is set.
	MinPrice *float64
	MaxPrice *float64
	// Offset skips that many matches; Limit then truncates when positive.
	Offset int
	Limit  int
}

// Matches reports whether item passes every active filter.
func (p Params) Matches(item domain.Item) bool {
	if p.Name != "" {
		needle := strings.ToLower(p.Name)
		name := strings.ToLower(item.Name)
		desc := strings.ToLower(item.Description)
		if !strings.Contains(name, needle) && !strings.Contains(desc, needle) {
			return false
		}
	}
	if p.Rarity != "" && !strings.EqualFold(p.Rarity, FilterAll) {
		if item.Rarity == nil || !strings.EqualFold(item.Rarity.Name, p.Rarity) {
			return false
		}
	}
	if p.Team != "" {
		if item.Team == nil || !strings.Contains(strings.ToLower(item.Team.Name), strings.ToLower(p.Team)) {
			return false
		}
	}
	if p.Category != "" && item.Category != p.Category {
		return false
	}
	if p.MinPrice != nil || p.MaxPrice != nil {
		if item.Price == nil {
			return false
		}
		if p.MinPrice != nil && *item.Price < *p.MinPrice {
			return false
		}
		if p.MaxPrice != nil && *item.Price > *p.MaxPrice {
			return false
		}
	}
	return true
}

// Filter returns the items passing every active filter, preserving the
// input order. The engine never re-sorts.
func Filter(items []domain.Item, p Params) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if p.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// Paginate applies offset then limit to an already-filtered slice.
func Paginate(items []domain.Item, p Params) []domain.Item {
	if p.Offset > 0 {
		if p.Offset >= len(items) {
			return []domain.Item{}
		}
		items = items[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}
