// Package catalog defines the item model shared by both collections and all
// protocol adapters.
package catalog

import (
	"fmt"
	"net/url"
	"time"
)

// Collection names a backing collection.
type Collection string

const (
	Skins  Collection = "skins"
	Agents Collection = "agents"
)

// Valid reports whether the collection is one of the known names.
func (c Collection) Valid() bool {
	return c == Skins || c == Agents
}

// Rarity is a display grade with its UI color.
type Rarity struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Team is the faction an agent belongs to.
type Team struct {
	Name string `json:"name"`
}

// Item is a catalog record. Skins and agents share the shape; fields that do
// not apply to a collection stay nil and are omitted from JSON.
type Item struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Image       string     `json:"image,omitempty"`
	Category    string     `json:"category,omitempty"`
	Type        string     `json:"type,omitempty"`
	Collection  string     `json:"collection,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Rarity      *Rarity    `json:"rarity,omitempty"`
	Team        *Team      `json:"team,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ImageURL parses the image reference, returning nil when it is empty or not
// an absolute URL.
func (i Item) ImageURL() *url.URL {
	if i.Image == "" {
		return nil
	}
	u, err := url.Parse(i.Image)
	if err != nil || u.Scheme == "" {
		return nil
	}
	return u
}

// ValidationError reports a rejected field on create or update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the invariants every stored item must satisfy.
func (i Item) Validate() error {
	if i.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if i.Price != nil && *i.Price < 0 {
		return &ValidationError{Field: "price", Reason: "cannot be negative"}
	}
	return nil
}

// Patch is a partial update. Nil fields leave the item untouched; the id is
// never patchable.
type Patch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	Type        *string  `json:"type"`
	Collection  *string  `json:"collection"`
	Price       *float64 `json:"price"`
	Rarity      *Rarity  `json:"rarity"`
	Team        *Team    `json:"team"`
}

// Apply merges the patch into a copy of the item.
func (p Patch) Apply(item Item) Item {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Image != nil {
		item.Image = *p.Image
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Type != nil {
		item.Type = *p.Type
	}
	if p.Collection != nil {
		item.Collection = *p.Collection
	}
	if p.Price != nil {
		price := *p.Price
		item.Price = &price
	}
	if p.Rarity != nil {
		rarity := *p.Rarity
		item.Rarity = &rarity
	}
	if p.Team != nil {
		team := *p.Team
		item.Team = &team
	}
	return item
}
