// internal/domain/feature/catalog.go
package feature

import "fmt"

// Catalog is the single source of truth for selectable features.
// It is built once at startup and immutable afterwards; catalog
// changes are a deployment-time concern.
type Catalog struct {
	features []Feature
	index    map[string]int
}

// NewCatalog builds a catalog from an ordered feature list.
// Duplicate ids are a programming error and rejected outright.
func NewCatalog(features []Feature) (*Catalog, error) {
	index := make(map[string]int, len(features))
	for i, f := range features {
		if f.ID == "" {
			return nil, fmt.Errorf("feature at position %d has empty id", i)
		}
		if _, exists := index[f.ID]; exists {
			return nil, fmt.Errorf("duplicate feature id %q", f.ID)
		}
		index[f.ID] = i
	}

	out := make([]Feature, len(features))
	copy(out, features)

	return &Catalog{features: out, index: index}, nil
}

// MustNewCatalog is NewCatalog for compiled-in tables.
func MustNewCatalog(features []Feature) *Catalog {
	c, err := NewCatalog(features)
	if err != nil {
		panic(err)
	}
	return c
}

// List returns the full catalog in insertion order.
func (c *Catalog) List() []Feature {
	out := make([]Feature, len(c.features))
	copy(out, c.features)
	return out
}

// ByCategory groups the catalog by category, preserving insertion
// order within each group. A feature appears in exactly one category.
func (c *Catalog) ByCategory() map[Category][]Feature {
	grouped := make(map[Category][]Feature)
	for _, f := range c.features {
		grouped[f.Category] = append(grouped[f.Category], f)
	}
	return grouped
}

// Categories returns category keys in order of first appearance,
// so grouped listings render deterministically.
func (c *Catalog) Categories() []Category {
	seen := make(map[Category]bool)
	var out []Category
	for _, f := range c.features {
		if !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	}
	return out
}

// Contains reports whether id exists in the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Get returns the feature for id.
func (c *Catalog) Get(id string) (Feature, bool) {
	i, ok := c.index[id]
	if !ok {
		return Feature{}, false
	}
	return c.features[i], true
}

// EssentialIDs returns the ids of essential features in catalog order.
// Used as the default selection for new workspaces.
func (c *Catalog) EssentialIDs() []string {
	var out []string
	for _, f := range c.features {
		if f.Essential {
			out = append(out, f.ID)
		}
	}
	return out
}

// Len returns the number of features in the catalog.
func (c *Catalog) Len() int {
	return len(c.features)
}
