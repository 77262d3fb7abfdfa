package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"ember-boutique/internal/domain"
)

var (
	ErrEmptyCatalog    = errors.New("catalog contains no products")
	ErrUnknownCategory = errors.New("unknown category")
)

// Catalog is the fixed, read-only product list plus the enumerated category
// labels. It is loaded once at startup and never mutated; every derived view
// (filtered list, page slice, recommendation matches) is a projection.
type Catalog struct {
	products   []domain.Product
	categories []string
}

// catalogFile is the on-disk shape of the catalog reference data.
type catalogFile struct {
	Categories []string         `json:"categories"`
	Products   []domain.Product `json:"products"`
}

// Load reads and validates the catalog reference data from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Catalog from raw JSON, enforcing the invariants the rest of
// the system relies on: unique IDs, unique names (the recommendation join
// key), every product category drawn from the enumerated set, and the "All"
// sentinel present but never used as a product category.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if len(file.Products) == 0 {
		return nil, ErrEmptyCatalog
	}

	categories := file.Categories
	if len(categories) == 0 || categories[0] != domain.CategoryAll {
		// The sentinel always leads the enumerated set.
		categories = append([]string{domain.CategoryAll}, categories...)
	}

	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		if known[c] {
			return nil, fmt.Errorf("duplicate category label %q", c)
		}
		known[c] = true
	}

	seenIDs := make(map[int]bool, len(file.Products))
	seenNames := make(map[string]bool, len(file.Products))
	for _, p := range file.Products {
		if seenIDs[p.ID] {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		if seenNames[p.Name] {
			return nil, fmt.Errorf("duplicate product name %q", p.Name)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("product %d has an empty name", p.ID)
		}
		if p.ASIN == "" {
			return nil, fmt.Errorf("product %q has an empty asin", p.Name)
		}
		if p.Category == domain.CategoryAll {
			return nil, fmt.Errorf("product %q uses the %q sentinel as its category", p.Name, domain.CategoryAll)
		}
		if !known[p.Category] {
			return nil, fmt.Errorf("product %q: %w %q", p.Name, ErrUnknownCategory, p.Category)
		}
		seenIDs[p.ID] = true
		seenNames[p.Name] = true
	}

	return &Catalog{products: file.Products, categories: categories}, nil
}

// New builds a Catalog directly from in-memory reference data, applying the
// same validation as Parse. Intended for tests and embedded fixtures.
func New(categories []string, products []domain.Product) (*Catalog, error) {
	raw, err := json.Marshal(catalogFile{Categories: categories, Products: products})
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Products returns the full catalog in its original order.
func (c *Catalog) Products() []domain.Product {
	return c.products
}

// Categories returns the enumerated category labels, sentinel first.
func (c *Catalog) Categories() []string {
	return c.categories
}

// HasCategory reports whether label is a valid selector value, the "All"
// sentinel included.
func (c *Catalog) HasCategory(label string) bool {
	for _, cat := range c.categories {
		if cat == label {
			return true
		}
	}
	return false
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}
