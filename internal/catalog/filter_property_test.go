package catalog

import (
	"fmt"
	"strings"
	"testing"

	"ember-boutique/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var fixtureCategories = []string{"Massage & Oils", "Candles & Ambiance", "Games & Play", "Bath & Body"}

// buildCatalog creates an ordered fixture catalog with unique names spread
// across the fixture categories.
func buildCatalog(size int) []domain.Product {
	products := make([]domain.Product, size)
	for i := range products {
		products[i] = domain.Product{
			ID:          i + 1,
			Name:        fmt.Sprintf("Product %03d", i+1),
			Description: fmt.Sprintf("Description for product %03d", i+1),
			ASIN:        fmt.Sprintf("B%09d", i+1),
			Category:    fixtureCategories[i%len(fixtureCategories)],
		}
	}
	return products
}

// Feature: catalog-browser, Property 1: Filter returns an order-preserving subsequence
func TestProperty_FilterIsOrderPreservingSubsequence(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every result satisfies the constraints and keeps catalog order", prop.ForAll(
		func(size int, categoryIdx int, query string) bool {
			products := buildCatalog(size)

			category := domain.CategoryAll
			if categoryIdx >= 0 {
				category = fixtureCategories[categoryIdx%len(fixtureCategories)]
			}

			filtered := Filter(products, category, query)

			// Every returned product satisfies both constraints.
			for _, p := range filtered {
				if category != domain.CategoryAll && p.Category != category {
					t.Logf("FAIL: product %q violates category constraint %q", p.Name, category)
					return false
				}
				if query != "" {
					q := strings.ToLower(query)
					if !strings.Contains(strings.ToLower(p.Name), q) &&
						!strings.Contains(strings.ToLower(p.Description), q) {
						t.Logf("FAIL: product %q does not contain query %q", p.Name, query)
						return false
					}
				}
			}

			// Result is a subsequence: IDs strictly increase because the
			// fixture catalog is ordered by ID.
			for i := 1; i < len(filtered); i++ {
				if filtered[i].ID <= filtered[i-1].ID {
					t.Logf("FAIL: order not preserved at index %d", i)
					return false
				}
			}

			// Every excluded product violates at least one constraint.
			inResult := make(map[int]bool, len(filtered))
			for _, p := range filtered {
				inResult[p.ID] = true
			}
			for _, p := range products {
				if inResult[p.ID] {
					continue
				}
				categoryOK := category == domain.CategoryAll || p.Category == category
				queryOK := query == "" ||
					strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) ||
					strings.Contains(strings.ToLower(p.Description), strings.ToLower(query))
				if categoryOK && queryOK {
					t.Logf("FAIL: product %q satisfies both constraints but was excluded", p.Name)
					return false
				}
			}

			return true
		},
		gen.IntRange(0, 60),
		gen.IntRange(-1, 7), // -1 selects the "All" sentinel
		gen.OneConstOf("", "product", "PRODUCT 00", "description", "zzz-no-match", "Product 005"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: catalog-browser, Property 2: Pagination partitions the filtered sequence
func TestProperty_PaginationPartitionsSequence(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("pages are disjoint, ordered and cover the sequence exactly", prop.ForAll(
		func(size int, pageSize int) bool {
			products := buildCatalog(size)

			totalPages := TotalPages(len(products), pageSize)

			seen := 0
			var lastID int
			for page := 1; page <= totalPages; page++ {
				slice := Paginate(products, pageSize, page)
				if len(slice) == 0 {
					t.Logf("FAIL: in-range page %d is empty", page)
					return false
				}
				if page < totalPages && len(slice) != pageSize {
					t.Logf("FAIL: non-final page %d has %d items, want %d", page, len(slice), pageSize)
					return false
				}
				for _, p := range slice {
					if p.ID <= lastID {
						t.Logf("FAIL: pages overlap or reorder at product %d", p.ID)
						return false
					}
					lastID = p.ID
				}
				seen += len(slice)
			}

			if seen != len(products) {
				t.Logf("FAIL: pages cover %d products, want %d", seen, len(products))
				return false
			}

			// Out-of-range pages yield empty slices, never errors.
			if got := Paginate(products, pageSize, totalPages+1); len(got) != 0 {
				t.Logf("FAIL: out-of-range page returned %d items", len(got))
				return false
			}
			if got := Paginate(products, pageSize, totalPages+100); len(got) != 0 {
				t.Logf("FAIL: far out-of-range page returned %d items", len(got))
				return false
			}

			return true
		},
		gen.IntRange(0, 100),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: catalog-browser, Property 3: Link-back matching preserves catalog order
func TestProperty_MatchByNamePreservesCatalogOrder(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("matches come back in catalog order with unknown names dropped", prop.ForAll(
		func(size int, pickEvery int, unknownCount int) bool {
			products := buildCatalog(size)

			// Request names in reverse order, interleaved with unknowns.
			var names []string
			for i := len(products) - 1; i >= 0; i -= pickEvery {
				names = append(names, products[i].Name)
			}
			for i := 0; i < unknownCount; i++ {
				names = append(names, fmt.Sprintf("Nonexistent Item %d", i))
			}

			matched := MatchByName(products, names)

			wanted := make(map[string]bool, len(names))
			for _, n := range names {
				wanted[n] = true
			}

			var lastID int
			for _, p := range matched {
				if !wanted[p.Name] {
					t.Logf("FAIL: unrequested product %q in result", p.Name)
					return false
				}
				if p.ID <= lastID {
					t.Logf("FAIL: result not in catalog order at %q", p.Name)
					return false
				}
				lastID = p.ID
			}

			// Every requested name that exists in the catalog is matched.
			expected := 0
			for _, p := range products {
				if wanted[p.Name] {
					expected++
				}
			}
			if len(matched) != expected {
				t.Logf("FAIL: matched %d products, want %d", len(matched), expected)
				return false
			}

			return true
		},
		gen.IntRange(1, 50),
		gen.IntRange(1, 5),
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
