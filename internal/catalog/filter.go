package catalog

import (
	"strings"

	"ember-boutique/internal/domain"
)

// Filter returns the subsequence of products that satisfy both constraints,
// preserving the original relative order. The "All" sentinel disables the
// category constraint; category matching is exact and case-sensitive. A
// non-empty query matches case-insensitively as a substring of either name
// or description. Empty results are valid, not errors.
func Filter(products []domain.Product, category, query string) []domain.Product {
	query = strings.ToLower(query)

	filtered := []domain.Product{}
	for _, p := range products {
		if category != domain.CategoryAll && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// TotalPages returns ceil(total/pageSize); zero when total is zero.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate slices the half-open range [(page-1)*pageSize, page*pageSize).
// Out-of-range pages yield an empty slice rather than an error: the client
// resets to page 1 on every filter change, but the function must not fail
// when it receives a stale page number.
func Paginate(products []domain.Product, pageSize, page int) []domain.Product {
	if pageSize <= 0 || page <= 0 {
		return []domain.Product{}
	}

	start := (page - 1) * pageSize
	if start >= len(products) {
		return []domain.Product{}
	}

	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// MatchByName maps a list of product names back to catalog entries by exact
// string equality, returning matches in catalog order regardless of the
// order the names arrived in. Names with no catalog entry are silently
// dropped; the generative service can hallucinate names and that is an
// expected condition, not an error.
func MatchByName(products []domain.Product, names []string) []domain.Product {
	if len(names) == 0 {
		return []domain.Product{}
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	matched := []domain.Product{}
	for _, p := range products {
		if wanted[p.Name] {
			matched = append(matched, p)
		}
	}
	return matched
}
