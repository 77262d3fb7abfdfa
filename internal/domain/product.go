package domain

// CategoryAll is the sentinel category label that applies no category
// constraint. It is never a real product category.
const CategoryAll = "All"

// Product represents one entry in the fixed catalog. The catalog is supplied
// at startup and never mutated; Name doubles as the join key used to match
// generated suggestions back to catalog entries, so it must be unique.
type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ASIN        string `json:"asin"`
	Category    string `json:"category"`
}

// DateNightIdea is the structured artifact returned by the generative-text
// service: a themed plan plus the product names it suggests from the subset
// it was offered. The service is untrusted, so SuggestedProducts may contain
// names that match nothing in the catalog.
type DateNightIdea struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	SuggestedProducts []string `json:"suggested_products"`
}
