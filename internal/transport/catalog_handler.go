package transport

import (
	"net"
	"net/http"
	"strconv"

	"ember-boutique/internal/affiliate"
	"ember-boutique/internal/catalog"
	"ember-boutique/internal/domain"
	"ember-boutique/internal/geo"
	"ember-boutique/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductView is a catalog entry as served to clients, carrying its
// geo-localized outbound purchase link.
type ProductView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ASIN        string `json:"asin"`
	Category    string `json:"category"`
	Link        string `json:"link"`
}

// ProductListResponse is the paginated product listing envelope.
type ProductListResponse struct {
	Products   []ProductView `json:"products"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// CategoriesResponse lists the enumerated category labels, sentinel first.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// CatalogHandler handles HTTP requests for catalog browsing
type CatalogHandler struct {
	catalog         *catalog.Catalog
	links           *affiliate.LinkBuilder
	resolver        *geo.Resolver
	defaultPageSize int
	maxPageSize     int
	logger          *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(cat *catalog.Catalog, links *affiliate.LinkBuilder, resolver *geo.Resolver, defaultPageSize, maxPageSize int, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:         cat,
		links:           links,
		resolver:        resolver,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.Get("/products", h.ListProducts)
	})
}

// ListCategories returns the enumerated category labels.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, CategoriesResponse{
		Categories: h.catalog.Categories(),
	})
}

// ListProducts returns one page of the filtered catalog. Category and query
// filter together; an empty result is a success state, and an out-of-range
// page yields an empty page rather than an error.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = domain.CategoryAll
	}
	if !h.catalog.HasCategory(category) {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown category")
		return
	}

	query := r.URL.Query().Get("q")

	page, err := positiveIntParam(r, "page", 1)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid page")
		return
	}

	pageSize, err := positiveIntParam(r, "page_size", h.defaultPageSize)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid page_size")
		return
	}
	if pageSize > h.maxPageSize {
		pageSize = h.maxPageSize
	}

	filtered := catalog.Filter(h.catalog.Products(), category, query)
	paged := catalog.Paginate(filtered, pageSize, page)

	country := h.countryFor(r)

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products:   h.productViews(paged, country),
		Page:       page,
		PageSize:   pageSize,
		Total:      len(filtered),
		TotalPages: catalog.TotalPages(len(filtered), pageSize),
	})
}

// countryFor resolves the visitor's country code: an explicit country query
// parameter wins, otherwise the client IP is geo-resolved. The result is
// always usable; resolution failures have already folded into the default.
func (h *CatalogHandler) countryFor(r *http.Request) string {
	if code := r.URL.Query().Get("country"); code != "" {
		return code
	}
	return h.resolver.Resolve(r.Context(), clientIP(r))
}

func (h *CatalogHandler) productViews(products []domain.Product, country string) []ProductView {
	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = ProductView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			ASIN:        p.ASIN,
			Category:    p.Category,
			Link:        h.links.BuildLink(p.ASIN, country),
		}
	}
	return views
}

// clientIP extracts the client address set by chi's RealIP middleware,
// stripping the port when a direct connection keeps host:port form.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func positiveIntParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
