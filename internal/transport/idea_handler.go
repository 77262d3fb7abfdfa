package transport

import (
	"errors"
	"net/http"
	"strings"

	"ember-boutique/internal/affiliate"
	"ember-boutique/internal/catalog"
	"ember-boutique/internal/domain"
	"ember-boutique/internal/geo"
	"ember-boutique/internal/middleware"
	"ember-boutique/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// IdeaRequest carries the mood plus the filter state the visitor was looking
// at, so the recommendation draws from the currently visible subset.
type IdeaRequest struct {
	Mood     string `json:"mood" validate:"required"`
	Category string `json:"category"`
	Query    string `json:"q"`
}

// IdeaResponse is a generated date-night idea with the catalog entries its
// suggestions resolved to.
type IdeaResponse struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Products    []ProductView `json:"products"`
}

// IdeaHandler handles HTTP requests for idea generation
type IdeaHandler struct {
	ideaService service.IdeaService
	catalog     *catalog.Catalog
	links       *affiliate.LinkBuilder
	resolver    *geo.Resolver
	logger      *zap.Logger
}

// NewIdeaHandler creates a new IdeaHandler
func NewIdeaHandler(ideaService service.IdeaService, cat *catalog.Catalog, links *affiliate.LinkBuilder, resolver *geo.Resolver, logger *zap.Logger) *IdeaHandler {
	return &IdeaHandler{
		ideaService: ideaService,
		catalog:     cat,
		links:       links,
		resolver:    resolver,
		logger:      logger,
	}
}

// RegisterRoutes registers the idea route behind the given rate limiter.
func (h *IdeaHandler) RegisterRoutes(r chi.Router, rateLimiter func(http.Handler) http.Handler) {
	if rateLimiter != nil {
		r.With(rateLimiter).Post("/api/ideas", h.GenerateIdea)
		return
	}
	r.Post("/api/ideas", h.GenerateIdea)
}

// GenerateIdea produces a themed recommendation bundle from the visitor's
// mood and currently-filtered product subset. Blank moods are rejected
// before any outbound call; every generation failure collapses into one
// generic message.
func (h *IdeaHandler) GenerateIdea(w http.ResponseWriter, r *http.Request) {
	var req IdeaRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Idea request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Mood) == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "mood must not be blank")
		return
	}

	category := req.Category
	if category == "" {
		category = domain.CategoryAll
	}
	if !h.catalog.HasCategory(category) {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown category")
		return
	}

	available := catalog.Filter(h.catalog.Products(), category, req.Query)

	result, err := h.ideaService.GenerateIdea(r.Context(), req.Mood, available)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBlankMood):
			middleware.RespondWithError(w, http.StatusBadRequest, "mood must not be blank")
		case errors.Is(err, service.ErrNoProducts):
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, "no products match the current filters")
		default:
			h.logger.Error("Idea generation failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusBadGateway, "could not generate an idea right now, please try again")
		}
		return
	}

	country := h.countryFor(r)

	views := make([]ProductView, len(result.Products))
	for i, p := range result.Products {
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

	h.logger.Info("Idea generated",
		zap.String("title", result.Idea.Title),
		zap.Int("suggested", len(result.Idea.SuggestedProducts)),
		zap.Int("matched", len(result.Products)),
	)

	middleware.RespondWithJSON(w, http.StatusOK, IdeaResponse{
		Title:       result.Idea.Title,
		Description: result.Idea.Description,
		Products:    views,
	})
}

func (h *IdeaHandler) countryFor(r *http.Request) string {
	if code := r.URL.Query().Get("country"); code != "" {
		return code
	}
	return h.resolver.Resolve(r.Context(), clientIP(r))
}
