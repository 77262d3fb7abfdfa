package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ember-boutique/internal/catalog"
	"ember-boutique/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrBlankMood is returned before any outbound call when the mood is
	// empty or whitespace-only. Callers treat it as a no-op condition.
	ErrBlankMood = errors.New("mood is blank")

	// ErrNoProducts is returned when the offered product subset is empty;
	// an empty offer can only produce suggestions that match nothing.
	ErrNoProducts = errors.New("no products available to recommend from")

	// ErrGenerationFailed is the uniform failure outcome for the entire
	// generation call chain: transport errors, non-success statuses,
	// malformed JSON and missing fields all collapse into it. There are no
	// partial results and no automatic retry.
	ErrGenerationFailed = errors.New("failed to generate idea")
)

const promptTemplate = `You are an expert romance and date night planner.
Generate a creative, romantic, and slightly adventurous date night idea based on the following mood: %q.

From the following list of available products, you MUST select 2 or 3 that would best enhance this specific date night. Only return product names that are explicitly in this list.

Available Products:
%s

Return your response in the specified JSON format.`

// IdeaGenerator issues one structured-output request to the generative-text
// service and returns the raw JSON text of its answer.
type IdeaGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// IdeaResult pairs a generated idea with the catalog entries its suggested
// names resolved to, in catalog order.
type IdeaResult struct {
	Idea     *domain.DateNightIdea
	Products []domain.Product
}

// IdeaService defines the interface for date-night idea generation.
type IdeaService interface {
	GenerateIdea(ctx context.Context, mood string, available []domain.Product) (*IdeaResult, error)
}

type ideaService struct {
	generator IdeaGenerator
	logger    *zap.Logger
	flight    singleflight.Group
}

// NewIdeaService creates a new instance of IdeaService.
func NewIdeaService(generator IdeaGenerator, logger *zap.Logger) IdeaService {
	return &ideaService{
		generator: generator,
		logger:    logger,
	}
}

// GenerateIdea builds the prompt from the mood and the offered product
// subset, issues exactly one outbound request, and validates the response as
// untrusted input. Concurrent identical requests are collapsed into a single
// outbound call.
func (s *ideaService) GenerateIdea(ctx context.Context, mood string, available []domain.Product) (*IdeaResult, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, ErrBlankMood
	}
	if len(available) == 0 {
		return nil, ErrNoProducts
	}

	names := make([]string, len(available))
	for i, p := range available {
		names[i] = p.Name
	}

	key := mood + "\x00" + strings.Join(names, "\x00")
	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		return s.generate(ctx, mood, names, available)
	})
	if err != nil {
		return nil, err
	}
	return v.(*IdeaResult), nil
}

func (s *ideaService) generate(ctx context.Context, mood string, names []string, available []domain.Product) (*IdeaResult, error) {
	prompt := fmt.Sprintf(promptTemplate, mood, strings.Join(names, ", "))

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("Idea generation request failed", zap.Error(err))
		return nil, ErrGenerationFailed
	}

	idea, err := parseIdea(text)
	if err != nil {
		s.logger.Error("Idea generation returned unusable response",
			zap.Error(err),
			zap.Int("response_bytes", len(text)),
		)
		return nil, ErrGenerationFailed
	}

	matched := catalog.MatchByName(available, idea.SuggestedProducts)
	if len(matched) < len(idea.SuggestedProducts) {
		// Expected: the service can hallucinate names outside the offer.
		s.logger.Debug("Dropped suggested names with no catalog match",
			zap.Int("suggested", len(idea.SuggestedProducts)),
			zap.Int("matched", len(matched)),
		)
	}

	return &IdeaResult{Idea: idea, Products: matched}, nil
}

// parseIdea validates the schema-requested but not schema-enforced response.
// Every required field must be present and non-blank; suggested_products
// must be present, though its entries are only checked during matching.
func parseIdea(text string) (*domain.DateNightIdea, error) {
	var idea domain.DateNightIdea
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &idea); err != nil {
		return nil, fmt.Errorf("malformed response JSON: %w", err)
	}

	if strings.TrimSpace(idea.Title) == "" {
		return nil, errors.New("response missing required field: title")
	}
	if strings.TrimSpace(idea.Description) == "" {
		return nil, errors.New("response missing required field: description")
	}
	if idea.SuggestedProducts == nil {
		return nil, errors.New("response missing required field: suggested_products")
	}

	return &idea, nil
}
