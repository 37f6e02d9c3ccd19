package services

import (
	"context"
	"fmt"
	"strings"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
	"chatlist/internal/repositories"
)

// QueryService is the read side used by the presentation layer. Every
// method returns an empty slice, not an error, when nothing matches.
type QueryService interface {
	ResultsByPrompt(ctx context.Context, promptID uint) ([]models.Result, error)
	ResultsByModel(ctx context.Context, modelID uint) ([]models.Result, error)
	PromptsByTagContains(ctx context.Context, tag string) ([]models.Prompt, error)
	PromptsInDateRange(ctx context.Context, from, to string) ([]models.Prompt, error)
	SearchResults(ctx context.Context, query string, limit int) ([]models.Result, error)
	DeleteResult(ctx context.Context, id uint) error
}

type queryService struct {
	results repositories.ResultRepository
	prompts repositories.PromptRepository
}

func NewQueryService(results repositories.ResultRepository, prompts repositories.PromptRepository) QueryService {
	return &queryService{results: results, prompts: prompts}
}

func (s *queryService) ResultsByPrompt(ctx context.Context, promptID uint) ([]models.Result, error) {
	if promptID == 0 {
		return nil, fmt.Errorf("%w: prompt ID is required", apperr.ErrValidation)
	}
	return s.results.ByPrompt(ctx, promptID)
}

func (s *queryService) ResultsByModel(ctx context.Context, modelID uint) ([]models.Result, error) {
	if modelID == 0 {
		return nil, fmt.Errorf("%w: model ID is required", apperr.ErrValidation)
	}
	return s.results.ByModel(ctx, modelID)
}

func (s *queryService) PromptsByTagContains(ctx context.Context, tag string) ([]models.Prompt, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("%w: tag is required", apperr.ErrValidation)
	}
	return s.prompts.ByTagContains(ctx, tag)
}

// PromptsInDateRange matches the inclusive range [from, to]. Bounds compare
// as text in the stored layout; a date-only upper bound would sort before
// that day's timestamps, so it is widened to the end of the day.
func (s *queryService) PromptsInDateRange(ctx context.Context, from, to string) ([]models.Prompt, error) {
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: from and to are required", apperr.ErrValidation)
	}
	if !strings.Contains(to, " ") {
		to += " 23:59:59"
	}
	return s.prompts.ByDateRange(ctx, from, to)
}

func (s *queryService) SearchResults(ctx context.Context, query string, limit int) ([]models.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.results.List(ctx, limit, 0)
	}
	return s.results.Search(ctx, query, limit)
}

func (s *queryService) DeleteResult(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("%w: result ID is required", apperr.ErrValidation)
	}
	return s.results.Delete(ctx, id)
}
