package services

import (
	"context"
	"fmt"
	"strings"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
	"chatlist/internal/repositories"
)

type PromptService interface {
	Create(ctx context.Context, text string, tags []string) (*models.Prompt, error)
	Get(ctx context.Context, id uint) (*models.Prompt, error)
	List(ctx context.Context, limit, offset int) ([]models.Prompt, error)
	Search(ctx context.Context, query string, limit int) ([]models.Prompt, error)
	UpdateTags(ctx context.Context, id uint, tags []string) error
	Delete(ctx context.Context, id uint) error
}

type promptService struct {
	repo repositories.PromptRepository
}

func NewPromptService(repo repositories.PromptRepository) PromptService {
	return &promptService{repo: repo}
}

func (s *promptService) Create(ctx context.Context, text string, tags []string) (*models.Prompt, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: prompt text is required", apperr.ErrValidation)
	}
	p := &models.Prompt{
		Text: text,
		Tags: models.JoinTags(tags),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *promptService) Get(ctx context.Context, id uint) (*models.Prompt, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: prompt ID is required", apperr.ErrValidation)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *promptService) List(ctx context.Context, limit, offset int) ([]models.Prompt, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *promptService) Search(ctx context.Context, query string, limit int) ([]models.Prompt, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx, limit, 0)
	}
	return s.repo.Search(ctx, query, limit)
}

// UpdateTags replaces the tag set; the only mutable prompt field.
func (s *promptService) UpdateTags(ctx context.Context, id uint, tags []string) error {
	if id == 0 {
		return fmt.Errorf("%w: prompt ID is required", apperr.ErrValidation)
	}
	return s.repo.UpdateTags(ctx, id, models.JoinTags(tags))
}

// Delete removes a prompt and all of its results.
func (s *promptService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("%w: prompt ID is required", apperr.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
