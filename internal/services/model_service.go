package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
	"chatlist/internal/providers"
	"chatlist/internal/repositories"
)

// ModelService is the model registry: configuration CRUD plus the active
// set used for dispatch.
type ModelService interface {
	ListActive(ctx context.Context) ([]models.Model, error)
	List(ctx context.Context) ([]models.Model, error)
	Get(ctx context.Context, id uint) (*models.Model, error)
	Upsert(ctx context.Context, m *models.Model) (*models.Model, error)
	Delete(ctx context.Context, id uint) error
	SetActive(ctx context.Context, id uint, active bool) error
	ToggleActive(ctx context.Context, id uint) (*models.Model, error)
	Search(ctx context.Context, query string) ([]models.Model, error)
}

type modelService struct {
	repo     repositories.ModelRepository
	registry *providers.Registry
}

func NewModelService(repo repositories.ModelRepository, registry *providers.Registry) ModelService {
	return &modelService{repo: repo, registry: registry}
}

func (s *modelService) ListActive(ctx context.Context) ([]models.Model, error) {
	return s.repo.ListActive(ctx)
}

func (s *modelService) List(ctx context.Context) ([]models.Model, error) {
	return s.repo.List(ctx)
}

func (s *modelService) Get(ctx context.Context, id uint) (*models.Model, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: model ID is required", apperr.ErrValidation)
	}
	return s.repo.GetByID(ctx, id)
}

// Upsert creates the model when ID is zero, otherwise updates it. Name
// uniqueness and required fields are validated before any write.
func (s *modelService) Upsert(ctx context.Context, m *models.Model) (*models.Model, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: model is required", apperr.ErrValidation)
	}
	m.Name = strings.TrimSpace(m.Name)
	m.APIURL = strings.TrimSpace(m.APIURL)
	m.APIID = strings.TrimSpace(m.APIID)
	m.ModelType = strings.ToLower(strings.TrimSpace(m.ModelType))

	if err := s.validate(m); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, m.Name)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != m.ID {
		return nil, fmt.Errorf("%q: %w", m.Name, apperr.ErrDuplicateName)
	}

	if m.ID == 0 {
		if err := s.repo.Create(ctx, m); err != nil {
			return nil, err
		}
		return m, nil
	}

	current, err := s.repo.GetByID(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = current.CreatedAt
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *modelService) validate(m *models.Model) error {
	if m.Name == "" {
		return fmt.Errorf("%w: model name is required", apperr.ErrValidation)
	}
	if m.APIURL == "" && m.ModelType != "openrouter" {
		return fmt.Errorf("%w: API URL is required", apperr.ErrValidation)
	}
	if m.APIURL != "" && !strings.HasPrefix(m.APIURL, "http://") && !strings.HasPrefix(m.APIURL, "https://") {
		return fmt.Errorf("%w: API URL must start with http:// or https://", apperr.ErrValidation)
	}
	if m.APIID == "" {
		return fmt.Errorf("%w: credential reference is required", apperr.ErrValidation)
	}
	if m.ModelType == "" {
		return fmt.Errorf("%w: model type is required", apperr.ErrValidation)
	}
	if _, err := s.registry.For(m.ModelType); err != nil {
		return fmt.Errorf("%w: model type must be one of: %s",
			apperr.ErrValidation, strings.Join(s.registry.SupportedTypes(), ", "))
	}
	return nil
}

// Delete hard-removes a model; blocked with ErrModelInUse while any result
// references it. Such models can only be deactivated.
func (s *modelService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("%w: model ID is required", apperr.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *modelService) SetActive(ctx context.Context, id uint, active bool) error {
	if id == 0 {
		return fmt.Errorf("%w: model ID is required", apperr.ErrValidation)
	}
	return s.repo.SetActive(ctx, id, active)
}

func (s *modelService) ToggleActive(ctx context.Context, id uint) (*models.Model, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, !m.IsActive); err != nil {
		return nil, err
	}
	m.IsActive = !m.IsActive
	return m, nil
}

func (s *modelService) Search(ctx context.Context, query string) ([]models.Model, error) {
	return s.repo.Search(ctx, strings.TrimSpace(query))
}
