package mocks

import (
	"context"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
)

type ModelRepositoryMock struct {
	CreateFunc     func(ctx context.Context, m *models.Model) error
	SaveFunc       func(ctx context.Context, m *models.Model) error
	GetByIDFunc    func(ctx context.Context, id uint) (*models.Model, error)
	GetByNameFunc  func(ctx context.Context, name string) (*models.Model, error)
	ListFunc       func(ctx context.Context) ([]models.Model, error)
	ListActiveFunc func(ctx context.Context) ([]models.Model, error)
	SearchFunc     func(ctx context.Context, query string) ([]models.Model, error)
	SetActiveFunc  func(ctx context.Context, id uint, active bool) error
	DeleteFunc     func(ctx context.Context, id uint) error
}

func (m *ModelRepositoryMock) Create(ctx context.Context, mdl *models.Model) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, mdl)
	}
	mdl.ID = 1
	return nil
}

func (m *ModelRepositoryMock) Save(ctx context.Context, mdl *models.Model) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, mdl)
	}
	return nil
}

func (m *ModelRepositoryMock) GetByID(ctx context.Context, id uint) (*models.Model, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperr.ErrNotFound
}

func (m *ModelRepositoryMock) GetByName(ctx context.Context, name string) (*models.Model, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, apperr.ErrNotFound
}

func (m *ModelRepositoryMock) List(ctx context.Context) ([]models.Model, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *ModelRepositoryMock) ListActive(ctx context.Context) ([]models.Model, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *ModelRepositoryMock) Search(ctx context.Context, query string) ([]models.Model, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

func (m *ModelRepositoryMock) SetActive(ctx context.Context, id uint, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active)
	}
	return nil
}

func (m *ModelRepositoryMock) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
