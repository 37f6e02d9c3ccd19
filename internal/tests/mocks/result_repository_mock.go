package mocks

import (
	"context"

	"chatlist/internal/models"
)

type ResultRepositoryMock struct {
	CreateFunc   func(ctx context.Context, res *models.Result) error
	ByPromptFunc func(ctx context.Context, promptID uint) ([]models.Result, error)
	ByModelFunc  func(ctx context.Context, modelID uint) ([]models.Result, error)
	ListFunc     func(ctx context.Context, limit, offset int) ([]models.Result, error)
	SearchFunc   func(ctx context.Context, query string, limit int) ([]models.Result, error)
	DeleteFunc   func(ctx context.Context, id uint) error
}

func (m *ResultRepositoryMock) Create(ctx context.Context, res *models.Result) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, res)
	}
	res.ID = 1
	return nil
}

func (m *ResultRepositoryMock) ByPrompt(ctx context.Context, promptID uint) ([]models.Result, error) {
	if m.ByPromptFunc != nil {
		return m.ByPromptFunc(ctx, promptID)
	}
	return nil, nil
}

func (m *ResultRepositoryMock) ByModel(ctx context.Context, modelID uint) ([]models.Result, error) {
	if m.ByModelFunc != nil {
		return m.ByModelFunc(ctx, modelID)
	}
	return nil, nil
}

func (m *ResultRepositoryMock) List(ctx context.Context, limit, offset int) ([]models.Result, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *ResultRepositoryMock) Search(ctx context.Context, query string, limit int) ([]models.Result, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *ResultRepositoryMock) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
