package mocks

import (
	"context"

	"chatlist/internal/models"
)

type PromptRepositoryMock struct {
	CreateFunc        func(ctx context.Context, p *models.Prompt) error
	GetByIDFunc       func(ctx context.Context, id uint) (*models.Prompt, error)
	ListFunc          func(ctx context.Context, limit, offset int) ([]models.Prompt, error)
	SearchFunc        func(ctx context.Context, query string, limit int) ([]models.Prompt, error)
	ByTagContainsFunc func(ctx context.Context, tag string) ([]models.Prompt, error)
	ByDateRangeFunc   func(ctx context.Context, from, to string) ([]models.Prompt, error)
	UpdateTagsFunc    func(ctx context.Context, id uint, tags string) error
	DeleteFunc        func(ctx context.Context, id uint) error
}

func (m *PromptRepositoryMock) Create(ctx context.Context, p *models.Prompt) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	p.ID = 1
	return nil
}

func (m *PromptRepositoryMock) GetByID(ctx context.Context, id uint) (*models.Prompt, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &models.Prompt{ID: id, Text: "hello"}, nil
}

func (m *PromptRepositoryMock) List(ctx context.Context, limit, offset int) ([]models.Prompt, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *PromptRepositoryMock) Search(ctx context.Context, query string, limit int) ([]models.Prompt, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *PromptRepositoryMock) ByTagContains(ctx context.Context, tag string) ([]models.Prompt, error) {
	if m.ByTagContainsFunc != nil {
		return m.ByTagContainsFunc(ctx, tag)
	}
	return nil, nil
}

func (m *PromptRepositoryMock) ByDateRange(ctx context.Context, from, to string) ([]models.Prompt, error) {
	if m.ByDateRangeFunc != nil {
		return m.ByDateRangeFunc(ctx, from, to)
	}
	return nil, nil
}

func (m *PromptRepositoryMock) UpdateTags(ctx context.Context, id uint, tags string) error {
	if m.UpdateTagsFunc != nil {
		return m.UpdateTagsFunc(ctx, id, tags)
	}
	return nil
}

func (m *PromptRepositoryMock) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
