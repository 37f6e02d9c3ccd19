package mocks

import (
	"context"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
)

type SettingRepositoryMock struct {
	GetFunc    func(ctx context.Context, key string) (*models.Setting, error)
	PutFunc    func(ctx context.Context, key, value string) error
	AllFunc    func(ctx context.Context) (map[string]string, error)
	DeleteFunc func(ctx context.Context, key string) error
}

func (m *SettingRepositoryMock) Get(ctx context.Context, key string) (*models.Setting, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, apperr.ErrNotFound
}

func (m *SettingRepositoryMock) Put(ctx context.Context, key, value string) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, value)
	}
	return nil
}

func (m *SettingRepositoryMock) All(ctx context.Context) (map[string]string, error) {
	if m.AllFunc != nil {
		return m.AllFunc(ctx)
	}
	return map[string]string{}, nil
}

func (m *SettingRepositoryMock) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}
