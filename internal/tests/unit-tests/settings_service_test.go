package unit_tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chatlist/internal/apperr"
	"chatlist/internal/dispatch"
	"chatlist/internal/models"
	"chatlist/internal/services"
	"chatlist/internal/tests/mocks"
)

func TestSettingsService_Get_Fallback(t *testing.T) {
	mockRepo := &mocks.SettingRepositoryMock{
		GetFunc: func(ctx context.Context, key string) (*models.Setting, error) {
			return nil, apperr.ErrNotFound
		},
	}
	service := services.NewSettingsService(mockRepo)

	value, err := service.Get(context.Background(), "theme", "dark")
	assert.NoError(t, err)
	assert.Equal(t, "dark", value)
}

func TestSettingsService_Get_Stored(t *testing.T) {
	mockRepo := &mocks.SettingRepositoryMock{
		GetFunc: func(ctx context.Context, key string) (*models.Setting, error) {
			return &models.Setting{Key: key, Value: "light"}, nil
		},
	}
	service := services.NewSettingsService(mockRepo)

	value, err := service.Get(context.Background(), "theme", "dark")
	assert.NoError(t, err)
	assert.Equal(t, "light", value)
}

func TestSettingsService_DispatchTimeout(t *testing.T) {
	cases := []struct {
		name   string
		stored string
		want   time.Duration
	}{
		{"unset", "", dispatch.DefaultTimeout},
		{"valid seconds", "120", 120 * time.Second},
		{"not a number", "soon", dispatch.DefaultTimeout},
		{"zero", "0", dispatch.DefaultTimeout},
		{"negative", "-5", dispatch.DefaultTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &mocks.SettingRepositoryMock{
				GetFunc: func(ctx context.Context, key string) (*models.Setting, error) {
					if tc.stored == "" {
						return nil, apperr.ErrNotFound
					}
					return &models.Setting{Key: key, Value: tc.stored}, nil
				},
			}
			service := services.NewSettingsService(mockRepo)
			assert.Equal(t, tc.want, service.DispatchTimeout(context.Background()))
		})
	}
}
