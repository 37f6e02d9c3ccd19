package unit_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
	"chatlist/internal/providers"
	"chatlist/internal/services"
	"chatlist/internal/tests/mocks"
)

func TestModelService_Upsert_Create(t *testing.T) {
	var created *models.Model
	mockRepo := &mocks.ModelRepositoryMock{
		CreateFunc: func(ctx context.Context, m *models.Model) error {
			m.ID = 7
			created = m
			return nil
		},
	}
	service := services.NewModelService(mockRepo, providers.NewRegistry())

	m, err := service.Upsert(context.Background(), &models.Model{
		Name:      "  GPT-4o  ",
		APIURL:    "https://api.openai.com/v1/chat/completions",
		APIID:     "OPENAI_API_KEY",
		ModelType: "OpenAI",
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(7), m.ID)
	assert.Equal(t, "GPT-4o", created.Name)
	assert.Equal(t, "openai", created.ModelType)
}

func TestModelService_Upsert_DuplicateName(t *testing.T) {
	mockRepo := &mocks.ModelRepositoryMock{
		GetByNameFunc: func(ctx context.Context, name string) (*models.Model, error) {
			return &models.Model{ID: 3, Name: name}, nil
		},
	}
	service := services.NewModelService(mockRepo, providers.NewRegistry())

	_, err := service.Upsert(context.Background(), &models.Model{
		Name:      "GPT-4o",
		APIURL:    "https://api.openai.com/v1/chat/completions",
		APIID:     "OPENAI_API_KEY",
		ModelType: "openai",
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)
}

func TestModelService_Upsert_SameIDKeepsName(t *testing.T) {
	mockRepo := &mocks.ModelRepositoryMock{
		GetByNameFunc: func(ctx context.Context, name string) (*models.Model, error) {
			return &models.Model{ID: 3, Name: name}, nil
		},
		GetByIDFunc: func(ctx context.Context, id uint) (*models.Model, error) {
			return &models.Model{ID: id, Name: "GPT-4o", CreatedAt: "2026-01-01 00:00:00"}, nil
		},
	}
	service := services.NewModelService(mockRepo, providers.NewRegistry())

	m, err := service.Upsert(context.Background(), &models.Model{
		ID:        3,
		Name:      "GPT-4o",
		APIURL:    "https://api.openai.com/v1/chat/completions",
		APIID:     "OPENAI_API_KEY",
		ModelType: "openai",
	})
	assert.NoError(t, err)
	assert.Equal(t, "2026-01-01 00:00:00", m.CreatedAt)
}

func TestModelService_Upsert_Validation(t *testing.T) {
	service := services.NewModelService(&mocks.ModelRepositoryMock{}, providers.NewRegistry())
	ctx := context.Background()

	cases := []struct {
		name  string
		model models.Model
	}{
		{"missing name", models.Model{APIURL: "https://x", APIID: "K", ModelType: "openai"}},
		{"missing url", models.Model{Name: "m", APIID: "K", ModelType: "openai"}},
		{"bad url scheme", models.Model{Name: "m", APIURL: "ftp://x", APIID: "K", ModelType: "openai"}},
		{"missing credential ref", models.Model{Name: "m", APIURL: "https://x", ModelType: "openai"}},
		{"missing type", models.Model{Name: "m", APIURL: "https://x", APIID: "K"}},
		{"unknown type", models.Model{Name: "m", APIURL: "https://x", APIID: "K", ModelType: "anthropic"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Upsert(ctx, &tc.model)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestModelService_Upsert_OpenRouterWithoutURL(t *testing.T) {
	mockRepo := &mocks.ModelRepositoryMock{}
	service := services.NewModelService(mockRepo, providers.NewRegistry())

	m, err := service.Upsert(context.Background(), &models.Model{
		Name:      "or-model",
		APIID:     "OPENROUTER_API_KEY",
		ModelType: "openrouter",
	})
	assert.NoError(t, err)
	assert.NotZero(t, m.ID)
}

func TestModelService_Delete_InUse(t *testing.T) {
	mockRepo := &mocks.ModelRepositoryMock{
		DeleteFunc: func(ctx context.Context, id uint) error {
			return apperr.ErrModelInUse
		},
	}
	service := services.NewModelService(mockRepo, providers.NewRegistry())

	err := service.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, apperr.ErrModelInUse)
}

func TestModelService_ToggleActive(t *testing.T) {
	var setTo *bool
	mockRepo := &mocks.ModelRepositoryMock{
		GetByIDFunc: func(ctx context.Context, id uint) (*models.Model, error) {
			return &models.Model{ID: id, Name: "m", IsActive: true}, nil
		},
		SetActiveFunc: func(ctx context.Context, id uint, active bool) error {
			setTo = &active
			return nil
		},
	}
	service := services.NewModelService(mockRepo, providers.NewRegistry())

	m, err := service.ToggleActive(context.Background(), 2)
	assert.NoError(t, err)
	assert.False(t, m.IsActive)
	if assert.NotNil(t, setTo) {
		assert.False(t, *setTo)
	}
}
