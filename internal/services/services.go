package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"chatlist/internal/credentials"
	"chatlist/internal/dispatch"
	"chatlist/internal/improver"
	"chatlist/internal/providers"
	"chatlist/internal/repositories"
)

// Services aggregates all domain services backed by the database.
type Services struct {
	Prompts    PromptService
	Models     ModelService
	Settings   SettingsService
	Queries    QueryService
	Dispatches DispatchService
	Improver   *improver.Improver
	Registry   *providers.Registry
	Creds      *credentials.Manager
}

// NewServices constructs the service container using repositories backed by db.
func NewServices(db *gorm.DB, logger *zap.Logger) *Services {
	promptRepo := repositories.NewPromptRepository(db)
	modelRepo := repositories.NewModelRepository(db)
	resultRepo := repositories.NewResultRepository(db)
	settingRepo := repositories.NewSettingRepository(db)

	registry := providers.NewRegistry()
	creds := credentials.NewManager()

	prompts := NewPromptService(promptRepo)
	modelsSvc := NewModelService(modelRepo, registry)
	settings := NewSettingsService(settingRepo)
	queries := NewQueryService(resultRepo, promptRepo)

	dispatcher := dispatch.NewDispatcher(registry, creds, logger)
	correlator := dispatch.NewCorrelator(registry)

	return &Services{
		Prompts:    prompts,
		Models:     modelsSvc,
		Settings:   settings,
		Queries:    queries,
		Dispatches: NewDispatchService(prompts, modelsSvc, settings, resultRepo, dispatcher, correlator, logger),
		Improver:   improver.NewImprover(dispatcher, registry),
		Registry:   registry,
		Creds:      creds,
	}
}
