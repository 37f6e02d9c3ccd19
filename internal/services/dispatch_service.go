package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"chatlist/internal/apperr"
	"chatlist/internal/dispatch"
	"chatlist/internal/models"
	"chatlist/internal/repositories"
)

// DispatchOptions control one dispatch run.
type DispatchOptions struct {
	// Tags to attach when the prompt is created by this run.
	Tags []string
	// PromptID reuses an existing prompt instead of creating one.
	PromptID uint
	// ModelIDs narrows the run to a subset of the active models.
	ModelIDs []uint
	// PersistFailures records failed attempts as result rows too.
	PersistFailures bool
}

// DispatchReport is the outcome of one fan-out run. Saved holds the
// persisted results; Failures holds per-model failures in completion order.
type DispatchReport struct {
	DispatchID string                        `json:"dispatchId"`
	PromptID   uint                          `json:"promptId"`
	Models     int                           `json:"models"`
	Saved      []models.Result               `json:"saved"`
	Failures   []dispatch.CorrelationFailure `json:"failures"`
}

// DispatchService drives a full run: persist the prompt, fan out to the
// active models, correlate and persist each outcome as it arrives.
type DispatchService interface {
	Dispatch(ctx context.Context, promptText string, opts DispatchOptions) (*DispatchReport, error)
}

type dispatchService struct {
	prompts    PromptService
	modelsSvc  ModelService
	settings   SettingsService
	results    repositories.ResultRepository
	dispatcher *dispatch.Dispatcher
	correlator *dispatch.Correlator
	logger     *zap.Logger
}

func NewDispatchService(
	prompts PromptService,
	modelsSvc ModelService,
	settings SettingsService,
	results repositories.ResultRepository,
	dispatcher *dispatch.Dispatcher,
	correlator *dispatch.Correlator,
	logger *zap.Logger,
) DispatchService {
	return &dispatchService{
		prompts:    prompts,
		modelsSvc:  modelsSvc,
		settings:   settings,
		results:    results,
		dispatcher: dispatcher,
		correlator: correlator,
		logger:     logger,
	}
}

// Dispatch streams persistence: each successful outcome is written as soon
// as it is correlated, so a cancelled run keeps everything already saved.
// Re-dispatching the same prompt always produces a fresh result set.
func (s *dispatchService) Dispatch(ctx context.Context, promptText string, opts DispatchOptions) (*DispatchReport, error) {
	prompt, err := s.resolvePrompt(ctx, promptText, opts)
	if err != nil {
		return nil, err
	}

	targets, err := s.resolveTargets(ctx, opts.ModelIDs)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no active models to dispatch to", apperr.ErrValidation)
	}

	timeout := s.settings.DispatchTimeout(ctx)
	report := &DispatchReport{PromptID: prompt.ID, Models: len(targets)}

	for outcome := range s.dispatcher.Dispatch(ctx, prompt.Text, targets, timeout) {
		report.DispatchID = outcome.DispatchID
		result, failure := s.correlator.Correlate(prompt.ID, outcome)
		if failure != nil {
			report.Failures = append(report.Failures, *failure)
			if opts.PersistFailures {
				failed := failure.AsResult(prompt.ID)
				if err := s.results.Create(ctx, failed); err != nil {
					s.logger.Error("persist failed attempt", zap.Uint("model_id", failure.ModelID), zap.Error(err))
					continue
				}
				report.Saved = append(report.Saved, *failed)
			}
			continue
		}
		// Integrity violations abort only this write; results already
		// committed in the same run stay committed.
		if err := s.results.Create(ctx, result); err != nil {
			report.Failures = append(report.Failures, dispatch.CorrelationFailure{
				DispatchID: outcome.DispatchID,
				ModelID:    outcome.Model.ID,
				ModelName:  outcome.Model.Name,
				Err:        err,
				Diagnostic: err.Error(),
			})
			continue
		}
		report.Saved = append(report.Saved, *result)
	}

	s.logger.Info("dispatch finished",
		zap.String("dispatch_id", report.DispatchID),
		zap.Uint("prompt_id", report.PromptID),
		zap.Int("saved", len(report.Saved)),
		zap.Int("failures", len(report.Failures)))
	return report, nil
}

func (s *dispatchService) resolvePrompt(ctx context.Context, text string, opts DispatchOptions) (*models.Prompt, error) {
	if opts.PromptID != 0 {
		return s.prompts.Get(ctx, opts.PromptID)
	}
	return s.prompts.Create(ctx, text, opts.Tags)
}

// resolveTargets returns the active models, optionally narrowed to the
// requested subset. Inactive models are excluded even when asked for.
func (s *dispatchService) resolveTargets(ctx context.Context, modelIDs []uint) ([]models.Model, error) {
	active, err := s.modelsSvc.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(modelIDs) == 0 {
		return active, nil
	}
	wanted := make(map[uint]struct{}, len(modelIDs))
	for _, id := range modelIDs {
		wanted[id] = struct{}{}
	}
	targets := make([]models.Model, 0, len(modelIDs))
	for _, m := range active {
		if _, ok := wanted[m.ID]; ok {
			targets = append(targets, m)
		}
	}
	return targets, nil
}
