package dispatch

import (
	"fmt"

	"chatlist/internal/models"
	"chatlist/internal/providers"
)

// CorrelationFailure describes a per-model failure the caller may show,
// log or record; it is never persisted as a result unless the caller
// explicitly opts in.
type CorrelationFailure struct {
	DispatchID string `json:"dispatchId"`
	ModelID    uint   `json:"modelId"`
	ModelName  string `json:"modelName"`
	Err        error  `json:"-"`
	Diagnostic string `json:"diagnostic"`
}

// Correlator normalizes a raw outcome into a persistable result using the
// model-type-specific response shape.
type Correlator struct {
	registry *providers.Registry
}

func NewCorrelator(registry *providers.Registry) *Correlator {
	return &Correlator{registry: registry}
}

// Correlate turns one outcome into either a result row for promptID or a
// failure notice. A response body that cannot be unpacked for the model's
// type is surfaced as a failure, never dropped.
func (c *Correlator) Correlate(promptID uint, o Outcome) (*models.Result, *CorrelationFailure) {
	if o.Err != nil {
		return nil, c.failure(o, o.Err)
	}

	provider, err := c.registry.For(o.Model.ModelType)
	if err != nil {
		return nil, c.failure(o, err)
	}

	text, metadata, err := provider.ParseResponse(&o.Model, o.RawBody, o.Latency)
	if err != nil {
		return nil, c.failure(o, err)
	}

	result := &models.Result{
		PromptID: promptID,
		ModelID:  o.Model.ID,
		Response: text,
	}
	if err := result.SetMetadata(metadata); err != nil {
		return nil, c.failure(o, fmt.Errorf("encode metadata: %w", err))
	}
	return result, nil
}

func (c *Correlator) failure(o Outcome, err error) *CorrelationFailure {
	return &CorrelationFailure{
		DispatchID: o.DispatchID,
		ModelID:    o.Model.ID,
		ModelName:  o.Model.Name,
		Err:        err,
		Diagnostic: err.Error(),
	}
}

// AsResult renders a failure as a result row, for callers that choose to
// record failed attempts alongside successes.
func (f *CorrelationFailure) AsResult(promptID uint) *models.Result {
	return &models.Result{
		PromptID: promptID,
		ModelID:  f.ModelID,
		Response: "ERROR: " + f.Diagnostic,
	}
}
