// Package providers holds the per-model-type request/response shaping.
// Each model_type maps to exactly one Provider variant; adding a type means
// registering one more variant here.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
)

// Provider builds the outbound HTTP request for one model type and parses
// the raw response body back into text plus metadata.
type Provider interface {
	Type() string
	NewRequest(ctx context.Context, model *models.Model, apiKey, prompt string) (*http.Request, error)
	ParseResponse(model *models.Model, body []byte, elapsed time.Duration) (string, map[string]any, error)
}

// Registry resolves a model_type tag into its Provider variant.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry registers the built-in variants. All of them speak the
// OpenAI-compatible chat-completions shape; they differ in default URL,
// extra headers and model-name handling.
func NewRegistry() *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	r.Register(newOpenAIProvider())
	r.Register(newDeepSeekProvider())
	r.Register(newGroqProvider())
	r.Register(newOpenRouterProvider())
	r.Register(newUniversalProvider())
	return r
}

// Register adds or replaces a variant for its type tag.
func (r *Registry) Register(p Provider) {
	r.providers[p.Type()] = p
}

// For returns the variant for a model_type, or ErrUnsupportedModelType.
func (r *Registry) For(modelType string) (Provider, error) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(modelType))]
	if !ok {
		return nil, fmt.Errorf("%q: %w", modelType, apperr.ErrUnsupportedModelType)
	}
	return p, nil
}

// SupportedTypes returns the registered type tags, sorted.
func (r *Registry) SupportedTypes() []string {
	types := make([]string, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
