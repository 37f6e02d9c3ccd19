// Package improver rewrites prompts with the help of a configured model:
// one improved version plus a few alternative phrasings, and task-specific
// adaptations.
package improver

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"chatlist/internal/apperr"
	"chatlist/internal/dispatch"
	"chatlist/internal/models"
	"chatlist/internal/providers"
)

const variantsSeparator = "---VARIANTS---"

const improvementTemplate = `You are an expert at improving prompts for AI models. Analyze the following prompt and improve it.

Original prompt:
%s

Task: improve this prompt, making it clearer, more specific and more effective. Return the improved version.

Response format:
1. The improved prompt (main answer)
2. Then write "` + variantsSeparator + `" followed by 2-3 alternative rephrasings, each on a new line starting with "Variant N:"

Improved version:`

const codeTemplate = `You are an expert at writing prompts for programming tasks. Adapt the following prompt for working with code: add specifics and requirements for the answer format (code, explanations, examples). Return the improved version.

Original prompt:
%s

Improved version:`

const analysisTemplate = `You are an expert at writing prompts for analytical tasks. Adapt the following prompt for analyzing data, text or information: add requirements for answer structure, depth of analysis and output format. Return the improved version.

Original prompt:
%s

Improved version:`

const creativeTemplate = `You are an expert at writing prompts for creative tasks. Adapt the following prompt for creative work (writing, idea generation, creative solutions): add requirements for style, tone and format. Return the improved version.

Original prompt:
%s

Improved version:`

var (
	variantLead     = regexp.MustCompile(`(?i)variant\s+\d+[.:]`)
	improvedPrefix  = regexp.MustCompile(`(?i)^improved\s+version[.:]?\s*`)
	answerPrefix    = regexp.MustCompile(`(?i)^answer[.:]?\s*`)
	maxAlternatives = 3
)

// Improvement is the outcome of one improvement request.
type Improvement struct {
	Improved     string         `json:"improved"`
	Alternatives []string       `json:"alternatives"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Adaptations hold task-specific rewrites of one prompt. A field carries
// the error text when its request failed; other fields are unaffected.
type Adaptations struct {
	Code     string `json:"code"`
	Analysis string `json:"analysis"`
	Creative string `json:"creative"`
}

// Improver sends rewrite requests through the regular dispatch path,
// always against a single caller-chosen model.
type Improver struct {
	dispatcher *dispatch.Dispatcher
	registry   *providers.Registry
}

func NewImprover(dispatcher *dispatch.Dispatcher, registry *providers.Registry) *Improver {
	return &Improver{dispatcher: dispatcher, registry: registry}
}

// Improve asks the model for an improved version of the prompt and up to
// three alternative phrasings.
func (i *Improver) Improve(ctx context.Context, model models.Model, prompt string, timeout time.Duration) (*Improvement, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt text is required", apperr.ErrValidation)
	}

	text, metadata, err := i.ask(ctx, model, fmt.Sprintf(improvementTemplate, prompt), timeout)
	if err != nil {
		return nil, err
	}

	improved, alternatives := parseImprovement(text)
	return &Improvement{
		Improved:     improved,
		Alternatives: alternatives,
		Metadata:     metadata,
	}, nil
}

// Adapt rewrites the prompt for code, analysis and creative work. Each
// adaptation is an independent request; one failure does not stop the rest.
func (i *Improver) Adapt(ctx context.Context, model models.Model, prompt string, timeout time.Duration) (*Adaptations, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt text is required", apperr.ErrValidation)
	}

	out := &Adaptations{}
	for _, job := range []struct {
		template string
		target   *string
	}{
		{codeTemplate, &out.Code},
		{analysisTemplate, &out.Analysis},
		{creativeTemplate, &out.Creative},
	} {
		text, _, err := i.ask(ctx, model, fmt.Sprintf(job.template, prompt), timeout)
		if err != nil {
			*job.target = "ERROR: " + err.Error()
			continue
		}
		*job.target = stripPrefixes(text)
	}
	return out, nil
}

func (i *Improver) ask(ctx context.Context, model models.Model, prompt string, timeout time.Duration) (string, map[string]any, error) {
	var outcome dispatch.Outcome
	received := false
	for o := range i.dispatcher.Dispatch(ctx, prompt, []models.Model{model}, timeout) {
		outcome = o
		received = true
	}
	if !received {
		return "", nil, ctx.Err()
	}
	if outcome.Err != nil {
		return "", nil, outcome.Err
	}
	provider, err := i.registry.For(model.ModelType)
	if err != nil {
		return "", nil, err
	}
	return provider.ParseResponse(&model, outcome.RawBody, outcome.Latency)
}

// parseImprovement splits a response into the improved prompt and up to
// three alternatives, tolerating a missing separator.
func parseImprovement(response string) (string, []string) {
	response = strings.TrimSpace(response)

	improved := response
	alternativesText := ""
	if idx := strings.Index(response, variantsSeparator); idx >= 0 {
		improved = strings.TrimSpace(response[:idx])
		alternativesText = strings.TrimSpace(response[idx+len(variantsSeparator):])
	} else if loc := variantLead.FindStringIndex(response); loc != nil {
		improved = strings.TrimSpace(response[:loc[0]])
		alternativesText = response[loc[0]:]
	}

	improved = stripPrefixes(improved)

	var alternatives []string
	if alternativesText != "" {
		segments := variantLead.Split(alternativesText, -1)
		// The text before the first "Variant N:" header is not a variant.
		for _, segment := range segments[1:] {
			if alt := strings.TrimSpace(segment); alt != "" {
				alternatives = append(alternatives, alt)
			}
			if len(alternatives) == maxAlternatives {
				break
			}
		}
	}
	return improved, alternatives
}

func stripPrefixes(s string) string {
	s = improvedPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	s = answerPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
