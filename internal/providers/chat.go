package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
)

const (
	openAIDefaultURL     = "https://api.openai.com/v1/chat/completions"
	deepSeekDefaultURL   = "https://api.deepseek.com/v1/chat/completions"
	groqDefaultURL       = "https://api.groq.com/openai/v1/chat/completions"
	openRouterURL        = "https://openrouter.ai/api/v1/chat/completions"
	openRouterFallback   = "openai/gpt-3.5-turbo"
	openRouterReferer    = "https://github.com/chatlist/chatlist"
	openRouterTitle      = "ChatList"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// chatCompletionsProvider covers every OpenAI-compatible endpoint. The
// model's configured name doubles as the upstream model identifier, the
// way the desktop app has always used it.
type chatCompletionsProvider struct {
	typeName     string
	defaultURL   string
	forceURL     bool
	extraHeaders map[string]string
	modelName    func(m *models.Model) string
}

func newOpenAIProvider() Provider {
	return &chatCompletionsProvider{typeName: "openai", defaultURL: openAIDefaultURL}
}

func newDeepSeekProvider() Provider {
	return &chatCompletionsProvider{typeName: "deepseek", defaultURL: deepSeekDefaultURL}
}

func newGroqProvider() Provider {
	return &chatCompletionsProvider{typeName: "groq", defaultURL: groqDefaultURL}
}

// OpenRouter always routes through its own endpoint and expects model names
// in "provider/model" form.
func newOpenRouterProvider() Provider {
	return &chatCompletionsProvider{
		typeName:   "openrouter",
		defaultURL: openRouterURL,
		forceURL:   true,
		extraHeaders: map[string]string{
			"HTTP-Referer": openRouterReferer,
			"X-Title":      openRouterTitle,
		},
		modelName: func(m *models.Model) string {
			if m.Name == "" || !strings.Contains(m.Name, "/") {
				return openRouterFallback
			}
			return m.Name
		},
	}
}

// universal is the fallback for any OpenAI-compatible API the user points
// at; it has no default URL, so the model must configure one.
func newUniversalProvider() Provider {
	return &chatCompletionsProvider{typeName: "universal"}
}

func (p *chatCompletionsProvider) Type() string { return p.typeName }

func (p *chatCompletionsProvider) NewRequest(ctx context.Context, model *models.Model, apiKey, prompt string) (*http.Request, error) {
	url := model.APIURL
	if p.forceURL || url == "" {
		url = p.defaultURL
	}
	if url == "" {
		return nil, fmt.Errorf("%w: model %q has no API URL", apperr.ErrValidation, model.Name)
	}

	name := model.Name
	if p.modelName != nil {
		name = p.modelName(model)
	}

	body, err := json.Marshal(chatPayload{
		Model:    name,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range p.extraHeaders {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (p *chatCompletionsProvider) ParseResponse(model *models.Model, body []byte, elapsed time.Duration) (string, map[string]any, error) {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil, fmt.Errorf("decode %s response: %w", p.typeName, err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil, fmt.Errorf("%s response contained no choices", p.typeName)
	}

	upstream := parsed.Model
	if upstream == "" {
		upstream = model.Name
	}
	apiType := p.typeName
	if p.typeName == "universal" {
		apiType = strings.ToLower(model.ModelType)
	}
	metadata := map[string]any{
		"model":         upstream,
		"tokens_used":   parsed.Usage.TotalTokens,
		"response_time": float64(elapsed.Round(10*time.Millisecond)) / float64(time.Second),
		"api_type":      apiType,
	}
	if reason := parsed.Choices[0].FinishReason; reason != "" {
		metadata["finish_reason"] = reason
	}
	return parsed.Choices[0].Message.Content, metadata, nil
}
