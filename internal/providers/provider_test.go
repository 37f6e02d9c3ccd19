package providers

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
)

func TestRegistry_For(t *testing.T) {
	registry := NewRegistry()

	for _, typ := range []string{"openai", "deepseek", "groq", "openrouter", "universal"} {
		p, err := registry.For(typ)
		assert.NoError(t, err)
		assert.Equal(t, typ, p.Type())
	}

	p, err := registry.For("  OpenAI ")
	assert.NoError(t, err)
	assert.Equal(t, "openai", p.Type())
}

func TestRegistry_For_Unsupported(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.For("anthropic")
	assert.ErrorIs(t, err, apperr.ErrUnsupportedModelType)
}

func TestRegistry_SupportedTypes(t *testing.T) {
	registry := NewRegistry()
	assert.Equal(t, []string{"deepseek", "groq", "openai", "openrouter", "universal"}, registry.SupportedTypes())
}

func TestNewRequest_PayloadAndAuth(t *testing.T) {
	registry := NewRegistry()
	p, err := registry.For("openai")
	require.NoError(t, err)

	model := models.Model{
		Name:      "gpt-4o",
		APIURL:    "https://example.test/v1/chat/completions",
		ModelType: "openai",
	}
	req, err := p.NewRequest(context.Background(), &model, "sk-test", "why is the sky blue")
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://example.test/v1/chat/completions", req.URL.String())
	assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	var payload struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "gpt-4o", payload.Model)
	require.Len(t, payload.Messages, 1)
	assert.Equal(t, "user", payload.Messages[0].Role)
	assert.Equal(t, "why is the sky blue", payload.Messages[0].Content)
}

func TestNewRequest_EmptyURLUsesDefault(t *testing.T) {
	registry := NewRegistry()
	p, err := registry.For("groq")
	require.NoError(t, err)

	model := models.Model{Name: "llama-3.1-8b-instant", ModelType: "groq"}
	req, err := p.NewRequest(context.Background(), &model, "gsk-test", "hi")
	require.NoError(t, err)
	assert.Equal(t, "https://api.groq.com/openai/v1/chat/completions", req.URL.String())
}

func TestNewRequest_OpenRouter(t *testing.T) {
	registry := NewRegistry()
	p, err := registry.For("openrouter")
	require.NoError(t, err)

	// The configured URL is ignored; OpenRouter traffic always goes to its
	// own endpoint.
	model := models.Model{
		Name:      "mistralai/mistral-7b-instruct",
		APIURL:    "https://example.test/ignored",
		ModelType: "openrouter",
	}
	req, err := p.NewRequest(context.Background(), &model, "or-test", "hi")
	require.NoError(t, err)
	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", req.URL.String())
	assert.NotEmpty(t, req.Header.Get("HTTP-Referer"))
	assert.Equal(t, "ChatList", req.Header.Get("X-Title"))
}

func TestNewRequest_OpenRouterNameFallback(t *testing.T) {
	registry := NewRegistry()
	p, err := registry.For("openrouter")
	require.NoError(t, err)

	model := models.Model{Name: "my-router-model", ModelType: "openrouter"}
	req, err := p.NewRequest(context.Background(), &model, "or-test", "hi")
	require.NoError(t, err)

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	var payload chatPayload
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "openai/gpt-3.5-turbo", payload.Model)
}

func TestNewRequest_UniversalRequiresURL(t *testing.T) {
	registry := NewRegistry()
	p, err := registry.For("universal")
	require.NoError(t, err)

	model := models.Model{Name: "local-llm", ModelType: "universal"}
	_, err = p.NewRequest(context.Background(), &model, "key", "hi")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestParseResponse(t *testing.T) {
	registry := NewRegistry()
	p, err := registry.For("openai")
	require.NoError(t, err)

	body := []byte(`{
		"model": "gpt-4o-2024-08-06",
		"choices": [{"message": {"content": "Rayleigh scattering."}, "finish_reason": "stop"}],
		"usage": {"total_tokens": 42}
	}`)
	model := models.Model{Name: "gpt-4o", ModelType: "openai"}

	text, metadata, err := p.ParseResponse(&model, body, 1230*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "Rayleigh scattering.", text)
	assert.Equal(t, "gpt-4o-2024-08-06", metadata["model"])
	assert.Equal(t, 42, metadata["tokens_used"])
	assert.Equal(t, 1.23, metadata["response_time"])
	assert.Equal(t, "openai", metadata["api_type"])
	assert.Equal(t, "stop", metadata["finish_reason"])
}

func TestParseResponse_NoChoices(t *testing.T) {
	registry := NewRegistry()
	p, err := registry.For("openai")
	require.NoError(t, err)

	model := models.Model{Name: "gpt-4o", ModelType: "openai"}
	_, _, err = p.ParseResponse(&model, []byte(`{"choices": []}`), time.Second)
	assert.Error(t, err)

	_, _, err = p.ParseResponse(&model, []byte(`not json`), time.Second)
	assert.Error(t, err)
}

func TestParseResponse_ModelNameFallback(t *testing.T) {
	registry := NewRegistry()
	p, err := registry.For("universal")
	require.NoError(t, err)

	body := []byte(`{"choices": [{"message": {"content": "ok"}}]}`)
	model := models.Model{Name: "local-llm", APIURL: "http://localhost:8080/v1/chat/completions", ModelType: "universal"}

	_, metadata, err := p.ParseResponse(&model, body, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "local-llm", metadata["model"])
	assert.Equal(t, "universal", metadata["api_type"])
}
