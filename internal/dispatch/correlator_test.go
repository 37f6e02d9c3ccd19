package dispatch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatlist/internal/providers"
)

func TestCorrelate_Success(t *testing.T) {
	c := NewCorrelator(providers.NewRegistry())

	model := universalModel(4, "local-llm", "http://localhost:8080/v1")
	outcome := Outcome{
		DispatchID: "d-1",
		Model:      model,
		RawBody:    []byte(chatBody("the answer")),
		StatusCode: 200,
		Latency:    800 * time.Millisecond,
	}

	result, failure := c.Correlate(12, outcome)
	require.Nil(t, failure)
	require.NotNil(t, result)
	assert.Equal(t, uint(12), result.PromptID)
	assert.Equal(t, uint(4), result.ModelID)
	assert.Equal(t, "the answer", result.Response)

	metadata := result.MetadataMap()
	require.NotNil(t, metadata)
	assert.Equal(t, "local-llm", metadata["model"])
	assert.EqualValues(t, 7, metadata["tokens_used"])
}

func TestCorrelate_FailedOutcomePassesThrough(t *testing.T) {
	c := NewCorrelator(providers.NewRegistry())

	callErr := errors.New("connection refused")
	outcome := Outcome{
		DispatchID: "d-2",
		Model:      universalModel(4, "local-llm", "http://localhost:8080/v1"),
		Err:        callErr,
	}

	result, failure := c.Correlate(12, outcome)
	assert.Nil(t, result)
	require.NotNil(t, failure)
	assert.Equal(t, "d-2", failure.DispatchID)
	assert.Equal(t, uint(4), failure.ModelID)
	assert.Equal(t, "local-llm", failure.ModelName)
	assert.ErrorIs(t, failure.Err, callErr)
	assert.Equal(t, "connection refused", failure.Diagnostic)
}

func TestCorrelate_MalformedBodyBecomesFailure(t *testing.T) {
	c := NewCorrelator(providers.NewRegistry())

	outcome := Outcome{
		DispatchID: "d-3",
		Model:      universalModel(4, "local-llm", "http://localhost:8080/v1"),
		RawBody:    []byte("<html>gateway error</html>"),
		StatusCode: 200,
	}

	result, failure := c.Correlate(12, outcome)
	assert.Nil(t, result)
	require.NotNil(t, failure)
	assert.NotEmpty(t, failure.Diagnostic)
}

func TestCorrelationFailure_AsResult(t *testing.T) {
	failure := CorrelationFailure{
		DispatchID: "d-4",
		ModelID:    9,
		ModelName:  "m",
		Diagnostic: "timed out",
	}

	result := failure.AsResult(3)
	assert.Equal(t, uint(3), result.PromptID)
	assert.Equal(t, uint(9), result.ModelID)
	assert.Equal(t, "ERROR: timed out", result.Response)
}
