package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
	"chatlist/internal/providers"
)

type staticResolver struct {
	keys map[string]string
}

func (r *staticResolver) Resolve(ref string) (string, error) {
	if key, ok := r.keys[ref]; ok {
		return key, nil
	}
	return "", fmt.Errorf("%q: %w", ref, apperr.ErrMissingCredential)
}

func chatBody(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"content":%q},"finish_reason":"stop"}],"usage":{"total_tokens":7}}`, content)
}

func newTestDispatcher(keys map[string]string) *Dispatcher {
	return NewDispatcher(providers.NewRegistry(), &staticResolver{keys: keys}, zap.NewNop())
}

func universalModel(id uint, name, url string) models.Model {
	return models.Model{
		ID:        id,
		Name:      name,
		APIURL:    url,
		APIID:     "TEST_KEY",
		ModelType: "universal",
		IsActive:  true,
	}
}

func collect(ch <-chan Outcome) []Outcome {
	var outcomes []Outcome
	for o := range ch {
		outcomes = append(outcomes, o)
	}
	return outcomes
}

func TestDispatch_OneOutcomePerModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Model string `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, chatBody("answer from "+payload.Model))
	}))
	defer srv.Close()

	d := newTestDispatcher(map[string]string{"TEST_KEY": "secret"})
	targets := []models.Model{
		universalModel(1, "alpha", srv.URL),
		universalModel(2, "beta", srv.URL),
		universalModel(3, "gamma", srv.URL),
	}

	outcomes := collect(d.Dispatch(context.Background(), "hello", targets, time.Minute))
	require.Len(t, outcomes, 3)

	seen := map[uint]Outcome{}
	for _, o := range outcomes {
		assert.True(t, o.OK(), "model %s: %v", o.Model.Name, o.Err)
		assert.NotEmpty(t, o.DispatchID)
		seen[o.Model.ID] = o
	}
	assert.Len(t, seen, 3)

	// All outcomes belong to the same dispatch.
	for _, o := range outcomes {
		assert.Equal(t, outcomes[0].DispatchID, o.DispatchID)
	}
}

func TestDispatch_SlowModelDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		fmt.Fprint(w, chatBody("late"))
	}))
	defer slow.Close()
	defer close(release)

	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatBody("quick"))
	}))
	defer fast.Close()

	d := newTestDispatcher(map[string]string{"TEST_KEY": "secret"})
	targets := []models.Model{
		universalModel(1, "slow", slow.URL),
		universalModel(2, "fast", fast.URL),
	}

	out := d.Dispatch(context.Background(), "hello", targets, 5*time.Second)

	select {
	case first := <-out:
		assert.Equal(t, uint(2), first.Model.ID)
		assert.True(t, first.OK())
	case <-time.After(2 * time.Second):
		t.Fatal("fast model outcome was held back by the slow one")
	}
}

// hangHandler never responds. The body must be drained before blocking so
// the server notices the client going away and releases the connection.
func hangHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	})
}

func TestDispatch_TimeoutIsIsolated(t *testing.T) {
	hang := httptest.NewServer(hangHandler())
	defer hang.Close()

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatBody("fine"))
	}))
	defer ok.Close()

	d := newTestDispatcher(map[string]string{"TEST_KEY": "secret"})
	targets := []models.Model{
		universalModel(1, "hanging", hang.URL),
		universalModel(2, "healthy", ok.URL),
	}

	outcomes := collect(d.Dispatch(context.Background(), "hello", targets, 200*time.Millisecond))
	require.Len(t, outcomes, 2)

	byID := map[uint]Outcome{}
	for _, o := range outcomes {
		byID[o.Model.ID] = o
	}
	assert.ErrorIs(t, byID[1].Err, apperr.ErrTimeout)
	assert.True(t, byID[2].OK())
}

func TestDispatch_MissingCredentialFailsWithoutNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	d := newTestDispatcher(nil)
	targets := []models.Model{universalModel(1, "m", srv.URL)}

	outcomes := collect(d.Dispatch(context.Background(), "hello", targets, time.Minute))
	require.Len(t, outcomes, 1)
	assert.ErrorIs(t, outcomes[0].Err, apperr.ErrMissingCredential)
	assert.False(t, called)
}

func TestDispatch_RemoteErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limit exceeded"}}`)
	}))
	defer srv.Close()

	d := newTestDispatcher(map[string]string{"TEST_KEY": "secret"})
	targets := []models.Model{universalModel(1, "m", srv.URL)}

	outcomes := collect(d.Dispatch(context.Background(), "hello", targets, time.Minute))
	require.Len(t, outcomes, 1)

	var remote *apperr.RemoteError
	require.ErrorAs(t, outcomes[0].Err, &remote)
	assert.Equal(t, http.StatusTooManyRequests, remote.StatusCode)
	assert.Contains(t, remote.Body, "rate limit exceeded")
}

func TestDispatch_CancelledContextClosesChannel(t *testing.T) {
	hang := httptest.NewServer(hangHandler())
	defer hang.Close()

	d := newTestDispatcher(map[string]string{"TEST_KEY": "secret"})
	targets := []models.Model{universalModel(1, "m", hang.URL)}

	ctx, cancel := context.WithCancel(context.Background())
	out := d.Dispatch(ctx, "hello", targets, time.Minute)
	cancel()

	select {
	case _, open := <-out:
		if open {
			// A raced-in outcome is fine; the channel must still close.
			_, open = <-out
			assert.False(t, open)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("outcome channel did not close after cancellation")
	}
}

func TestDispatch_UnsupportedTypeFails(t *testing.T) {
	d := newTestDispatcher(map[string]string{"TEST_KEY": "secret"})
	target := universalModel(1, "m", "http://127.0.0.1:0")
	target.ModelType = "unknown"

	outcomes := collect(d.Dispatch(context.Background(), "hello", []models.Model{target}, time.Minute))
	require.Len(t, outcomes, 1)
	assert.ErrorIs(t, outcomes[0].Err, apperr.ErrUnsupportedModelType)
}
