// Package dispatch fans one prompt out to every active model concurrently
// and correlates each outcome back to its (prompt, model) pair.
package dispatch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatlist/internal/apperr"
	"chatlist/internal/credentials"
	"chatlist/internal/models"
	"chatlist/internal/providers"
)

// DefaultTimeout applies when the settings table has no default_timeout.
const DefaultTimeout = 60 * time.Second

// maxDiagnosticBytes caps the error-body snippet carried in failures.
const maxDiagnosticBytes = 2048

// Outcome is the result of exactly one call attempt for one model. Err is
// nil on success; on failure it wraps one of the apperr kinds.
type Outcome struct {
	DispatchID string
	Model      models.Model
	RawBody    []byte
	StatusCode int
	Latency    time.Duration
	Err        error
}

// OK reports whether the call produced a usable response body.
func (o Outcome) OK() bool { return o.Err == nil }

// Dispatcher issues one outbound call per (prompt, model) pair. Each call
// gets its own timeout and its failure never delays or aborts the others.
type Dispatcher struct {
	registry *providers.Registry
	creds    credentials.Resolver
	client   *http.Client
	logger   *zap.Logger
}

func NewDispatcher(registry *providers.Registry, creds credentials.Resolver, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		creds:    creds,
		// The transport pool is shared; per-call deadlines come from the
		// dispatch context, not a client-wide timeout.
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// Dispatch sends the prompt to every given model concurrently and streams
// outcomes as calls complete, exactly one per model, in completion order.
// The channel closes once all outcomes are delivered or ctx is cancelled;
// cancellation abandons in-flight calls without delivering their outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt string, targets []models.Model, timeout time.Duration) <-chan Outcome {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dispatchID := uuid.NewString()
	out := make(chan Outcome, len(targets))

	var wg sync.WaitGroup
	for _, target := range targets {
		wg.Add(1)
		go func(m models.Model) {
			defer wg.Done()
			o := d.call(ctx, dispatchID, m, prompt, timeout)
			select {
			case out <- o:
			case <-ctx.Done():
			}
		}(target)
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	d.logger.Info("dispatch started",
		zap.String("dispatch_id", dispatchID),
		zap.Int("models", len(targets)),
		zap.Duration("timeout", timeout))
	return out
}

// call performs a single attempt. A credential that cannot be resolved
// fails before any network I/O.
func (d *Dispatcher) call(ctx context.Context, dispatchID string, model models.Model, prompt string, timeout time.Duration) Outcome {
	o := Outcome{DispatchID: dispatchID, Model: model}

	apiKey, err := d.creds.Resolve(model.APIID)
	if err != nil {
		o.Err = err
		return o
	}

	provider, err := d.registry.For(model.ModelType)
	if err != nil {
		o.Err = err
		return o
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := provider.NewRequest(callCtx, &model, apiKey, prompt)
	if err != nil {
		o.Err = err
		return o
	}

	start := time.Now()
	resp, err := d.client.Do(req)
	o.Latency = time.Since(start)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			o.Err = apperr.ErrTimeout
		} else {
			o.Err = err
		}
		d.logger.Warn("model call failed",
			zap.String("dispatch_id", dispatchID),
			zap.String("model", model.Name),
			zap.Error(o.Err))
		return o
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	o.Latency = time.Since(start)
	if err != nil {
		o.Err = err
		return o
	}
	o.StatusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		o.Err = &apperr.RemoteError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxDiagnosticBytes),
		}
		d.logger.Warn("model returned error status",
			zap.String("dispatch_id", dispatchID),
			zap.String("model", model.Name),
			zap.Int("status", resp.StatusCode))
		return o
	}

	o.RawBody = body
	d.logger.Debug("model call succeeded",
		zap.String("dispatch_id", dispatchID),
		zap.String("model", model.Name),
		zap.Duration("latency", o.Latency))
	return o
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
