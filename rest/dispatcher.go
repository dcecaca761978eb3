package rest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dispatcher serializes, rate-gates, executes and classifies calls. One
// Dispatcher owns one connection pool, one rate budget and one bucket
// registry.
type Dispatcher struct {
	caller     *Caller
	budget     *RateBudget
	buckets    *BucketSerializer
	httpClient *http.Client
	metrics    *Metrics
	logger     zerolog.Logger

	apiKey     string
	apiVersion string
	userAgent  string

	mu       sync.RWMutex
	stopped  bool
	inFlight sync.WaitGroup
	stopOnce sync.Once
	stopErr  error
}

// NewDispatcher creates a dispatcher with the given options.
func NewDispatcher(opts ...Option) (*Dispatcher, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	metrics, err := NewMetrics(o.registerer)
	if err != nil {
		return nil, err
	}

	budget, err := NewRateBudget(o.capacity, o.window, o.clock, o.logger)
	if err != nil {
		return nil, err
	}
	budget.metrics = metrics
	metrics.BudgetRemaining.Set(float64(o.capacity))

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = newHTTPClient(o.maxConnections, o.timeout)
	}

	caller := NewCaller(httpClient, o.maxRetries, o.retryDelay, o.logger)
	caller.metrics = metrics

	buckets := NewBucketSerializer()
	buckets.metrics = metrics

	return &Dispatcher{
		caller:     caller,
		budget:     budget,
		buckets:    buckets,
		httpClient: httpClient,
		metrics:    metrics,
		logger:     o.logger,
		apiKey:     o.apiKey,
		apiVersion: o.apiVersion,
		userAgent:  o.userAgent,
	}, nil
}

// Dispatch runs req through the bucket lock, the rate budget and the call
// unit, then classifies the status. 2xx returns a data response, 404 an
// empty one; every other status returns an *HTTPError.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	if !d.enter() {
		return nil, ErrStopped
	}
	defer d.inFlight.Done()

	start := time.Now()
	req = d.decorate(req)
	key := req.BucketKey()
	log := d.logger.With().
		Str("request_id", uuid.NewString()).
		Str("method", req.Method).
		Str("url", req.URL).
		Str("bucket", key).
		Logger()

	var resp *Response
	err := d.buckets.Do(ctx, key, func() error {
		if err := d.budget.Admit(ctx); err != nil {
			return err
		}
		log.Debug().Msg("Dispatching request")
		r, err := d.caller.Execute(ctx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	d.metrics.Duration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		d.metrics.Dispatches.WithLabelValues("transport_error").Inc()
		log.Debug().Err(err).Msg("Request failed")
		return nil, err
	}

	kind := Classify(resp.Status, resp.Header)
	if kind != KindNone {
		d.metrics.Dispatches.WithLabelValues(kind.String()).Inc()
		httpErr := newHTTPError(kind, resp)
		log.Debug().
			Int("status", resp.Status).
			Str("kind", kind.String()).
			Msg("Request returned error status")
		return nil, httpErr
	}

	if resp.Status == http.StatusNotFound {
		resp.Success = true
		resp.Payload = nil
		resp.Result = ResultEmpty
		d.metrics.Dispatches.WithLabelValues("empty").Inc()
	} else {
		d.metrics.Dispatches.WithLabelValues("success").Inc()
	}

	log.Debug().Int("status", resp.Status).Msg("Request completed")
	return resp, nil
}

// Stop rejects new dispatches, waits for in-flight ones to finish or ctx to
// end, then closes idle pooled connections. Later calls return the first
// result.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		d.mu.Unlock()

		done := make(chan struct{})
		go func() {
			d.inFlight.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			d.stopErr = ctx.Err()
		}
		d.httpClient.CloseIdleConnections()
		d.logger.Debug().Err(d.stopErr).Msg("Dispatcher stopped")
	})
	return d.stopErr
}

// Budget returns a snapshot of the rate budget.
func (d *Dispatcher) Budget() BudgetSnapshot {
	return d.budget.Snapshot()
}

// Metrics returns the dispatcher collectors.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// enter registers an in-flight dispatch unless the dispatcher is stopped.
func (d *Dispatcher) enter() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return false
	}
	d.inFlight.Add(1)
	return true
}

// decorate returns req with the credential and client headers applied.
// Headers already present on req win.
func (d *Dispatcher) decorate(req *Request) *Request {
	out := *req
	out.Header = req.Header.Clone()
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	if d.apiKey != "" && out.Header.Get("Ocp-Apim-Subscription-Key") == "" {
		out.Header.Set("Ocp-Apim-Subscription-Key", d.apiKey)
	}
	if d.apiVersion != "" && out.Header.Get("Api-Version") == "" {
		out.Header.Set("Api-Version", d.apiVersion)
	}
	if d.userAgent != "" && out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", d.userAgent)
	}
	return &out
}
