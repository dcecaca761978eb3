package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T, opts ...Option) *Dispatcher {
	t.Helper()
	opts = append([]Option{WithAPIKey("test-key"), WithRetryDelay(0)}, opts...)
	d, err := NewDispatcher(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Stop(context.Background()) })
	return d
}

func TestDispatchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/1", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, DefaultAPIVersion, r.Header.Get("Api-Version"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"accountId": 1, "username": "coach"}`)
	}))
	defer server.Close()

	d := newTestDispatcher(t)
	resp, err := Custom(server.URL).Segment("accounts").ID(1).Get(context.Background(), d, nil)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, ResultData, resp.Result)
	assert.False(t, resp.IsEmpty())
	payload := resp.Payload.(map[string]any)
	assert.Equal(t, "coach", payload["username"])
	assert.Equal(t, DefaultRateCapacity-1, d.Budget().Remaining)
}

func TestDispatchClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		retryAfter string
		wantErr    error
		wantKind   ErrorKind
		wantCool   time.Duration
	}{
		{name: "bad request", status: 400, wantErr: ErrBadRequest, wantKind: KindBadRequest},
		{name: "unauthorized", status: 401, wantErr: ErrUnauthorized, wantKind: KindUnauthorized},
		{name: "forbidden", status: 403, wantErr: ErrForbidden, wantKind: KindForbidden},
		{name: "rate limited", status: 403, retryAfter: "30", wantErr: ErrRateLimited, wantKind: KindRateLimited, wantCool: 30 * time.Second},
		{name: "internal server error", status: 500, wantErr: ErrInternalServerError, wantKind: KindInternalServerError},
		{name: "other", status: 418, wantErr: ErrHTTP, wantKind: KindHTTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message": "nope"}`)
			}))
			defer server.Close()

			d := newTestDispatcher(t)
			resp, err := Custom(server.URL).Segment("x").Get(context.Background(), d, nil)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)

			httpErr, ok := AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, httpErr.Kind)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.wantCool, httpErr.RetryAfter)
			assert.Equal(t, map[string]any{"message": "nope"}, httpErr.Payload)
		})
	}
}

func TestDispatchNotFoundIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "not here")
	}))
	defer server.Close()

	d := newTestDispatcher(t)
	resp, err := Custom(server.URL).Segment("missing").Get(context.Background(), d, nil)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, ResultEmpty, resp.Result)
	assert.Nil(t, resp.Payload)
	assert.True(t, resp.IsEmpty())

	var out struct{ Name string }
	require.NoError(t, resp.Decode(&out))
	assert.Empty(t, out.Name)
}

func TestDispatchSerializesIdenticalRequests(t *testing.T) {
	var active, maxActive int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&active, 1)
		for {
			cur := atomic.LoadInt32(&maxActive)
			if n <= cur || atomic.CompareAndSwapInt32(&maxActive, cur, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := newTestDispatcher(t)
	route := Custom(server.URL).Segment("same")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := route.Get(context.Background(), d, url.Values{"q": {"a"}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive))
	assert.Equal(t, 0, d.buckets.Len())
}

func TestDispatchDistinctRequestsOverlap(t *testing.T) {
	var active, maxActive int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&active, 1)
		for {
			cur := atomic.LoadInt32(&maxActive)
			if n <= cur || atomic.CompareAndSwapInt32(&maxActive, cur, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&active, -1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := newTestDispatcher(t)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Custom(server.URL).ID(int64(i)).Get(context.Background(), d, nil)
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&active) == 3 }, 2*time.Second, time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(3), atomic.LoadInt32(&maxActive))
}

func TestDispatchRateBudgetBlocksAfterCapacity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	clock := newFakeClock()
	d := newTestDispatcher(t, WithRateLimit(3, time.Minute), WithClock(clock))
	route := Custom(server.URL)

	for i := 0; i < 3; i++ {
		_, err := route.ID(int64(i)).Get(context.Background(), d, nil)
		require.NoError(t, err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := route.ID(99).Get(context.Background(), d, nil)
		done <- err
	}()

	require.Eventually(t, func() bool { return clock.Waiters() == 1 }, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("fourth call dispatched inside a spent window")
	default:
	}

	clock.Advance(time.Minute)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("fourth call not dispatched after window reset")
	}
}

func TestDispatchRetriesDroppedConnections(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			hj, ok := w.(http.Hijacker)
			if !assert.True(t, ok) {
				return
			}
			conn, _, err := hj.Hijack()
			if assert.NoError(t, err) {
				conn.Close()
			}
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := newTestDispatcher(t)
	resp, err := Custom(server.URL).Segment("flaky").Get(context.Background(), d, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestStopWaitsForInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			close(started)
			<-release
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := newTestDispatcher(t)

	result := make(chan error, 1)
	go func() {
		_, err := Custom(server.URL).Segment("slow").Get(context.Background(), d, nil)
		result <- err
	}()
	<-started

	stopped := make(chan error, 1)
	go func() {
		stopped <- d.Stop(context.Background())
	}()

	require.Eventually(t, func() bool {
		_, err := Custom(server.URL).Segment("late").Get(context.Background(), d, nil)
		return err == ErrStopped
	}, time.Second, time.Millisecond)

	select {
	case <-stopped:
		t.Fatal("Stop returned before in-flight call finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-result)
	require.NoError(t, <-stopped)
	require.NoError(t, d.Stop(context.Background()))
}

func TestStopHonorsContext(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	}))
	defer server.Close()
	defer close(release)

	d, err := NewDispatcher(WithRetryDelay(0))
	require.NoError(t, err)

	go func() {
		_, _ = Custom(server.URL).Get(context.Background(), d, nil)
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)
}

func TestDispatcherMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	d := newTestDispatcher(t, WithRegisterer(reg), WithRateLimit(10, time.Minute))

	_, err := Custom(server.URL).Segment("ok").Get(context.Background(), d, nil)
	require.NoError(t, err)
	_, err = Custom(server.URL).Segment("missing").Get(context.Background(), d, nil)
	require.NoError(t, err)

	m := d.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dispatches.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dispatches.WithLabelValues("empty")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Attempts))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.BudgetRemaining))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Buckets))

	// A second dispatcher on the same registry reuses the collectors.
	_, err = NewDispatcher(WithRegisterer(reg))
	require.NoError(t, err)
}
