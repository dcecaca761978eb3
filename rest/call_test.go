package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyTransport fails the first failures round trips.
type flakyTransport struct {
	failures int32
	calls    int32
	status   int
	body     string
	header   http.Header
}

var errConnReset = errors.New("connection reset by peer")

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= f.failures {
		return nil, errConnReset
	}
	header := f.header
	if header == nil {
		header = http.Header{"Content-Type": []string{"application/json; charset=utf-8"}}
	}
	return &http.Response{
		StatusCode: f.status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Request:    req,
	}, nil
}

func newTestCaller(rt http.RoundTripper) *Caller {
	return NewCaller(&http.Client{Transport: rt}, DefaultMaxRetries, 0, zerolog.Nop())
}

func TestCallerRetriesTransportErrors(t *testing.T) {
	rt := &flakyTransport{failures: 3, status: http.StatusOK, body: `{"accountId": 1}`}
	caller := newTestCaller(rt)
	metrics, err := NewMetrics(nil)
	require.NoError(t, err)
	caller.metrics = metrics

	resp, err := caller.Execute(context.Background(), NewRequest("GET", "https://example.test/accounts/1", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&rt.calls))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Retries))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.Success)

	payload, ok := resp.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("1"), payload["accountId"])
}

func TestCallerGivesUpAfterMaxRetries(t *testing.T) {
	rt := &flakyTransport{failures: 10, status: http.StatusOK}
	caller := newTestCaller(rt)
	metrics, err := NewMetrics(nil)
	require.NoError(t, err)
	caller.metrics = metrics

	_, err = caller.Execute(context.Background(), NewRequest("GET", "https://example.test/x", nil, nil))
	require.Error(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&rt.calls))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.Attempts))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Retries))
	assert.ErrorIs(t, err, errConnReset)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 4, transportErr.Attempts)
	assert.Equal(t, "https://example.test/x", transportErr.URL)
}

func TestCallerDoesNotRetryHTTPStatuses(t *testing.T) {
	rt := &flakyTransport{status: http.StatusInternalServerError, body: "oops", header: http.Header{"Content-Type": []string{"text/plain"}}}
	caller := newTestCaller(rt)

	resp, err := caller.Execute(context.Background(), NewRequest("GET", "https://example.test/x", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&rt.calls))
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.False(t, resp.Success)
	assert.Equal(t, "oops", resp.Payload)
}

func TestCallerStopsOnCancelledContext(t *testing.T) {
	rt := &flakyTransport{failures: 10, status: http.StatusOK}
	caller := newTestCaller(rt)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := caller.Execute(ctx, NewRequest("GET", "https://example.test/x", nil, nil))
	require.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, atomic.LoadInt32(&rt.calls), int32(1))
}

func TestCallerSendsFormBody(t *testing.T) {
	var got *http.Request
	var gotBody string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		got = req
		b, _ := io.ReadAll(req.Body)
		gotBody = string(b)
		return &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: io.NopCloser(strings.NewReader(""))}, nil
	})
	caller := newTestCaller(rt)

	body := url.Values{"id": []string{"1", "2"}}
	params := url.Values{"take": []string{"5"}}
	resp, err := caller.Execute(context.Background(), NewRequest("post", "https://example.test/bulk", params, body))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "take=5", got.URL.RawQuery)
	assert.Equal(t, "application/x-www-form-urlencoded", got.Header.Get("Content-Type"))
	assert.Equal(t, "id=1&id=2", gotBody)
	assert.Nil(t, resp.Payload)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestParseBody(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        any
	}{
		{name: "empty", contentType: "application/json", body: "", want: nil},
		{name: "text", contentType: "text/plain", body: "hello", want: "hello"},
		{name: "no content type", contentType: "", body: `{"a":1}`, want: `{"a":1}`},
		{name: "malformed json kept as text", contentType: "application/json", body: "{nope", want: "{nope"},
		{name: "json string", contentType: "application/problem+json", body: `"bio"`, want: "bio"},
		{name: "json list", contentType: "application/json", body: `["a","b"]`, want: []any{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.contentType != "" {
				header.Set("Content-Type", tt.contentType)
			}
			assert.Equal(t, tt.want, parseBody(header, []byte(tt.body)))
		})
	}
}
