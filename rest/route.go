package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Route builds a provider URL one path segment at a time. Every method
// returns a new Route so a base can be shared.
type Route struct {
	base     string
	segments []string
	header   http.Header
}

// NewRoute starts a route at base. The base is expected to end in a slash.
func NewRoute(base string) Route {
	return Route{base: base}
}

// Segment appends one path segment.
func (r Route) Segment(name string) Route {
	next := r.clone()
	next.segments = append(next.segments, name)
	return next
}

// ID appends a numeric path segment.
func (r Route) ID(id int64) Route {
	return r.Segment(strconv.FormatInt(id, 10))
}

// Segments appends each value formatted with %v.
func (r Route) Segments(values ...any) Route {
	next := r.clone()
	for _, v := range values {
		next.segments = append(next.segments, fmt.Sprint(v))
	}
	return next
}

// WithHeader sets a header on every request built from the route.
func (r Route) WithHeader(key, value string) Route {
	next := r.clone()
	if next.header == nil {
		next.header = make(http.Header)
	}
	next.header.Set(key, value)
	return next
}

// URL returns the base joined with the segments.
func (r Route) URL() string {
	return r.base + strings.Join(r.segments, "/")
}

// Request builds the terminal request descriptor.
func (r Route) Request(method string, params, body url.Values) *Request {
	req := NewRequest(method, r.URL(), params, body)
	if len(r.header) > 0 {
		req.Header = r.header.Clone()
	}
	return req
}

// Do builds the request and dispatches it.
func (r Route) Do(ctx context.Context, d *Dispatcher, method string, params, body url.Values) (*Response, error) {
	return d.Dispatch(ctx, r.Request(method, params, body))
}

// Get dispatches a GET request.
func (r Route) Get(ctx context.Context, d *Dispatcher, params url.Values) (*Response, error) {
	return r.Do(ctx, d, http.MethodGet, params, nil)
}

// Post dispatches a POST request with a form body.
func (r Route) Post(ctx context.Context, d *Dispatcher, params, body url.Values) (*Response, error) {
	return r.Do(ctx, d, http.MethodPost, params, body)
}

func (r Route) clone() Route {
	next := Route{base: r.base, header: r.header}
	next.segments = append(make([]string, 0, len(r.segments)+1), r.segments...)
	if r.header != nil {
		next.header = r.header.Clone()
	}
	return next
}

// Hosts names the provider base URLs.
type Hosts struct {
	APIM      string
	API       string
	Accounts  string
	Rooms     string
	Events    string
	Images    string
	Clubs     string
	CDN       string
	Namespace string
}

// DefaultHosts returns the production base URLs.
func DefaultHosts() Hosts {
	return Hosts{
		APIM:      "https://apim.rec.net/public/",
		API:       "https://api.rec.net/api/",
		Accounts:  "https://apim.rec.net/public/accounts/",
		Rooms:     "https://apim.rec.net/public/rooms/",
		Events:    "https://apim.rec.net/public/playerevents/",
		Images:    "https://apim.rec.net/public/images/",
		Clubs:     "https://clubs.rec.net/",
		CDN:       "https://cdn.rec.net/",
		Namespace: "https://ns.rec.net/",
	}
}

// HostsAt points every base at one server, keeping the production paths.
// Used for tests and proxies.
func HostsAt(server string) Hosts {
	server = strings.TrimSuffix(server, "/")
	return Hosts{
		APIM:      server + "/public/",
		API:       server + "/api/",
		Accounts:  server + "/public/accounts/",
		Rooms:     server + "/public/rooms/",
		Events:    server + "/public/playerevents/",
		Images:    server + "/public/images/",
		Clubs:     server + "/clubs/",
		CDN:       server + "/cdn/",
		Namespace: server + "/ns/",
	}
}

// Custom starts a route at an arbitrary base, adding a trailing slash.
func Custom(base string) Route {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return NewRoute(base)
}
