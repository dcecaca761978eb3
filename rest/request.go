package rest

import (
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"

	"github.com/spaolacci/murmur3"
)

// Request describes one call against the provider. Treat it as immutable
// once handed to the dispatcher.
type Request struct {
	Method string
	URL    string
	Params url.Values
	// Body is sent form encoded. Repeated keys carry bulk lists.
	Body   url.Values
	Header http.Header
}

// NewRequest builds a request with an upper-cased method.
func NewRequest(method, rawURL string, params, body url.Values) *Request {
	return &Request{
		Method: strings.ToUpper(method),
		URL:    rawURL,
		Params: params,
		Body:   body,
	}
}

// BucketKey returns the serialization key for the request. Two requests
// with the same method, URL, query and body share a key.
func (r *Request) BucketKey() string {
	h := murmur3.New128()
	h.Write([]byte(strings.ToUpper(r.Method)))
	h.Write([]byte{0})
	h.Write([]byte(r.URL))
	h.Write([]byte{0})
	h.Write([]byte(r.Params.Encode()))
	h.Write([]byte{0})
	h.Write([]byte(r.Body.Encode()))
	return hex.EncodeToString(h.Sum(nil))
}

// FullURL returns the URL with the encoded query appended.
func (r *Request) FullURL() string {
	if len(r.Params) == 0 {
		return r.URL
	}
	sep := "?"
	if strings.Contains(r.URL, "?") {
		sep = "&"
	}
	return r.URL + sep + r.Params.Encode()
}

// WithHeader returns a copy of the request with the header set.
func (r *Request) WithHeader(key, value string) *Request {
	clone := *r
	clone.Header = r.Header.Clone()
	if clone.Header == nil {
		clone.Header = make(http.Header)
	}
	clone.Header.Set(key, value)
	return &clone
}
