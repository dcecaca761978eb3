package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ResultKind tells a data-bearing success apart from an empty one.
type ResultKind int

const (
	// ResultData means the payload holds the provider's answer.
	ResultData ResultKind = iota
	// ResultEmpty means the resource does not exist (404). Payload is nil.
	ResultEmpty
)

func (k ResultKind) String() string {
	if k == ResultEmpty {
		return "empty"
	}
	return "data"
}

// Response is the envelope returned for every completed exchange.
type Response struct {
	URL     string
	Status  int
	Success bool
	Header  http.Header
	// Payload is a decoded JSON value (map[string]any, []any, json.Number,
	// string, bool) for JSON bodies, the body text otherwise, or nil.
	Payload any
	Result  ResultKind
}

// IsEmpty reports whether the response carries no data.
func (r *Response) IsEmpty() bool {
	return r == nil || r.Result == ResultEmpty || r.Payload == nil
}

// Decode copies the payload into out, which must be a pointer. An empty
// response leaves out untouched.
func (r *Response) Decode(out any) error {
	if r.IsEmpty() {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			StringToTimeHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(r.Payload); err != nil {
		return fmt.Errorf("failed to decode payload from %s: %w", r.URL, err)
	}
	return nil
}

// timeLayouts are the timestamp formats the provider is known to emit.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"01/02/2006 15:04:05 PM",
	"1/2/2006 3:04:05 PM",
}

// ParseTime parses a provider timestamp. Values without a zone are UTC.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %q", value)
}

// StringToTimeHookFunc decodes provider timestamps into time.Time. Empty
// strings decode to the zero time.
func StringToTimeHookFunc() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
			return data, nil
		}
		s := reflect.ValueOf(data).String()
		if s == "" {
			return time.Time{}, nil
		}
		return ParseTime(s)
	}
}

// parseBody turns a body into a payload according to its media type.
// A JSON body that fails to decode is kept as text.
func parseBody(header http.Header, body []byte) any {
	if len(body) == 0 {
		return nil
	}
	if isJSON(header.Get("Content-Type")) {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		var payload any
		if err := dec.Decode(&payload); err == nil {
			return payload
		}
	}
	return string(body)
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
