package recnet

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/recnetbot/recnet/rest"
)

// Client represents a RecNet API client
type Client struct {
	dispatcher  *rest.Dispatcher
	hosts       rest.Hosts
	logger      zerolog.Logger
	concurrency int

	Accounts   *AccountManager
	Rooms      *RoomManager
	Events     *EventManager
	Images     *ImageManager
	Inventions *InventionManager
}

// NewClient creates a new RecNet client
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	o := clientOptions{
		hosts:       rest.DefaultHosts(),
		concurrency: DefaultConcurrency,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	dispatcher, err := rest.NewDispatcher(append([]rest.Option{rest.WithAPIKey(apiKey)}, o.rest...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	c := &Client{
		dispatcher:  dispatcher,
		hosts:       o.hosts,
		logger:      o.logger,
		concurrency: o.concurrency,
	}
	c.Accounts = &AccountManager{client: c}
	c.Rooms = &RoomManager{client: c}
	c.Events = &EventManager{client: c}
	c.Images = &ImageManager{client: c}
	c.Inventions = &InventionManager{client: c}

	return c, nil
}

// Close waits for in-flight calls and releases pooled connections.
func (c *Client) Close(ctx context.Context) error {
	return c.dispatcher.Stop(ctx)
}

// Dispatcher returns the underlying dispatcher for custom routes.
func (c *Client) Dispatcher() *rest.Dispatcher {
	return c.dispatcher
}

// Hosts returns the base URLs in use.
func (c *Client) Hosts() rest.Hosts {
	return c.hosts
}

// fetchOne dispatches req and decodes a single record. A missing resource
// returns nil without error.
func fetchOne[T any](ctx context.Context, d *rest.Dispatcher, req *rest.Request) (*T, error) {
	resp, err := d.Dispatch(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.IsEmpty() {
		return nil, nil
	}
	if m, ok := resp.Payload.(map[string]any); ok && len(m) == 0 {
		return nil, nil
	}

	var out T
	if err := resp.Decode(&out); err != nil {
		return nil, &PayloadError{Endpoint: req.URL, Err: err}
	}
	return &out, nil
}

// fetchList dispatches req and decodes a list of records. A missing
// resource returns an empty list.
func fetchList[T any](ctx context.Context, d *rest.Dispatcher, req *rest.Request) ([]T, error) {
	resp, err := d.Dispatch(ctx, req)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if resp.IsEmpty() {
		return out, nil
	}
	if err := resp.Decode(&out); err != nil {
		return nil, &PayloadError{Endpoint: req.URL, Err: err}
	}
	return out, nil
}

// fetchResults decodes list endpoints that wrap records in {"Results": [...]}.
func fetchResults[T any](ctx context.Context, d *rest.Dispatcher, req *rest.Request) ([]T, error) {
	page, err := fetchOne[struct {
		Results []T `json:"Results"`
	}](ctx, d, req)
	if err != nil {
		return nil, err
	}
	if page == nil || page.Results == nil {
		return []T{}, nil
	}
	return page.Results, nil
}

// paging builds take/skip query values, adding sort when it is set.
func paging(take, skip int, sort ...int) url.Values {
	params := url.Values{}
	params.Set("take", strconv.Itoa(take))
	params.Set("skip", strconv.Itoa(skip))
	if len(sort) > 0 {
		params.Set("sort", strconv.Itoa(sort[0]))
	}
	return params
}

// idValues encodes ids as a repeated form key.
func idValues(key string, ids []int64) url.Values {
	values := url.Values{}
	for _, id := range ids {
		values.Add(key, strconv.FormatInt(id, 10))
	}
	return values
}

// stringValues encodes names as a repeated form key.
func stringValues(key string, names []string) url.Values {
	values := url.Values{}
	for _, name := range names {
		values.Add(key, name)
	}
	return values
}
