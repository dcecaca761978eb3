package recnet

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/recnetbot/recnet/rest"
)

// InventionManager fetches inventions.
type InventionManager struct {
	client *Client
}

func (m *InventionManager) route() rest.Route {
	return rest.NewRoute(m.client.hosts.APIM).Segment("inventions")
}

// Fetch returns the invention with the given id, or nil if none exists.
func (m *InventionManager) Fetch(ctx context.Context, id int64) (*Invention, error) {
	params := url.Values{"inventionId": {strconv.FormatInt(id, 10)}}
	req := m.route().Segment("v1").Request(http.MethodGet, params, nil)
	return fetchOne[Invention](ctx, m.client.dispatcher, req)
}

// Search returns inventions matching query.
func (m *InventionManager) Search(ctx context.Context, query string, take int) ([]Invention, error) {
	params := url.Values{}
	params.Set("value", query)
	params.Set("take", strconv.Itoa(take))
	req := m.route().Segments("v2", "search").Request(http.MethodGet, params, nil)
	return fetchList[Invention](ctx, m.client.dispatcher, req)
}

// Featured returns featured inventions.
func (m *InventionManager) Featured(ctx context.Context, take, skip int) ([]Invention, error) {
	req := m.route().Segments("v1", "featured").Request(http.MethodGet, paging(take, skip), nil)
	return fetchList[Invention](ctx, m.client.dispatcher, req)
}

// TopToday returns today's most popular inventions.
func (m *InventionManager) TopToday(ctx context.Context) ([]Invention, error) {
	req := m.route().Segments("v1", "toptoday").Request(http.MethodGet, nil, nil)
	return fetchList[Invention](ctx, m.client.dispatcher, req)
}
