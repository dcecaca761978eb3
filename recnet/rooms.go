package recnet

import (
	"context"
	"net/http"
	"net/url"

	"github.com/recnetbot/recnet/rest"
)

// RoomManager fetches rooms.
type RoomManager struct {
	client *Client
}

func (m *RoomManager) route() rest.Route {
	return rest.NewRoute(m.client.hosts.Rooms)
}

// Get returns the room with the given name, or nil if none exists.
func (m *RoomManager) Get(ctx context.Context, name string) (*Room, error) {
	req := m.route().Request(http.MethodGet, url.Values{"name": {name}}, nil)
	return fetchOne[Room](ctx, m.client.dispatcher, req)
}

// Fetch returns the room with the given id, or nil if none exists.
func (m *RoomManager) Fetch(ctx context.Context, id int64) (*Room, error) {
	req := m.route().ID(id).Request(http.MethodGet, nil, nil)
	return fetchOne[Room](ctx, m.client.dispatcher, req)
}

// GetMany returns the rooms with the given names. Unknown names are skipped.
func (m *RoomManager) GetMany(ctx context.Context, names []string) ([]Room, error) {
	if len(names) == 0 {
		return []Room{}, nil
	}
	req := m.route().Segment("bulk").Request(http.MethodPost, nil, stringValues("name", names))
	return fetchList[Room](ctx, m.client.dispatcher, req)
}

// FetchMany returns the rooms for the given ids. Unknown ids are skipped.
func (m *RoomManager) FetchMany(ctx context.Context, ids []int64) ([]Room, error) {
	if len(ids) == 0 {
		return []Room{}, nil
	}
	req := m.route().Segment("bulk").Request(http.MethodPost, nil, idValues("id", ids))
	return fetchList[Room](ctx, m.client.dispatcher, req)
}

// FetchEach fetches the ids one call at a time with bounded concurrency.
func (m *RoomManager) FetchEach(ctx context.Context, ids []int64) ([]Room, error) {
	return fetchEach(ctx, m.client, ids, m.Fetch)
}

// Search returns rooms matching query.
func (m *RoomManager) Search(ctx context.Context, query string, take, skip int) ([]Room, error) {
	params := paging(take, skip)
	params.Set("query", query)
	req := m.route().Segment("search").Request(http.MethodGet, params, nil)
	return fetchResults[Room](ctx, m.client.dispatcher, req)
}

// CreatedBy returns rooms created by an account.
func (m *RoomManager) CreatedBy(ctx context.Context, accountID int64) ([]Room, error) {
	req := m.route().Segment("createdby").ID(accountID).Request(http.MethodGet, nil, nil)
	return fetchList[Room](ctx, m.client.dispatcher, req)
}

// OwnedBy returns rooms owned by an account.
func (m *RoomManager) OwnedBy(ctx context.Context, accountID int64) ([]Room, error) {
	req := m.route().Segment("ownedby").ID(accountID).Request(http.MethodGet, nil, nil)
	return fetchList[Room](ctx, m.client.dispatcher, req)
}

// Hot returns the currently trending rooms.
func (m *RoomManager) Hot(ctx context.Context, take, skip int) ([]Room, error) {
	req := m.route().Segment("hot").Request(http.MethodGet, paging(take, skip), nil)
	return fetchResults[Room](ctx, m.client.dispatcher, req)
}
