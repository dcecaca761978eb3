package recnet

import (
	"context"
	"net/http"

	"github.com/recnetbot/recnet/rest"
)

// EventManager fetches player events.
type EventManager struct {
	client *Client
}

func (m *EventManager) route() rest.Route {
	return rest.NewRoute(m.client.hosts.Events)
}

// Fetch returns the event with the given id, or nil if none exists.
func (m *EventManager) Fetch(ctx context.Context, id int64) (*Event, error) {
	req := m.route().ID(id).Request(http.MethodGet, nil, nil)
	return fetchOne[Event](ctx, m.client.dispatcher, req)
}

// FetchMany returns the events for the given ids. Unknown ids are skipped.
func (m *EventManager) FetchMany(ctx context.Context, ids []int64) ([]Event, error) {
	if len(ids) == 0 {
		return []Event{}, nil
	}
	req := m.route().Segment("bulk").Request(http.MethodPost, nil, idValues("Ids", ids))
	return fetchList[Event](ctx, m.client.dispatcher, req)
}

// Search returns events matching query.
func (m *EventManager) Search(ctx context.Context, query string, take, skip, sort int) ([]Event, error) {
	params := paging(take, skip, sort)
	params.Set("query", query)
	req := m.route().Segment("search").Request(http.MethodGet, params, nil)
	return fetchList[Event](ctx, m.client.dispatcher, req)
}

// FromAccount returns events created by an account.
func (m *EventManager) FromAccount(ctx context.Context, accountID int64, take, skip int) ([]Event, error) {
	req := m.route().Segment("creator").ID(accountID).Request(http.MethodGet, paging(take, skip), nil)
	return fetchList[Event](ctx, m.client.dispatcher, req)
}

// InRoom returns events hosted in a room.
func (m *EventManager) InRoom(ctx context.Context, roomID int64, take, skip int) ([]Event, error) {
	req := m.route().Segment("room").ID(roomID).Request(http.MethodGet, paging(take, skip), nil)
	return fetchList[Event](ctx, m.client.dispatcher, req)
}

// List returns upcoming and ongoing events.
func (m *EventManager) List(ctx context.Context, take, skip, sort int) ([]Event, error) {
	req := m.route().Request(http.MethodGet, paging(take, skip, sort), nil)
	return fetchList[Event](ctx, m.client.dispatcher, req)
}
