package recnet

import (
	"context"
	"net/http"
	"net/url"

	"github.com/recnetbot/recnet/rest"
)

// AccountManager fetches player accounts.
type AccountManager struct {
	client *Client
}

func (m *AccountManager) route() rest.Route {
	return rest.NewRoute(m.client.hosts.Accounts)
}

// Get returns the account with the given username, or nil if none exists.
func (m *AccountManager) Get(ctx context.Context, name string) (*Account, error) {
	req := m.route().Request(http.MethodGet, url.Values{"username": {name}}, nil)
	return fetchOne[Account](ctx, m.client.dispatcher, req)
}

// Fetch returns the account with the given id, or nil if none exists.
func (m *AccountManager) Fetch(ctx context.Context, id int64) (*Account, error) {
	req := m.route().ID(id).Request(http.MethodGet, nil, nil)
	return fetchOne[Account](ctx, m.client.dispatcher, req)
}

// GetMany returns the accounts for the given usernames. Unknown names are
// skipped.
func (m *AccountManager) GetMany(ctx context.Context, names []string) ([]Account, error) {
	if len(names) == 0 {
		return []Account{}, nil
	}
	req := m.route().Segment("bulk").Request(http.MethodPost, nil, stringValues("name", names))
	return fetchList[Account](ctx, m.client.dispatcher, req)
}

// FetchMany returns the accounts for the given ids. Unknown ids are skipped.
func (m *AccountManager) FetchMany(ctx context.Context, ids []int64) ([]Account, error) {
	if len(ids) == 0 {
		return []Account{}, nil
	}
	req := m.route().Segment("bulk").Request(http.MethodPost, nil, idValues("id", ids))
	return fetchList[Account](ctx, m.client.dispatcher, req)
}

// FetchEach fetches the ids one call at a time with bounded concurrency.
// Missing accounts are skipped; results keep the order of ids.
func (m *AccountManager) FetchEach(ctx context.Context, ids []int64) ([]Account, error) {
	return fetchEach(ctx, m.client, ids, m.Fetch)
}

// Search returns accounts whose name matches query.
func (m *AccountManager) Search(ctx context.Context, query string) ([]Account, error) {
	req := m.route().Segment("search").Request(http.MethodGet, url.Values{"name": {query}}, nil)
	return fetchList[Account](ctx, m.client.dispatcher, req)
}

// Bio returns the profile bio of an account. A missing account yields "".
func (m *AccountManager) Bio(ctx context.Context, id int64) (string, error) {
	req := m.route().ID(id).Segment("bio").Request(http.MethodGet, nil, nil)
	bio, err := fetchOne[struct {
		Bio string `json:"bio"`
	}](ctx, m.client.dispatcher, req)
	if err != nil || bio == nil {
		return "", err
	}
	return bio.Bio, nil
}

// Progression returns the level and experience of an account, or nil if
// the account does not exist.
func (m *AccountManager) Progression(ctx context.Context, id int64) (*Progression, error) {
	req := rest.NewRoute(m.client.hosts.API).
		Segments("players", "v2", "progression", "bulk").
		Request(http.MethodPost, nil, idValues("id", []int64{id}))
	list, err := fetchList[Progression](ctx, m.client.dispatcher, req)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}
