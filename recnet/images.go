package recnet

import (
	"context"
	"net/http"

	"github.com/recnetbot/recnet/rest"
)

// ImageManager fetches images.
type ImageManager struct {
	client *Client
}

func (m *ImageManager) route() rest.Route {
	return rest.NewRoute(m.client.hosts.Images)
}

// Get returns the image with the given file name, or nil if none exists.
func (m *ImageManager) Get(ctx context.Context, name string) (*Image, error) {
	images, err := m.GetMany(ctx, []string{name})
	if err != nil || len(images) == 0 {
		return nil, err
	}
	return &images[0], nil
}

// GetMany returns the images for the given file names.
func (m *ImageManager) GetMany(ctx context.Context, names []string) ([]Image, error) {
	if len(names) == 0 {
		return []Image{}, nil
	}
	req := m.route().Segments("bulk", "name").Request(http.MethodPost, nil, stringValues("Names", names))
	return fetchList[Image](ctx, m.client.dispatcher, req)
}

// Fetch returns the image with the given id, or nil if none exists.
func (m *ImageManager) Fetch(ctx context.Context, id int64) (*Image, error) {
	req := m.route().ID(id).Request(http.MethodGet, nil, nil)
	return fetchOne[Image](ctx, m.client.dispatcher, req)
}

// FetchMany returns the images for the given ids. Unknown ids are skipped.
func (m *ImageManager) FetchMany(ctx context.Context, ids []int64) ([]Image, error) {
	if len(ids) == 0 {
		return []Image{}, nil
	}
	req := m.route().Segments("bulk", "id").Request(http.MethodPost, nil, idValues("Ids", ids))
	return fetchList[Image](ctx, m.client.dispatcher, req)
}

// FromAccount returns images taken by an account.
func (m *ImageManager) FromAccount(ctx context.Context, accountID int64, take, skip, sort int) ([]Image, error) {
	req := m.route().Segment("player").ID(accountID).Request(http.MethodGet, paging(take, skip, sort), nil)
	return fetchList[Image](ctx, m.client.dispatcher, req)
}

// PlayerFeed returns images an account is tagged in.
func (m *ImageManager) PlayerFeed(ctx context.Context, accountID int64, take, skip int) ([]Image, error) {
	req := m.route().Segments("feed", "player").ID(accountID).Request(http.MethodGet, paging(take, skip), nil)
	return fetchList[Image](ctx, m.client.dispatcher, req)
}

// DuringEvent returns images taken during an event.
func (m *ImageManager) DuringEvent(ctx context.Context, eventID int64, take, skip int) ([]Image, error) {
	req := m.route().Segment("playerevent").ID(eventID).Request(http.MethodGet, paging(take, skip), nil)
	return fetchList[Image](ctx, m.client.dispatcher, req)
}

// InRoom returns images taken in a room.
func (m *ImageManager) InRoom(ctx context.Context, roomID int64, take, skip, sort int) ([]Image, error) {
	req := m.route().Segment("room").ID(roomID).Request(http.MethodGet, paging(take, skip, sort), nil)
	return fetchList[Image](ctx, m.client.dispatcher, req)
}

// FrontPage returns the global image feed.
func (m *ImageManager) FrontPage(ctx context.Context, take, skip int) ([]Image, error) {
	req := m.route().Segments("feed", "global").Request(http.MethodGet, paging(take, skip), nil)
	return fetchList[Image](ctx, m.client.dispatcher, req)
}
