package recnet

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fetchEach runs fetch for every id with at most c.concurrency calls in
// flight. Missing records are dropped. The first error cancels the rest.
func fetchEach[T any](ctx context.Context, c *Client, ids []int64, fetch func(context.Context, int64) (*T, error)) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	// Create error group with limited concurrency
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	// Each goroutine owns one slot, so no lock is needed
	slots := make([]*T, len(ids))
	for i, id := range ids {
		g.Go(func() error {
			record, err := fetch(ctx, id)
			if err != nil {
				c.logger.Warn().
					Err(err).
					Int64("id", id).
					Msg("Failed to fetch record")
				return err
			}
			slots[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]T, 0, len(ids))
	for _, record := range slots {
		if record != nil {
			records = append(records, *record)
		}
	}
	return records, nil
}
