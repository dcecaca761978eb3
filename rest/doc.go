// Package rest implements the request dispatch core of the RecNet client.
//
// Every call passes through four stages:
//
//  1. Serialized: calls with an identical bucket key (method, URL, query and
//     body) run one at a time.
//  2. Rate gated: a fixed-window budget (166 calls per 60 seconds by
//     default) shared by all calls of a Dispatcher admits the call.
//  3. In flight: the Caller performs the exchange over a pooled HTTP client,
//     repeating it up to three times on transport errors.
//  4. Classified: 2xx and 404 return a Response; other statuses return an
//     *HTTPError matching one of the package sentinels.
//
// Basic usage:
//
//	d, err := rest.NewDispatcher(rest.WithAPIKey(key))
//	if err != nil {
//		return err
//	}
//	defer d.Stop(context.Background())
//
//	hosts := rest.DefaultHosts()
//	resp, err := rest.NewRoute(hosts.Accounts).ID(1).Get(ctx, d, nil)
//	if errors.Is(err, rest.ErrRateLimited) {
//		httpErr, _ := rest.AsHTTPError(err)
//		time.Sleep(httpErr.RetryAfter)
//	}
package rest
