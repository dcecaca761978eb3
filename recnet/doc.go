// Package recnet provides a client for the public RecNet API.
//
// The client wraps a rate-limited dispatcher (see package rest) and exposes
// one manager per resource: accounts, rooms, events, images and inventions.
// All managers share the same connection pool, rate budget and bucket
// registry, so a single Client should be reused for the lifetime of a
// program and closed once.
//
// # Usage
//
//	client, err := recnet.NewClient(apiKey, recnet.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(context.Background())
//
//	account, err := client.Accounts.Get(ctx, "coach")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if account == nil {
//		fmt.Println("no such player")
//	}
//
// # Missing resources
//
// A 404 from the API is not an error. Single-record lookups return nil and
// list lookups return an empty slice.
//
// # Errors
//
// Every other failure status is returned as a *rest.HTTPError. Use
// errors.Is with the rest sentinels, or IsRateLimited to read the
// provider cooldown.
package recnet
