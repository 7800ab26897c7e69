// Package redis connects to Redis and serves per-route message bundles
// from it.
//
// Connect validates the URL (redis:// or rediss://), then pings the server
// with exponential backoff until it answers or RetryAttempts is exhausted:
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL: "redis://localhost:6379/0",
//		RetryAttempts: 3,
//		RetryInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// MessageSource implements i18n.RouteLoader. Bundles are hashes keyed
// "<prefix>:<locale>:<bundle>" where bundle is the raw route path or
// "index" for the home route:
//
//	HSET i18n:es:blog/:slug page-post.title "Entrada"
//
//	loader := redis.NewMessageSource(client, "i18n")
//	p, err := navigation.New(tr, state, navigation.WithRouteLoader(loader))
//
// Errors: ErrEmptyConnectionURL, ErrParseConnString,
// ErrNotReady and ErrHealthcheckFailed can be checked with errors.Is.
package redis
