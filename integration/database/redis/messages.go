package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/ssgi18n/core/i18n"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/route"
)

// Compile-time check that MessageSource implements i18n.RouteLoader.
var _ i18n.RouteLoader = (*MessageSource)(nil)

// HashGetter is the part of a Redis client MessageSource uses.
type HashGetter interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// MessageSource serves route message bundles stored as Redis hashes under
// "<prefix>:<code>:<bundle>", one field per dotted message key:
//
//	HSET i18n:es:about page-about.title "Acerca de"
type MessageSource struct {
	client HashGetter
	prefix string
}

// NewMessageSource creates a route loader reading hashes under prefix
// ("i18n" when empty).
func NewMessageSource(client HashGetter, prefix string) *MessageSource {
	prefix = strings.TrimSuffix(prefix, ":")
	if prefix == "" {
		prefix = "i18n"
	}
	return &MessageSource{client: client, prefix: prefix}
}

// Key returns the hash key of a bundle.
func (s *MessageSource) Key(code, bundle string) string {
	return s.prefix + ":" + code + ":" + bundle
}

// Load implements i18n.RouteLoader. A missing or empty hash yields
// i18n.ErrNoRouteBundle.
func (s *MessageSource) Load(ctx context.Context, rec locale.Record, loc route.Location) (map[string]any, error) {
	key := s.Key(rec.Code, i18n.BundleName(loc))
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: load %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, i18n.ErrNoRouteBundle
	}

	bundle := make(map[string]any, len(fields))
	for k, v := range fields {
		bundle[k] = v
	}
	return bundle, nil
}
