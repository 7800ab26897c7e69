package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any (value of T)
	loadMu     sync.Mutex
)

// Load parses environment variables into cfg. The first call for a type
// parses and caches the result; later calls copy the cached value.
// A .env file in the working directory is loaded once, if present.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		// Missing .env is the common case outside development.
		_ = godotenv.Load()
	})

	typ := reflect.TypeOf(cfg).Elem()
	if v, ok := cache.Load(typ); ok {
		*cfg = v.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	if v, ok := cache.Load(typ); ok {
		*cfg = v.(T)
		return nil
	}

	var loaded T
	if err := env.Parse(&loaded); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}
	cache.Store(typ, loaded)
	*cfg = loaded
	return nil
}

// MustLoad is Load that panics on failure. Meant for program startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Parse parses environment variables into cfg without touching the cache.
func Parse[T any](cfg *T) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %T: %w", cfg, err)
	}
	return nil
}
