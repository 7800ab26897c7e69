package i18n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/route"
)

// LoadYAMLDir reads every .yaml/.yml/.json file of dir into per-language
// bundles. A file is either a plain message tree named after its language
// ("es.yaml") or a document carrying the language explicitly:
//
//	language: es
//	messages:
//	  page-about:
//	    title: Sobre nosotros
//
// Bundles of the same language are merged in file name order.
func LoadYAMLDir(fsys fs.FS, dir string) (map[string]map[string]any, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read dir %s: %w", dir, err)
	}

	bundles := make(map[string]map[string]any)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := path.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", e.Name(), err)
		}
		lang, msgs, err := decodeBundle(ext, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBundle, e.Name(), err)
		}
		if lang == "" {
			lang = strings.TrimSuffix(e.Name(), ext)
		}
		if bundles[lang] == nil {
			bundles[lang] = make(map[string]any)
		}
		for k, v := range msgs {
			bundles[lang][k] = v
		}
	}
	return bundles, nil
}

func decodeBundle(ext string, data []byte) (string, map[string]any, error) {
	var raw map[string]any
	switch ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&raw); err != nil {
			return "", nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return "", nil, err
		}
	}

	if lang, ok := raw["language"].(string); ok {
		if msgs, ok := raw["messages"].(map[string]any); ok {
			return lang, msgs, nil
		}
	}
	return "", raw, nil
}

// RouteLoader fetches the per-route message bundle of a location for a locale.
// Loaders return ErrNoRouteBundle when the route has no bundle.
type RouteLoader interface {
	Load(ctx context.Context, rec locale.Record, loc route.Location) (map[string]any, error)
}

// RouteLoaderFunc adapts a function to RouteLoader.
type RouteLoaderFunc func(ctx context.Context, rec locale.Record, loc route.Location) (map[string]any, error)

// Load implements RouteLoader.
func (f RouteLoaderFunc) Load(ctx context.Context, rec locale.Record, loc route.Location) (map[string]any, error) {
	return f(ctx, rec, loc)
}

// BundleName returns the name a route bundle is stored under: the raw route
// path, or "index" for the home route.
func BundleName(loc route.Location) string {
	if loc.Route == nil || loc.Route.Meta.RawPath == "" {
		return "index"
	}
	return loc.Route.Meta.RawPath
}

// FSRouteLoader reads route bundles from <Dir>/<bundle>.<code>.{yaml,yml,json}.
type FSRouteLoader struct {
	FS  fs.FS
	Dir string
}

// Load implements RouteLoader.
func (l FSRouteLoader) Load(ctx context.Context, rec locale.Record, loc route.Location) (map[string]any, error) {
	base := path.Join(l.Dir, BundleName(loc)+"."+rec.Code)
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(l.FS, base+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("i18n: read route bundle %s: %w", base+ext, err)
		}
		_, msgs, err := decodeBundle(ext, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBundle, base+ext, err)
		}
		return msgs, nil
	}
	return nil, ErrNoRouteBundle
}
