package ssg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/ssgi18n/core/cookie"
	"github.com/dmitrymomot/ssgi18n/core/i18n"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/logger"
	"github.com/dmitrymomot/ssgi18n/core/navigation"
	"github.com/dmitrymomot/ssgi18n/core/route"
	"github.com/dmitrymomot/ssgi18n/core/storage"
)

const (
	SitemapFile  = "sitemap.xml"
	ManifestFile = "ssg-manifest.json"
)

// PageHook transforms the HTML of one path. OnBeforePageRender hooks get
// the index template, OnPageRendered hooks get the final page.
type PageHook func(ctx context.Context, path, html string) (string, error)

// Site is the input of a build.
type Site struct {
	Routes    []*route.Route
	Locale    locale.Config
	IndexHTML string
	// Messages holds the global message bundles. Each page works on a copy.
	Messages    *i18n.I18n
	RouteLoader i18n.RouteLoader
	Renderer    Renderer

	OnBeforePageRender PageHook
	OnPageRendered     PageHook
}

// PageResult describes one generated file.
type PageResult struct {
	Path      string `json:"path"`
	File      string `json:"file"`
	Locale    string `json:"locale"`
	Bytes     int    `json:"bytes"`
	Canonical bool   `json:"canonical"`
}

// Result describes a finished build.
type Result struct {
	RunID    string        `json:"runId"`
	Pages    []PageResult  `json:"pages"`
	Sitemap  string        `json:"sitemap,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithStorage sets where artifacts are written. The default is a local
// directory at Config.OutDir.
func WithStorage(s storage.Storage) Option {
	return func(b *Builder) {
		b.storage = s
	}
}

// Builder renders every static path of a site for every locale.
type Builder struct {
	cfg     Config
	site    Site
	script  ScriptMode
	lctx    locale.Context
	tr      *route.Transformer
	storage storage.Storage
	logger  *slog.Logger
}

// New validates the site and prepares the route tree. A default locale
// missing from the locale map fails here with *locale.ConfigurationError.
func New(cfg Config, site Site, opts ...Option) (*Builder, error) {
	if site.Renderer == nil {
		return nil, ErrNoRenderer
	}
	if strings.TrimSpace(site.IndexHTML) == "" {
		return nil, ErrNoIndexHTML
	}
	script, err := ParseScriptMode(cfg.Script)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:    cfg,
		site:   site,
		script: script,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.cfg.Workers < 1 {
		b.cfg.Workers = 1
	}

	lcfg := site.Locale
	if cfg.AlternateBase != "" {
		lcfg.Base = cfg.AlternateBase
	}
	b.lctx, err = locale.NewContext(lcfg)
	if err != nil {
		return nil, err
	}
	tree := route.BuildLocaleTree(site.Routes, b.lctx, route.WithLogger(b.logger))
	b.tr = route.NewTransformer(tree, b.lctx)

	if b.storage == nil {
		dir, err := storage.NewDir(cfg.OutDir)
		if err != nil {
			return nil, err
		}
		b.storage = dir
	}
	return b, nil
}

// Transformer returns the route transformer of the site.
func (b *Builder) Transformer() *route.Transformer {
	return b.tr
}

// Paths returns the request paths the build generates.
func (b *Builder) Paths() []string {
	return route.StaticPaths(b.tr.Tree(), b.lctx)
}

// Build renders every path concurrently and writes the pages, then the
// sitemap and the manifest. The first failing page cancels the rest and
// its error is returned.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := b.logger.With(logger.RunID(runID), logger.Component("ssg"))

	paths := b.Paths()
	indexHTML := RewriteScripts(b.site.IndexHTML, b.script)
	log.InfoContext(ctx, "rendering pages", logger.Count("pages", len(paths)), logger.Key("script", string(b.script)))

	pages := make([]PageResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for i, p := range paths {
		g.Go(func() error {
			res, err := b.renderPage(gctx, log, p, indexHTML)
			if err != nil {
				return fmt.Errorf("ssg: page %s: %w", p, err)
			}
			pages[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.ErrorContext(ctx, "build failed", logger.Error(err), logger.Elapsed(start))
		return nil, err
	}

	result := &Result{RunID: runID, Pages: pages}

	if b.cfg.Sitemap && b.lctx.Base != "" {
		data, err := Sitemap(b.lctx.Base, paths, b.tr, log)
		if err != nil {
			return nil, err
		}
		if err := b.storage.Put(ctx, SitemapFile, bytes.NewReader(data), storage.ContentType(SitemapFile)); err != nil {
			return nil, fmt.Errorf("ssg: write sitemap: %w", err)
		}
		result.Sitemap = SitemapFile
	}

	result.Duration = time.Since(start)

	if b.cfg.Manifest {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("ssg: encode manifest: %w", err)
		}
		if err := b.storage.Put(ctx, ManifestFile, bytes.NewReader(data), storage.ContentType(ManifestFile)); err != nil {
			return nil, fmt.Errorf("ssg: write manifest: %w", err)
		}
	}

	log.InfoContext(ctx, "build finished", logger.Count("pages", len(pages)), logger.Elapsed(start))
	return result, nil
}

type initialState struct {
	Locale string `json:"locale"`
	Path   string `json:"path"`
}

func (b *Builder) renderPage(ctx context.Context, log *slog.Logger, p, indexHTML string) (PageResult, error) {
	var err error
	if hook := b.site.OnBeforePageRender; hook != nil {
		if indexHTML, err = hook(ctx, p, indexHTML); err != nil {
			return PageResult{}, err
		}
	}

	doc, err := ParseDocument(indexHTML)
	if err != nil {
		return PageResult{}, err
	}

	opts := []navigation.Option{
		navigation.WithMessages(b.site.Messages),
		navigation.WithRouteLoader(b.site.RouteLoader),
		navigation.WithHeadSink(doc),
		navigation.WithLogger(log),
		navigation.WithBundleTimeout(b.cfg.BundleTimeout),
	}
	if b.cfg.Mock {
		opts = append(opts, navigation.WithCookies(cookie.NewJar()))
	}
	page, err := navigation.ResolveServer(ctx, b.tr, navigation.ServerRequest{RequestURL: p}, opts...)
	if err != nil {
		return PageResult{}, err
	}

	rec := page.State.Record()
	appHTML, err := b.site.Renderer.Render(ctx, Page{
		Path:     p,
		Location: page.Location,
		Locale:   rec,
		T:        page.Translate,
	})
	if err != nil {
		return PageResult{}, err
	}

	state, err := json.Marshal(initialState{Locale: rec.Code, Path: page.Location.Path})
	if err != nil {
		return PageResult{}, err
	}
	if err := doc.MountApp(appHTML, string(state)); err != nil {
		return PageResult{}, err
	}

	// Translations are complete once the app has rendered.
	page.InjectHead(ctx)

	out, err := doc.HTML()
	if err != nil {
		return PageResult{}, err
	}
	if hook := b.site.OnPageRendered; hook != nil {
		if out, err = hook(ctx, p, out); err != nil {
			return PageResult{}, err
		}
	}

	file := route.OutputFile(p)
	if err := b.storage.Put(ctx, file, strings.NewReader(out), storage.ContentType(file)); err != nil {
		return PageResult{}, err
	}

	log.DebugContext(ctx, "page written",
		logger.Path(file),
		logger.Locale(rec.Code),
		logger.Count("bytes", len(out)),
	)
	return PageResult{
		Path:      p,
		File:      file,
		Locale:    rec.Code,
		Bytes:     len(out),
		Canonical: page.Canonical,
	}, nil
}
