package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/ssgi18n/core/i18n"
	"github.com/dmitrymomot/ssgi18n/core/logger"
	"github.com/dmitrymomot/ssgi18n/core/ssg"
	"github.com/dmitrymomot/ssgi18n/core/storage"
	"github.com/dmitrymomot/ssgi18n/integration/database/redis"
	"github.com/dmitrymomot/ssgi18n/integration/storage/s3"
)

var (
	buildScript       string
	buildMock         bool
	buildOut          string
	buildBase         string
	buildWorkers      int
	buildIndex        string
	buildMessages     string
	buildPageMessages string
	buildPages        string
)

var buildCmd = &cobra.Command{
	Use:   "build [root]",
	Short: "Pre-render every route for every locale",
	Long: `Renders every static route once per locale and writes one HTML file per
page, plus sitemap.xml when a base URL is configured and ssg-manifest.json.

Dynamic routes (":param" or "*") are skipped. Any render failure aborts the
build with exit code 1.

Examples:
  ssg build
  ssg build ./site --script "async defer"
  ssg build --i18n i18n.toml --routes routes.json --out public
  SSG_STORAGE=s3 SSG_S3_BUCKET=www ssg build`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	f := buildCmd.Flags()
	f.StringVar(&buildScript, "script", "", `module script loading: sync, async, defer or "async defer" (env SSG_SCRIPT)`)
	f.BoolVar(&buildMock, "mock", false, "give every page a browser-like cookie jar (env SSG_MOCK)")
	f.StringVarP(&buildOut, "out", "o", "", "output directory (env SSG_OUT_DIR)")
	f.StringVar(&buildBase, "base", "", "absolute site URL for alternate links and the sitemap (env SSG_ALTERNATE_BASE)")
	f.IntVar(&buildWorkers, "workers", 0, "pages rendered concurrently (env SSG_WORKERS)")
	f.StringVar(&buildIndex, "index", "index.html", "page template")
	f.StringVar(&buildMessages, "messages", "locales", "global messages directory")
	f.StringVar(&buildPageMessages, "page-messages", "locales/pages", "route messages directory")
	f.StringVar(&buildPages, "pages", "pages", "page fragment templates directory")
}

func runBuild(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}
	cfg := applyBuildFlags(cmd, env.Build, root)
	log := newLogger(env).With(logger.Component("cli"))

	p, err := loadProject(root)
	if err != nil {
		return err
	}

	indexHTML, err := os.ReadFile(resolve(root, buildIndex))
	if err != nil {
		return fmt.Errorf("read page template: %w", err)
	}
	messages, err := p.loadMessages(buildMessages)
	if err != nil {
		return err
	}
	renderer, err := ssg.NewTemplateRenderer(os.DirFS(resolve(root, buildPages)))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	loader, closeLoader, err := routeLoader(ctx, env, p, log)
	if err != nil {
		return err
	}
	defer closeLoader()

	opts := []ssg.Option{ssg.WithLogger(log)}
	store, err := artifactStorage(ctx, env)
	if err != nil {
		return err
	}
	if store != nil {
		opts = append(opts, ssg.WithStorage(store))
	}

	b, err := ssg.New(cfg, ssg.Site{
		Routes:      p.routes,
		Locale:      p.locale,
		IndexHTML:   string(indexHTML),
		Messages:    messages,
		RouteLoader: loader,
		Renderer:    renderer,
	}, opts...)
	if err != nil {
		return err
	}

	res, err := b.Build(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "generated %d pages in %s (run %s)\n",
		len(res.Pages), res.Duration.Round(time.Millisecond), res.RunID)
	return nil
}

// applyBuildFlags overrides the environment with the flags that were set.
func applyBuildFlags(cmd *cobra.Command, cfg ssg.Config, root string) ssg.Config {
	f := cmd.Flags()
	if f.Changed("script") {
		cfg.Script = buildScript
	}
	if f.Changed("mock") {
		cfg.Mock = buildMock
	}
	if f.Changed("out") {
		cfg.OutDir = buildOut
	}
	if f.Changed("base") {
		cfg.AlternateBase = buildBase
	}
	if f.Changed("workers") {
		cfg.Workers = buildWorkers
	}
	if cfg.OutDir == "" {
		cfg.OutDir = ssg.DefaultConfig().OutDir
	}
	cfg.OutDir = resolve(root, cfg.OutDir)
	return cfg
}

// routeLoader reads route messages from Redis when SSG_REDIS_URL is set and
// from the project files otherwise.
func routeLoader(ctx context.Context, env Env, p project, log *slog.Logger) (i18n.RouteLoader, func(), error) {
	if env.Redis.ConnectionURL == "" {
		return i18n.FSRouteLoader{
			FS:  os.DirFS(p.root),
			Dir: filepath.ToSlash(buildPageMessages),
		}, func() {}, nil
	}

	client, err := redis.Connect(ctx, env.Redis)
	if err != nil {
		return nil, nil, err
	}
	log.InfoContext(ctx, "route messages from redis", logger.Key("prefix", env.MessagePrefix))
	return redis.NewMessageSource(client, env.MessagePrefix), func() {
		if err := client.Close(); err != nil {
			log.Warn("close redis client", logger.Error(err))
		}
	}, nil
}

// artifactStorage returns the configured storage, or nil for the builder
// default (the local output directory).
func artifactStorage(ctx context.Context, env Env) (storage.Storage, error) {
	switch env.Storage {
	case "", "local":
		return nil, nil
	case "s3":
		return s3.New(ctx, env.S3)
	default:
		return nil, fmt.Errorf("unknown storage %q (want local or s3)", env.Storage)
	}
}
