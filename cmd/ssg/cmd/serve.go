package cmd

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/ssgi18n/core/cookie"
	"github.com/dmitrymomot/ssgi18n/core/health"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/logger"
	"github.com/dmitrymomot/ssgi18n/core/route"
	"github.com/dmitrymomot/ssgi18n/core/server"
	"github.com/dmitrymomot/ssgi18n/core/static"
	"github.com/dmitrymomot/ssgi18n/middleware"
)

var (
	serveAddr string
	serveOut  string
)

var serveCmd = &cobra.Command{
	Use:   "serve [root]",
	Short: "Preview a built site with server-side locale redirects",
	Long: `Serves the output directory the way a locale-aware host would: requests
with an unknown locale segment or without a required one are redirected to
the locale detected from the cookie, the URL and Accept-Language, and the
locale cookie is written on every page response.

Examples:
  ssg serve
  ssg serve ./site --addr :8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := serveCmd.Flags()
	f.StringVar(&serveAddr, "addr", "", "listen address (env SSG_PREVIEW_ADDR)")
	f.StringVarP(&serveOut, "out", "o", "", "built site directory (env SSG_OUT_DIR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		env.Preview.Addr = serveAddr
	}
	outDir := env.Build.OutDir
	if cmd.Flags().Changed("out") {
		outDir = serveOut
	}
	log := newLogger(env)

	p, err := loadProject(root)
	if err != nil {
		return err
	}
	lctx, err := locale.NewContext(p.locale)
	if err != nil {
		return err
	}
	tr := route.NewTransformer(route.BuildLocaleTree(p.routes, lctx, route.WithLogger(log)), lctx)

	cookies, err := cookie.NewFromConfig(env.Cookie, cookie.WithBase(lctx.Base))
	if err != nil {
		return err
	}

	site, err := static.Site(resolve(root, outDir))
	if err != nil {
		return err
	}

	prefix := basePath(lctx.Base)
	var h http.Handler = middleware.LocaleWithConfig(middleware.LocaleConfig{
		Transformer: tr,
		Cookies:     cookies,
		Logger:      log,
		Prefix:      prefix,
		Skip: func(r *http.Request) bool {
			return static.IsAsset(r.URL.Path)
		},
	})(site)
	if prefix != "" {
		h = http.StripPrefix(prefix, h)
	}

	mux := http.NewServeMux()
	mux.Handle("/__health/live", health.Liveness())
	mux.Handle("/__health/ready", health.Readiness(log,
		health.FileExists(filepath.Join(resolve(root, outDir), route.OutputFile("/"))),
	))
	mux.Handle("/", middleware.LoggingWithLogger(log)(h))

	handler := middleware.RequestID()(mux)

	srv, err := server.NewFromConfig(env.Preview, server.WithLogger(log))
	if err != nil {
		return err
	}
	go func() {
		select {
		case <-srv.Ready():
			log.Info("preview ready", logger.Key("url", "http://"+srv.Addr()+prefix+"/"))
		case <-cmd.Context().Done():
		}
	}()
	return srv.Run(cmd.Context(), handler)
}

// basePath returns the path of the site base URL without its trailing
// slash: "https://example.com/docs/" gives "/docs".
func basePath(base string) string {
	if base == "" {
		return ""
	}
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(u.Path, "/")
}
