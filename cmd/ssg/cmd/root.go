package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/ssgi18n/core/logger"
	"github.com/dmitrymomot/ssgi18n/middleware"
)

var (
	i18nFile   string
	routesFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ssg",
	Short: "Locale-aware static site generator",
	Long: `ssg pre-renders every route of a site once per configured locale.

Default-locale pages stay unprefixed ("/about") unless the locale segment is
required, other locales get their code as first segment ("/es/about"). Every
page carries its lang attribute, title, description, og:locale and hreflang
alternate links.

Project layout (paths relative to the project root):
  index.html        page template with <div id="app"></div>
  i18n.yaml         locale configuration (.yaml, .yml, .json or .toml)
  routes.yaml       route table
  locales/          global messages, one file per locale
  locales/pages/    route messages, <page>.<locale>.yaml
  pages/            page fragments, <pageKey>.html or default.html`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Errors are printed to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&i18nFile, "i18n", "", "locale configuration file (default: i18n.{yaml,yml,json,toml}, else SSG_* environment)")
	rootCmd.PersistentFlags().StringVar(&routesFile, "routes", "routes.yaml", "route table file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "ssg: %v\n", err)
}

func newLogger(cfg Env) *slog.Logger {
	level := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	opts := []logger.Option{
		logger.WithLevel(level),
		logger.WithOutput(os.Stderr),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		opts = append(opts, logger.WithJSONFormatter())
	} else {
		opts = append(opts, logger.WithTextFormatter())
	}
	return logger.New(opts...)
}
