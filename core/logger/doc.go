// Package logger builds slog loggers and provides nil-safe attribute helpers.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("ssg"),
//		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
//	)
//
//	log.Warn("alternate links without base",
//		logger.Component("route"),
//		logger.Route(route.Meta.RawPath),
//	)
//
// Production deployments usually want JSON:
//
//	log := logger.New(logger.WithProduction("ssg"))
//
// # Context Values
//
// WithContextValue and WithContextExtractors add attributes taken from the
// context passed to the *Context logging methods:
//
//	log := logger.New(logger.WithContextValue("run_id", runIDKey{}))
//	log.InfoContext(ctx, "page written")
//
// # Attribute Helpers
//
// Helpers such as Error, Locale and Route return an empty slog.Attr for
// absent values, which slog drops from the output:
//
//	log.Warn("route messages unavailable",
//		logger.Error(err),
//		logger.Locale(code),
//	)
package logger
