package navigation

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/ssgi18n/core/head"
	"github.com/dmitrymomot/ssgi18n/core/i18n"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/logger"
	"github.com/dmitrymomot/ssgi18n/core/route"
)

// effects are the navigation side effects shared by the client policy and
// server resolution.
type effects struct {
	options
	tr   *route.Transformer
	lctx locale.Context
}

// loadMessages fetches the route bundle of loc for rec and lays it over the
// global messages of that locale, or installs it when there are none.
// Failures are logged and leave the global messages in effect.
func (e *effects) loadMessages(ctx context.Context, rec locale.Record, loc route.Location) {
	if e.loader == nil || e.messages == nil {
		return
	}

	if e.bundleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.bundleTimeout)
		defer cancel()
	}

	bundle, err := e.loader.Load(ctx, rec, loc)
	if errors.Is(err, i18n.ErrNoRouteBundle) || (err == nil && len(bundle) == 0) {
		return
	}
	if err == nil {
		if e.messages.HasLanguage(rec.Code) {
			err = e.messages.Merge(rec.Code, bundle)
		} else {
			err = e.messages.Install(rec.Code, bundle)
		}
	}
	if err != nil {
		e.logger.WarnContext(ctx, "route messages unavailable, using global messages",
			logger.Component("navigation"),
			logger.Result("ResourceLoadFailure"),
			logger.Locale(rec.Code),
			logger.Path(loc.Path),
			logger.Error(err),
		)
	}
}

// persistCookie writes "<cookieName>=<code>" scoped to the site base.
func (e *effects) persistCookie(ctx context.Context, code string) {
	if e.cookies == nil {
		return
	}
	err := e.cookies.WriteCookie(&http.Cookie{
		Name:     e.lctx.CookieName,
		Value:    code,
		Path:     e.lctx.CookiePath(),
		SameSite: http.SameSiteStrictMode,
	})
	if err != nil {
		e.logger.WarnContext(ctx, "locale cookie not persisted",
			logger.Component("navigation"),
			logger.Result("CookiePersistFailure"),
			logger.Locale(code),
			logger.Error(err),
		)
	}
}

func (e *effects) translator(code string) head.Translator {
	if e.messages == nil {
		return nil
	}
	return func(key string) string {
		return e.messages.T(code, key)
	}
}

// computeHead builds the head of loc for rec and runs the configurer.
func (e *effects) computeHead(ctx context.Context, loc route.Location, rec locale.Record) head.Head {
	h := head.Compute(loc.Route, rec, e.translator(rec.Code), e.tr.Alternates(loc, e.logger))
	if e.configurer != nil {
		if err := e.configurer(ctx, &h, loc, rec); err != nil {
			e.logger.WarnContext(ctx, "head configurer failed",
				logger.Component("navigation"),
				logger.Path(loc.Path),
				logger.Error(err),
			)
		}
	}
	return h
}

func (e *effects) flush(ctx context.Context, h head.Head) {
	if e.sink == nil {
		return
	}
	if err := e.sink.Flush(ctx, h); err != nil {
		e.logger.WarnContext(ctx, "head flush failed",
			logger.Component("navigation"),
			logger.Error(err),
		)
	}
}
