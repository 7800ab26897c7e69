// Package navigation implements the locale navigation guards of a router
// built with package route.
//
// A Policy is created once per router and moves from
// AwaitingFirstNavigation to Steady. BeforeEach runs three guards in order:
//
//  1. validity: a locale segment that is not configured, or a missing one
//     when the tree requires it, redirects to the same route for the
//     detected locale (first navigation) or the active locale (afterwards);
//  2. reconciliation: on the first navigation of a tree that requires the
//     locale segment, a URL locale that differs from the active locale
//     redirects once to the active locale;
//  3. resources: the route message bundle is fetched and laid over the
//     global messages, then the locale is committed.
//
// AfterEach persists the locale cookie, recomputes the head and flushes it
// to the head sink. Cookie and bundle failures are logged and never stop a
// navigation.
//
//	state := locale.NewState(lctx.Table, locale.DetectClient(lctx.CookieName, lctx.DefaultLocale, lctx.Table, jar))
//	p, err := navigation.New(tr, state,
//		navigation.WithMessages(messages),
//		navigation.WithCookies(jar),
//		navigation.WithHeadSink(sink),
//	)
//	loc, err := p.Navigate(ctx, "/es/about")
//
// Server mode resolves a request once with ResolveServer and computes the
// head after rendering through ServerPage.InjectHead.
package navigation
