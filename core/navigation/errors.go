package navigation

import "errors"

var (
	// ErrRedirectLoop is returned by Navigate when redirects do not settle.
	ErrRedirectLoop = errors.New("navigation: too many redirects")

	// ErrNoTransformer indicates a policy or server resolution without a route transformer.
	ErrNoTransformer = errors.New("navigation: route transformer is required")
)
