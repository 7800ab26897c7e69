package route

import "errors"

var (
	// ErrMissingParam indicates a route path could not be built because a required parameter is empty.
	ErrMissingParam = errors.New("route: missing required parameter")

	// ErrUnknownRoute indicates a route that is not part of the tree.
	ErrUnknownRoute = errors.New("route: route is not part of the tree")

	// ErrNoRoute indicates a path that matches no route and no home route to fall back to.
	ErrNoRoute = errors.New("route: no matching route")

	// ErrUnsupportedFormat indicates a route file with an unknown extension.
	ErrUnsupportedFormat = errors.New("route: unsupported route file format")
)
