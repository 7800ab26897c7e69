package static

import "errors"

// ErrNoSite is returned when the site directory is missing.
var ErrNoSite = errors.New("static: site directory does not exist")
