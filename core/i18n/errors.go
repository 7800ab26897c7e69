package i18n

import "errors"

var (
	// ErrEmptyLanguage indicates a bundle or option without a language code.
	ErrEmptyLanguage = errors.New("i18n: language cannot be empty")

	// ErrInvalidBundle indicates a message file that cannot be decoded.
	ErrInvalidBundle = errors.New("i18n: invalid message bundle")

	// ErrNoRouteBundle indicates that no route bundle exists for the location.
	// Loaders return it so callers can tell "nothing to load" from a failure.
	ErrNoRouteBundle = errors.New("i18n: no route bundle")
)
