package locale

import (
	"errors"
	"fmt"
)

var (
	// ErrDefaultLocaleMissing indicates the configured default locale is not a key of the locale map.
	ErrDefaultLocaleMissing = errors.New("locale: default locale is not configured")

	// ErrNoLocales indicates the locale map is empty.
	ErrNoLocales = errors.New("locale: no locales configured")

	// ErrDuplicateLocale indicates the same locale code appears twice in the configuration.
	ErrDuplicateLocale = errors.New("locale: duplicate locale code")

	// ErrEmptyCode indicates a locale entry without a code.
	ErrEmptyCode = errors.New("locale: empty locale code")

	// ErrUnknownLocale indicates a locale code that is not part of the table.
	ErrUnknownLocale = errors.New("locale: unknown locale")

	// ErrUnsupportedConfigFormat indicates a configuration file with an unknown extension.
	ErrUnsupportedConfigFormat = errors.New("locale: unsupported configuration file format")
)

// ConfigurationError is the fatal startup error raised when the locale
// configuration cannot produce a valid Table.
type ConfigurationError struct {
	Code string
	Err  error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("locale configuration: %v", e.Err)
	}
	return fmt.Sprintf("locale configuration: %v: %q", e.Err, e.Code)
}

// Unwrap returns the underlying sentinel error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
