package locale

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Record describes one configured locale. Records are immutable once built.
type Record struct {
	Code        string
	Description string
	Language    string
	Region      string
	Variant     string
}

// Table is the ordered set of configured locales, keyed by code.
// Iteration order matches configuration order.
type Table struct {
	records       []Record
	index         map[string]int
	defaultLocale string
}

// Build turns the locale configuration into a Table.
// Codes are split on "-" into up to three parts: language, region, variant.
func Build(cfg Config) (*Table, error) {
	if len(cfg.Locales) == 0 {
		return nil, &ConfigurationError{Err: ErrNoLocales}
	}

	t := &Table{
		records:       make([]Record, 0, len(cfg.Locales)),
		index:         make(map[string]int, len(cfg.Locales)),
		defaultLocale: cfg.DefaultLocale,
	}

	for _, entry := range cfg.Locales {
		if entry.Code == "" {
			return nil, &ConfigurationError{Err: ErrEmptyCode}
		}
		if _, exists := t.index[entry.Code]; exists {
			return nil, &ConfigurationError{Code: entry.Code, Err: ErrDuplicateLocale}
		}
		t.index[entry.Code] = len(t.records)
		t.records = append(t.records, newRecord(entry.Code, entry.Description))
	}

	if _, ok := t.index[cfg.DefaultLocale]; !ok {
		return nil, &ConfigurationError{Code: cfg.DefaultLocale, Err: ErrDefaultLocaleMissing}
	}

	return t, nil
}

func newRecord(code, description string) Record {
	parts := strings.SplitN(code, "-", 3)
	r := Record{
		Code:        code,
		Description: description,
		Language:    parts[0],
	}
	if len(parts) > 1 {
		r.Region = parts[1]
	}
	if len(parts) > 2 {
		r.Variant = parts[2]
	}
	if r.Description == "" {
		r.Description = selfName(code)
	}
	return r
}

// selfName names a locale in its own language, e.g. "español" for "es".
func selfName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

// Has reports whether code is a configured locale.
func (t *Table) Has(code string) bool {
	if t == nil || code == "" {
		return false
	}
	_, ok := t.index[code]
	return ok
}

// Get returns the record for code.
func (t *Table) Get(code string) (Record, bool) {
	if t == nil {
		return Record{}, false
	}
	i, ok := t.index[code]
	if !ok {
		return Record{}, false
	}
	return t.records[i], true
}

// Default returns the default locale record.
func (t *Table) Default() Record {
	r, _ := t.Get(t.defaultLocale)
	return r
}

// DefaultCode returns the default locale code.
func (t *Table) DefaultCode() string {
	return t.defaultLocale
}

// Codes returns the configured codes in configuration order.
func (t *Table) Codes() []string {
	codes := make([]string, len(t.records))
	for i, r := range t.records {
		codes[i] = r.Code
	}
	return codes
}

// Records returns a copy of the configured records in configuration order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Len returns the number of configured locales.
func (t *Table) Len() int {
	return len(t.records)
}

// NormalizePathVariable returns the route parameter name used for the locale
// segment. Leading "/" and ":" and a trailing "/" are stripped; empty input
// yields "locale".
func NormalizePathVariable(v string) string {
	if v == "" {
		v = DefaultPathVariable
	}
	v = strings.TrimPrefix(v, "/")
	v = strings.TrimPrefix(v, ":")
	v = strings.TrimSuffix(v, "/")
	if v == "" {
		return DefaultPathVariable
	}
	return v
}

// Context bundles the read-only locale settings threaded through routing,
// navigation and head computation.
type Context struct {
	Table              *Table
	DefaultLocale      string
	PathVariable       string
	DefaultLocaleOnURL bool
	CookieName         string
	Base               string
}

// NewContext validates cfg and builds the shared locale context.
func NewContext(cfg Config) (Context, error) {
	cfg = cfg.withDefaults()
	table, err := Build(cfg)
	if err != nil {
		return Context{}, err
	}
	return Context{
		Table:              table,
		DefaultLocale:      cfg.DefaultLocale,
		PathVariable:       NormalizePathVariable(cfg.LocalePathVariable),
		DefaultLocaleOnURL: cfg.DefaultLocaleOnURL,
		CookieName:         cfg.CookieName,
		Base:               cfg.Base,
	}, nil
}

// DefaultRecord returns the record of the default locale.
func (c Context) DefaultRecord() Record {
	return c.Table.Default()
}

// CookiePath returns the path the locale cookie is scoped to: the path
// component of the configured base, or "/".
func (c Context) CookiePath() string {
	if c.Base == "" {
		return "/"
	}
	u, err := url.Parse(c.Base)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
