package i18n

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// DefaultLang is the default language code used when no default language is specified.
const DefaultLang = "en"

// I18n is the message store: one flattened key->message map per language.
// Keys of nested bundles are joined with dots ("page-about.title").
//
// Unlike a fully immutable store it accepts route bundles after
// construction (Install, Merge); readers always see a consistent snapshot.
type I18n struct {
	mu sync.RWMutex
	// lang -> flattened messages; inner maps are never mutated once published
	messages map[string]map[string]string

	defaultLang string

	// Optional handler called when a key is missing in the requested and default languages
	missingKeyHandler func(lang, key string)
}

// Option configures the I18n instance during construction.
type Option func(*I18n) error

// New creates a message store with the given options.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		messages:    make(map[string]map[string]string),
		defaultLang: DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if i.defaultLang == "" {
		return nil, ErrEmptyLanguage
	}

	return i, nil
}

// WithDefaultLanguage sets the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.defaultLang = lang
		return nil
	}
}

// WithMissingKeyHandler sets a handler called when a key is not found in the
// requested language nor in the default one.
func WithMissingKeyHandler(handler func(lang, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

// WithTranslations merges a (possibly nested) bundle into a language.
func WithTranslations(lang string, translations map[string]any) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.merge(lang, translations)
		return nil
	}
}

// WithBundles merges several language bundles, e.g. the result of LoadYAMLDir.
func WithBundles(bundles map[string]map[string]any) Option {
	return func(i *I18n) error {
		for lang, b := range bundles {
			if lang == "" {
				return ErrEmptyLanguage
			}
			i.merge(lang, b)
		}
		return nil
	}
}

// T returns the message for key in lang, falling back to the default
// language and finally to the key itself.
func (i *I18n) T(lang, key string) string {
	i.mu.RLock()
	msg, ok := i.messages[lang][key]
	if !ok && lang != i.defaultLang {
		msg, ok = i.messages[i.defaultLang][key]
	}
	i.mu.RUnlock()

	if ok {
		return msg
	}
	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, key)
	}
	return key
}

// Has reports whether lang itself defines key, without fallback.
func (i *I18n) Has(lang, key string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.messages[lang][key]
	return ok
}

// HasLanguage reports whether any message is registered for lang.
func (i *I18n) HasLanguage(lang string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.messages[lang]) > 0
}

// Install replaces every message of lang with bundle.
func (i *I18n) Install(lang string, bundle map[string]any) error {
	if lang == "" {
		return ErrEmptyLanguage
	}
	flat := flattenTranslations(bundle, "")
	i.mu.Lock()
	i.messages[lang] = flat
	i.mu.Unlock()
	return nil
}

// Merge lays bundle over the existing messages of lang.
func (i *I18n) Merge(lang string, bundle map[string]any) error {
	if lang == "" {
		return ErrEmptyLanguage
	}
	i.merge(lang, bundle)
	return nil
}

func (i *I18n) merge(lang string, bundle map[string]any) {
	flat := flattenTranslations(bundle, "")
	i.mu.Lock()
	defer i.mu.Unlock()
	next := make(map[string]string, len(i.messages[lang])+len(flat))
	maps.Copy(next, i.messages[lang])
	maps.Copy(next, flat)
	i.messages[lang] = next
}

// Clone returns an independent store sharing the current snapshot.
// Route bundles installed into the clone do not leak into the original.
func (i *I18n) Clone() *I18n {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return &I18n{
		messages:          maps.Clone(i.messages),
		defaultLang:       i.defaultLang,
		missingKeyHandler: i.missingKeyHandler,
	}
}

// Messages returns a copy of the flattened messages of lang.
func (i *I18n) Messages(lang string) map[string]string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return maps.Clone(i.messages[lang])
}

// Languages returns the languages with messages, default first, others sorted.
func (i *I18n) Languages() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	langs := make([]string, 0, len(i.messages)+1)
	langs = append(langs, i.defaultLang)
	for _, lang := range slices.Sorted(maps.Keys(i.messages)) {
		if lang != i.defaultLang {
			langs = append(langs, lang)
		}
	}
	return langs
}

// DefaultLanguage returns the fallback language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

// flattenTranslations recursively flattens a nested map into dot-notation keys.
func flattenTranslations(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flattenTranslations(v, fullKey))
		case map[string]string:
			for subKey, subVal := range v {
				result[fullKey+"."+subKey] = subVal
			}
		case nil:
			// skipped
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}

	return result
}
