package i18n

// Translator is a view of the store bound to one language.
type Translator struct {
	i18n     *I18n
	language string
}

// NewTranslator creates a Translator for language; empty means the default language.
func NewTranslator(i18n *I18n, language string) *Translator {
	if i18n == nil {
		panic("localization service is not provided")
	}
	if language == "" {
		language = i18n.DefaultLanguage()
	}
	return &Translator{
		i18n:     i18n,
		language: language,
	}
}

// T translates key in the translator's language.
func (t *Translator) T(key string) string {
	return t.i18n.T(t.language, key)
}

// Language returns the translator's language.
func (t *Translator) Language() string {
	return t.language
}
