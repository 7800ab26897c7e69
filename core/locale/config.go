package locale

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPathVariable is the route parameter carrying the locale segment.
	DefaultPathVariable = "locale"
	// DefaultCookieName is the cookie persisting the active locale code.
	DefaultCookieName = "VITE-SSG-LOCALE"
)

// Config is the i18n configuration of a site.
// It can be decoded from JSON, YAML or TOML files, or from the environment.
type Config struct {
	DefaultLocale      string  `json:"defaultLocale" yaml:"defaultLocale" env:"SSG_DEFAULT_LOCALE"`
	Locales            Entries `json:"locales" yaml:"locales" env:"SSG_LOCALES"`
	DefaultLocaleOnURL bool    `json:"defaultLocaleOnUrl" yaml:"defaultLocaleOnUrl" env:"SSG_DEFAULT_LOCALE_ON_URL"`
	LocalePathVariable string  `json:"localePathVariable" yaml:"localePathVariable" env:"SSG_LOCALE_PATH_VARIABLE" envDefault:"locale"`
	CookieName         string  `json:"cookieName" yaml:"cookieName" env:"SSG_LOCALE_COOKIE" envDefault:"VITE-SSG-LOCALE"`
	Base               string  `json:"base" yaml:"base" env:"SSG_ALTERNATE_BASE"`
}

func (c Config) withDefaults() Config {
	if c.LocalePathVariable == "" {
		c.LocalePathVariable = DefaultPathVariable
	}
	if c.CookieName == "" {
		c.CookieName = DefaultCookieName
	}
	return c
}

// Entry is one configured locale: its code and a human label.
type Entry struct {
	Code        string
	Description string
}

// Entries is an ordered locale map. Decoding keeps the key order of the source document.
type Entries []Entry

// UnmarshalJSON decodes a JSON object preserving key order.
func (e *Entries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("locale: locales must be an object, got %v", tok)
	}

	var out Entries
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("locale: unexpected key %v", keyTok)
		}
		var desc string
		if err := dec.Decode(&desc); err != nil {
			return fmt.Errorf("locale: description of %q: %w", key, err)
		}
		out = append(out, Entry{Code: key, Description: desc})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*e = out
	return nil
}

// MarshalJSON encodes entries as a JSON object in order.
func (e Entries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(entry.Code)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(entry.Description)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML mapping preserving key order.
func (e *Entries) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("locale: locales must be a mapping (line %d)", node.Line)
	}
	out := make(Entries, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		out = append(out, Entry{
			Code:        node.Content[i].Value,
			Description: node.Content[i+1].Value,
		})
	}
	*e = out
	return nil
}

// UnmarshalText decodes the environment form "en:English,es:Español".
// A code without a label is allowed: "en,es".
func (e *Entries) UnmarshalText(text []byte) error {
	var out Entries
	for part := range strings.SplitSeq(string(text), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, desc, _ := strings.Cut(part, ":")
		out = append(out, Entry{Code: strings.TrimSpace(code), Description: strings.TrimSpace(desc)})
	}
	*e = out
	return nil
}

// Codes returns the configured codes in order.
func (e Entries) Codes() []string {
	codes := make([]string, len(e))
	for i, entry := range e {
		codes[i] = entry.Code
	}
	return codes
}

// tomlConfig mirrors Config for TOML documents; locale order is restored from decode metadata.
type tomlConfig struct {
	DefaultLocale      string            `toml:"defaultLocale"`
	Locales            map[string]string `toml:"locales"`
	DefaultLocaleOnURL bool              `toml:"defaultLocaleOnUrl"`
	LocalePathVariable string            `toml:"localePathVariable"`
	CookieName         string            `toml:"cookieName"`
	Base               string            `toml:"base"`
}

// LoadConfigFile reads an i18n configuration file. The format is chosen by
// extension: .json, .yaml/.yml or .toml.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("locale: read config %s: %w", path, err)
	}
	return ParseConfig(filepath.Ext(path), data)
}

// ParseConfig decodes an i18n configuration document of the given format
// (file extension with or without the leading dot).
func ParseConfig(format string, data []byte) (Config, error) {
	var cfg Config
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("locale: decode json config: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("locale: decode yaml config: %w", err)
		}
	case "toml":
		var raw tomlConfig
		md, err := toml.Decode(string(data), &raw)
		if err != nil {
			return Config{}, fmt.Errorf("locale: decode toml config: %w", err)
		}
		cfg = Config{
			DefaultLocale:      raw.DefaultLocale,
			DefaultLocaleOnURL: raw.DefaultLocaleOnURL,
			LocalePathVariable: raw.LocalePathVariable,
			CookieName:         raw.CookieName,
			Base:               raw.Base,
		}
		for _, key := range md.Keys() {
			if len(key) == 2 && key[0] == "locales" {
				cfg.Locales = append(cfg.Locales, Entry{Code: key[1], Description: raw.Locales[key[1]]})
			}
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, format)
	}
	return cfg.withDefaults(), nil
}
