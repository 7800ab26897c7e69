package ssg

import "time"

// Config holds the build settings. Storage and logging are chosen by the
// caller; see cmd/ssg.
type Config struct {
	OutDir        string        `env:"SSG_OUT_DIR" envDefault:"dist"`
	Workers       int           `env:"SSG_WORKERS" envDefault:"4"`
	Script        string        `env:"SSG_SCRIPT" envDefault:"sync"`
	AlternateBase string        `env:"SSG_ALTERNATE_BASE"`
	BundleTimeout time.Duration `env:"SSG_BUNDLE_TIMEOUT" envDefault:"10s"`
	Sitemap       bool          `env:"SSG_SITEMAP" envDefault:"true"`
	Manifest      bool          `env:"SSG_MANIFEST" envDefault:"true"`
	// Mock gives every page a browser-like cookie jar.
	Mock bool `env:"SSG_MOCK"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		OutDir:        "dist",
		Workers:       4,
		Script:        string(ScriptSync),
		BundleTimeout: 10 * time.Second,
		Sitemap:       true,
		Manifest:      true,
	}
}
