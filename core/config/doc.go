// Package config fills configuration structs from the environment.
//
// Struct fields are tagged for caarlos0/env. A .env file in the working
// directory is read once, on the first Load, so local builds can keep
// SSG_* settings next to the project:
//
//	type BuildEnv struct {
//		OutDir  string `env:"SSG_OUT_DIR" envDefault:"dist"`
//		Workers int    `env:"SSG_WORKERS" envDefault:"4"`
//	}
//
//	var cfg BuildEnv
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Load caches the parsed value per struct type, so every later Load of the
// same type returns the first result. Parse skips the cache; the CLI uses it
// for the locale variables, which are only consulted when no i18n file
// exists.
package config
