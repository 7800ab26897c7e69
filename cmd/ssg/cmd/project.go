package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/ssgi18n/core/config"
	"github.com/dmitrymomot/ssgi18n/core/cookie"
	"github.com/dmitrymomot/ssgi18n/core/i18n"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/route"
	"github.com/dmitrymomot/ssgi18n/core/server"
	"github.com/dmitrymomot/ssgi18n/core/ssg"
	"github.com/dmitrymomot/ssgi18n/integration/database/redis"
	"github.com/dmitrymomot/ssgi18n/integration/storage/s3"
)

// Env is the environment configuration of the CLI.
type Env struct {
	Build   ssg.Config
	Preview server.Config
	S3      s3.Config
	Redis   redis.Config
	Cookie  cookie.Config

	// Storage is where build artifacts go: "local" or "s3".
	Storage       string `env:"SSG_STORAGE" envDefault:"local"`
	MessagePrefix string `env:"SSG_REDIS_MESSAGE_PREFIX" envDefault:"i18n"`
	LogLevel      string `env:"SSG_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"SSG_LOG_FORMAT" envDefault:"text"`
}

var i18nCandidates = []string{"i18n.yaml", "i18n.yml", "i18n.json", "i18n.toml"}

type project struct {
	root   string
	locale locale.Config
	routes []*route.Route
}

func loadEnv() (Env, error) {
	var env Env
	if err := config.Load(&env); err != nil {
		return Env{}, err
	}
	return env, nil
}

// loadProject reads the locale configuration and the route table of the
// project at root. Without --i18n the first i18n.* file found is used, then
// the SSG_* locale variables.
func loadProject(root string) (project, error) {
	p := project{root: root}

	switch {
	case i18nFile != "":
		cfg, err := locale.LoadConfigFile(resolve(root, i18nFile))
		if err != nil {
			return project{}, err
		}
		p.locale = cfg
	default:
		found := false
		for _, name := range i18nCandidates {
			path := resolve(root, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cfg, err := locale.LoadConfigFile(path)
			if err != nil {
				return project{}, err
			}
			p.locale, found = cfg, true
			break
		}
		if !found {
			if err := config.Parse(&p.locale); err != nil {
				return project{}, err
			}
		}
	}

	routes, err := route.LoadFile(resolve(root, routesFile))
	if err != nil {
		return project{}, err
	}
	p.routes = routes
	return p, nil
}

// loadMessages builds the global message store from dir. A missing
// directory gives an empty store.
func (p project) loadMessages(dir string) (*i18n.I18n, error) {
	var opts []i18n.Option
	if p.locale.DefaultLocale != "" {
		opts = append(opts, i18n.WithDefaultLanguage(p.locale.DefaultLocale))
	}
	bundles, err := i18n.LoadYAMLDir(os.DirFS(p.root), filepath.ToSlash(dir))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		opts = append(opts, i18n.WithBundles(bundles))
	}
	messages, err := i18n.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return messages, nil
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
