package config

import (
	"fmt"
	"net"
	"time"

	"github.com/vitistack/dnsmasq-hosts/internal/utils/timesutil"
	"github.com/vitistack/dnsmasq-hosts/pkg/loaders"
)

type Config struct {
	server Server
	api    API
	hosts  Hosts
	reload Reload
}

func (c *Config) Server() *Server {
	return &c.server
}

func (c *Config) API() *API {
	return &c.api
}

func (c *Config) Hosts() *Hosts {
	return &c.hosts
}

func (c *Config) Reload() *Reload {
	return &c.reload
}

// Server configuration
type Server struct {
	Env      string `env:"SRV_ENV" flag:"env"`
	LogLevel string `env:"LOG_LEVEL" flag:"log-level"`
}

func (s *Server) IsDev() bool {
	switch s.Env {
	case "development", "dev", "DEV":
		return true
	}
	return false
}

// API configuration
type API struct {
	Host string `env:"API_HOST" flag:"host"`
	Port string `env:"API_PORT" flag:"port"`
}

// Addr is the listen address, e.g. 0.0.0.0:3000
func (a *API) Addr() string {
	return net.JoinHostPort(a.Host, a.Port)
}

// Hosts configuration: where the mapping file and the bundled page live
type Hosts struct {
	File         string `env:"HOSTS_FILE" flag:"hosts-file"`
	IndexPage    string `env:"HOSTS_INDEX_PAGE" flag:"index-page"`
	LockFile     string `env:"HOSTS_LOCK_FILE" flag:"lock-file"`         // advisory lock, empty disables
	AtomicWrites bool   `env:"HOSTS_ATOMIC_WRITES" flag:"atomic-writes"` // temp file + rename on rewrite
}

// Reload configuration for signalling dnsmasq
type Reload struct {
	Enabled      bool               `env:"RELOAD_ENABLED" flag:"reload"`
	Pattern      string             `env:"RELOAD_PROCESS_PATTERN" flag:"reload-pattern"`
	Signal       string             `env:"RELOAD_SIGNAL" flag:"reload-signal"`
	Timeout      timesutil.Duration `env:"RELOAD_TIMEOUT" flag:"reload-timeout"`
	VerifyAddr   string             `env:"RELOAD_VERIFY_ADDR" flag:"reload-verify-addr"` // dnsmasq listen address, empty disables
	VerifySettle timesutil.Duration `env:"RELOAD_VERIFY_SETTLE" flag:"reload-verify-settle"`
	Workers      uint               `env:"RELOAD_WORKERS" flag:"reload-workers"`
	Buffer       uint               `env:"RELOAD_BUFFER" flag:"reload-buffer"`
}

// Load builds the configuration from defaults, environment, .env and flags. The last one wins.
func Load() (*Config, error) {
	return load(loaders.NewChainLoader(
		loaders.NewEnvloader(),
		loaders.NewFileLoader(".env"),
		loaders.NewFlagLoader(),
	))
}

func load(loader loaders.Loader) (*Config, error) {
	// creating default config variables where possible
	serverCfg := Server{
		Env:      "prod",
		LogLevel: "info",
	}
	apiCfg := API{
		Host: "0.0.0.0",
		Port: "3000",
	}
	hostsCfg := Hosts{
		File:      "./example.hosts",
		IndexPage: "./index.html",
	}
	reloadCfg := Reload{
		Enabled:      true,
		Pattern:      "dnsmasq",
		Signal:       "HUP",
		Timeout:      timesutil.FromDuration(10 * time.Second),
		VerifySettle: timesutil.FromDuration(200 * time.Millisecond),
		Workers:      1,
		Buffer:       16,
	}

	configs := []any{
		&serverCfg,
		&apiCfg,
		&hostsCfg,
		&reloadCfg,
	}

	for _, cfg := range configs {
		err := loader.Load(cfg)
		if err != nil {
			return nil, err
		}
	}

	c := &Config{
		server: serverCfg,
		api:    apiCfg,
		hosts:  hostsCfg,
		reload: reloadCfg,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.hosts.File == "" {
		return fmt.Errorf("%w: HOSTS_FILE is required", ErrInvalidConfig)
	}
	if c.api.Port == "" {
		return fmt.Errorf("%w: API_PORT is required", ErrInvalidConfig)
	}
	if c.reload.Enabled && c.reload.Pattern == "" {
		return fmt.Errorf("%w: RELOAD_PROCESS_PATTERN is required when reload is enabled", ErrInvalidConfig)
	}
	if c.reload.Timeout <= 0 {
		return fmt.Errorf("%w: RELOAD_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.reload.Workers == 0 {
		c.reload.Workers = 1
	}
	return nil
}
