package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	EnvServer    = "VENUS_SERVER"
	EnvTokenFile = "VENUS_TOKEN_FILE"
)

// Config holds runtime settings for venus-cli.
type Config struct {
	ServerURL string
	TokenFile string
	Timeout   time.Duration
}

// userHomeDir is swapped in tests.
var userHomeDir = os.UserHomeDir

// LoadDefaults populates c with defaults. The token file lives under the
// user's home directory, or the working directory when there is none.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8085"
	c.Timeout = 10 * time.Second

	home, err := userHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	c.TokenFile = filepath.Join(home, ".venus", "token")
}

// Load applies every layer using args (without the program name) and
// lookupEnv.
func Load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg, lookupEnv)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.LookupEnv)
}

func parseEnv(cfg *Config, lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvServer); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := lookupEnv(EnvTokenFile); ok && v != "" {
		cfg.TokenFile = v
	}
}
