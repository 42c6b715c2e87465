// Package config builds the server configuration from layered sources:
// defaults, a .env file, a JSON file, environment variables and finally
// command-line flags. Later layers win. Validate is run last.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/venus/internal/server/auth"
	"golang.org/x/crypto/bcrypt"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"

	StorageFilesystem = "fs"
	StorageS3         = "s3"

	// DevSecretKey is used only in development mode when no secret is supplied.
	DevSecretKey = "dev-secret-change-me"
)

// Config holds runtime settings for the Venus server.
type Config struct {
	Mode             string
	HTTPAddr         string
	EndpointAddrGRPC string
	DatabaseDSN      string

	SecretKey         string
	TokenTTL          time.Duration
	BcryptCost        int
	HashConcurrency   int
	InsecureDevBypass bool
	DevSubjectID      int64
	CookieSecure      bool

	StorageBackend string
	UploadDir      string
	MaxUploadSize  int64
	StaticDir      string
	CORSOrigin     string

	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string

	LogLevel string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Mode = ModeDevelopment
	c.HTTPAddr = ":8085"
	c.EndpointAddrGRPC = ""
	c.DatabaseDSN = "sqlite:./venus.db"
	c.SecretKey = ""
	c.TokenTTL = auth.DefaultTokenTTL
	c.BcryptCost = bcrypt.DefaultCost
	c.HashConcurrency = 4
	c.InsecureDevBypass = false
	c.DevSubjectID = 1
	c.CookieSecure = false
	c.StorageBackend = StorageFilesystem
	c.UploadDir = "uploads/images"
	c.MaxUploadSize = 10 << 20
	c.StaticDir = ""
	c.CORSOrigin = "*"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "venus"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.LogLevel = "info"
}

// Load applies every layer to a fresh Config using args (without the program
// name) and lookupEnv. It returns the config and human-readable warnings for
// insecure development settings.
func Load(args []string, lookupEnv func(string) (string, bool)) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	env, err := loadEnvFile(args, lookupEnv)
	if err != nil {
		return nil, nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, nil, err
	}
	if err := parseEnv(cfg, env); err != nil {
		return nil, nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, nil, err
	}

	warnings := cfg.applyDevFallbacks()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, warnings, nil
}

// LoadConfig is Load over the process arguments and environment.
func LoadConfig() (*Config, []string, error) {
	return Load(os.Args[1:], os.LookupEnv)
}

// ResolverConfig projects the identity-resolution settings.
func (c *Config) ResolverConfig() auth.ResolverConfig {
	return auth.ResolverConfig{
		InsecureDevBypass: c.InsecureDevBypass,
		DevSubjectID:      c.DevSubjectID,
	}
}

func (c *Config) applyDevFallbacks() []string {
	if c.Mode != ModeDevelopment {
		return nil
	}
	var warnings []string
	if c.SecretKey == "" {
		c.SecretKey = DevSecretKey
		warnings = append(warnings, "no secret key configured, using the development default")
	}
	if c.InsecureDevBypass {
		warnings = append(warnings, "insecure dev bypass is on: requests to localhost are authenticated without a token")
		warnings = append(warnings, fmt.Sprintf("dev bypass acts as user %d; that account must exist or writes will fail", c.DevSubjectID))
	}
	return warnings
}
