package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		mutate   func(*Config)
		expectEr bool
	}{
		{
			name: "all flags",
			args: []string{
				"-m", "production", "-a", "127.0.0.1:9090", "-g", ":50051", "-d", "sqlite:/tmp/v.db",
				"-s", "secret", "-t", "1h", "-k", "12", "-b", "s3", "-u", "/srv/up", "-w", "/srv/www",
				"-l", "debug", "-max-upload", "2048",
			},
			mutate: func(c *Config) {
				c.Mode = ModeProduction
				c.HTTPAddr = "127.0.0.1:9090"
				c.EndpointAddrGRPC = ":50051"
				c.DatabaseDSN = "sqlite:/tmp/v.db"
				c.SecretKey = "secret"
				c.TokenTTL = time.Hour
				c.BcryptCost = 12
				c.StorageBackend = StorageS3
				c.UploadDir = "/srv/up"
				c.StaticDir = "/srv/www"
				c.LogLevel = "debug"
				c.MaxUploadSize = 2048
			},
		},
		{
			name:   "unknown flags are ignored",
			args:   []string{"-c", "venus.json", "-x", "1", "-a", ":1"},
			mutate: func(c *Config) { c.HTTPAddr = ":1" },
		},
		{
			name:   "bool flag with equals",
			args:   []string{"-dev-bypass=true"},
			mutate: func(c *Config) { c.InsecureDevBypass = true },
		},
		{
			name:     "bad duration",
			args:     []string{"-t", "forever"},
			expectEr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaults()
			err := parseFlags(got, tt.args)
			if tt.expectEr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.mutate(want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}
