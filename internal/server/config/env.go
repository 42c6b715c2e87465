package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/dmitrijs2005/venus/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// lookupFunc mirrors os.LookupEnv.
type lookupFunc func(string) (string, bool)

// loadEnvFile reads the dotenv file named by -env, VENUS_ENV_FILE or ".env"
// and returns a lookup in which real environment variables win over the file.
// A missing default file is not an error; a missing explicit one is.
func loadEnvFile(args []string, lookupEnv lookupFunc) (lookupFunc, error) {
	path := flagx.LookupString(args, "-env")
	explicit := path != ""
	if !explicit {
		if v, ok := lookupEnv("VENUS_ENV_FILE"); ok && v != "" {
			path, explicit = v, true
		} else {
			path = defaultEnvFile
		}
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return lookupEnv, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}

	return func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// parseEnv overlays environment variables. JWT_SECRET, DATABASE_URL and PORT
// are honoured for compatibility with older deployments; the VENUS_*
// spelling wins when both are set.
func parseEnv(c *Config, lookup lookupFunc) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	var errs []error
	parse := func(key string, fn func(string) error) {
		if v, ok := lookup(key); ok && v != "" {
			if err := fn(v); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
		}
	}

	str(&c.Mode, "VENUS_MODE")
	if port, ok := lookup("PORT"); ok && port != "" {
		c.HTTPAddr = ":" + port
	}
	str(&c.HTTPAddr, "VENUS_HTTP_ADDR")
	str(&c.EndpointAddrGRPC, "VENUS_GRPC_ADDR")
	str(&c.DatabaseDSN, "VENUS_DATABASE_DSN", "DATABASE_URL")
	str(&c.SecretKey, "VENUS_SECRET_KEY", "JWT_SECRET")

	parse("VENUS_TOKEN_TTL", func(v string) (err error) {
		c.TokenTTL, err = time.ParseDuration(v)
		return err
	})
	parse("VENUS_BCRYPT_COST", func(v string) (err error) {
		c.BcryptCost, err = strconv.Atoi(v)
		return err
	})
	parse("VENUS_HASH_CONCURRENCY", func(v string) (err error) {
		c.HashConcurrency, err = strconv.Atoi(v)
		return err
	})
	parse("VENUS_INSECURE_DEV_BYPASS", func(v string) (err error) {
		c.InsecureDevBypass, err = strconv.ParseBool(v)
		return err
	})
	parse("VENUS_DEV_SUBJECT_ID", func(v string) (err error) {
		c.DevSubjectID, err = strconv.ParseInt(v, 10, 64)
		return err
	})
	parse("VENUS_COOKIE_SECURE", func(v string) (err error) {
		c.CookieSecure, err = strconv.ParseBool(v)
		return err
	})
	parse("VENUS_MAX_UPLOAD_SIZE", func(v string) (err error) {
		c.MaxUploadSize, err = strconv.ParseInt(v, 10, 64)
		return err
	})

	str(&c.StorageBackend, "VENUS_STORAGE_BACKEND")
	str(&c.UploadDir, "VENUS_UPLOAD_DIR")
	str(&c.StaticDir, "VENUS_STATIC_DIR")
	str(&c.CORSOrigin, "VENUS_CORS_ORIGIN")
	str(&c.S3RootUser, "VENUS_S3_ROOT_USER")
	str(&c.S3RootPassword, "VENUS_S3_ROOT_PASSWORD")
	str(&c.S3Bucket, "VENUS_S3_BUCKET")
	str(&c.S3Region, "VENUS_S3_REGION")
	str(&c.S3BaseEndpoint, "VENUS_S3_BASE_ENDPOINT")
	str(&c.LogLevel, "VENUS_LOG_LEVEL")

	return errors.Join(errs...)
}
