package config

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinProductionSecretLen is the shortest secret accepted in production mode.
const MinProductionSecretLen = 32

// Validate checks the final configuration. Production mode refuses to start
// without a strong secret or with the dev bypass enabled.
func (c *Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeDevelopment:
	case ModeProduction:
		switch {
		case c.SecretKey == "":
			errs = append(errs, errors.New("secret key is required in production"))
		case c.SecretKey == DevSecretKey:
			errs = append(errs, errors.New("development secret key must not be used in production"))
		case len(c.SecretKey) < MinProductionSecretLen:
			errs = append(errs, fmt.Errorf("secret key must be at least %d bytes in production", MinProductionSecretLen))
		}
		if c.InsecureDevBypass {
			errs = append(errs, errors.New("insecure dev bypass must be disabled in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}

	if c.SecretKey == "" && c.Mode == ModeDevelopment {
		errs = append(errs, errors.New("secret key is empty"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.InsecureDevBypass && c.DevSubjectID <= 0 {
		errs = append(errs, errors.New("dev subject id must be positive when the dev bypass is on"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("max upload size must be positive"))
	}

	switch c.StorageBackend {
	case StorageFilesystem:
		if c.UploadDir == "" {
			errs = append(errs, errors.New("upload dir is required for fs storage"))
		}
	case StorageS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("s3 bucket is required for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.StorageBackend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
