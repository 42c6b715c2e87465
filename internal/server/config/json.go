package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/venus/internal/flagx"
	"github.com/dmitrijs2005/venus/internal/timex"
)

// JsonConfig is the on-disk shape of the -c/-config file. Absent or empty
// fields leave the current value untouched.
type JsonConfig struct {
	Mode              string         `json:"mode"`
	HTTPAddr          string         `json:"http_addr"`
	EndpointAddrGRPC  string         `json:"endpoint_addr_grpc"`
	DatabaseDSN       string         `json:"database_dsn"`
	SecretKey         string         `json:"secret_key"`
	TokenTTL          timex.Duration `json:"token_ttl"`
	BcryptCost        int            `json:"bcrypt_cost"`
	HashConcurrency   int            `json:"hash_concurrency"`
	InsecureDevBypass *bool          `json:"insecure_dev_bypass"`
	DevSubjectID      int64          `json:"dev_subject_id"`
	CookieSecure      *bool          `json:"cookie_secure"`
	StorageBackend    string         `json:"storage_backend"`
	UploadDir         string         `json:"upload_dir"`
	MaxUploadSize     int64          `json:"max_upload_size"`
	StaticDir         string         `json:"static_dir"`
	CORSOrigin        string         `json:"cors_origin"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	LogLevel          string         `json:"log_level"`
}

// parseJson overlays the JSON file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.Mode, c.Mode)
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenTTL.Duration != 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.HashConcurrency != 0 {
		config.HashConcurrency = c.HashConcurrency
	}
	if c.InsecureDevBypass != nil {
		config.InsecureDevBypass = *c.InsecureDevBypass
	}
	if c.DevSubjectID != 0 {
		config.DevSubjectID = c.DevSubjectID
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.UploadDir, c.UploadDir)
	if c.MaxUploadSize != 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	setString(&config.StaticDir, c.StaticDir)
	setString(&config.CORSOrigin, c.CORSOrigin)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
