// Package config loads runtime configuration for venus-cli.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. VENUS_SERVER and VENUS_TOKEN_FILE environment variables.
//  4. Command-line flags.
//
// Flags
//
//	-s string     base URL of the Venus HTTP API
//	-t string     path of the file holding the bearer token
//	-timeout dur  per-request timeout
//
// JSON file:
//
//	{
//	  "server_url": "http://127.0.0.1:8085",
//	  "token_file": "/home/me/.venus/token",
//	  "timeout": "10s"
//	}
package config
