package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/venus/internal/flagx"
)

var flagNames = []string{
	"-m", "-a", "-g", "-d", "-s", "-t", "-k", "-dev-bypass",
	"-b", "-u", "-w", "-l", "-max-upload",
}

// parseFlags overlays command-line flags.
//
//	-m string      mode: development | production
//	-a string      HTTP bind address (":8085")
//	-g string      gRPC bind address, empty disables the listener
//	-d string      database DSN (postgres URL or sqlite:<path>)
//	-s string      token signing secret
//	-t duration    token lifetime ("168h")
//	-k int         bcrypt cost
//	-dev-bypass    treat localhost requests as the dev subject (use -dev-bypass=true)
//	-b string      blob storage backend: fs | s3
//	-u string      upload directory for the fs backend
//	-w string      static web root
//	-l string      log level
//	-max-upload n  upload size limit in bytes
//
// Only the flags above are looked at; everything else in args is ignored so
// that -c and -env can share the command line.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, flagNames)

	fs := flag.NewFlagSet("venus-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Mode, "m", config.Mode, "mode")
	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token ttl")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.BoolVar(&config.InsecureDevBypass, "dev-bypass", config.InsecureDevBypass, "insecure localhost bypass")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend")
	fs.StringVar(&config.UploadDir, "u", config.UploadDir, "upload dir")
	fs.StringVar(&config.StaticDir, "w", config.StaticDir, "static dir")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.Int64Var(&config.MaxUploadSize, "max-upload", config.MaxUploadSize, "max upload size")

	return fs.Parse(args)
}
