package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/lockwise/internal/flagx"
)

// parseFlags overlays the short command-line flags:
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-w string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-k string   password vault key (defaults to the -s secret)
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-m string   template backend: postgres, s3 or memory
//	-l string   log level
//	-u -p -b -g -e  S3 user, password, bucket, region, endpoint
//
// Only these flags are picked out of os.Args, so -c/-config and anything
// else is left alone.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], "-a", "-w", "-d", "-s", "-k", "-t", "-r", "-m", "-l", "-u", "-p", "-b", "-g", "-e")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.VaultKey, "k", config.VaultKey, "password vault key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.TemplateBackend, "m", config.TemplateBackend, "template backend (postgres, s3, memory)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Minute flags only apply when given, so sub-minute values from other
	// layers survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
		}
	})
	return nil
}
