package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/lockwise/internal/flagx"
)

// parseFlags overlays -a, -t and -f. Other arguments are ignored.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], "-a", "-t", "-f")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionDB, "f", cfg.SessionDB, "session database file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
