package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "LOCKWISE_"

// envFile is the dotenv file read before the environment. Variables that are
// already set take precedence over the file.
var envFile = ".env"

// parseEnv overlays LOCKWISE_* variables, e.g. LOCKWISE_MATCH_THRESHOLD=0.4
// or LOCKWISE_ACCESS_TOKEN_TTL=30m.
func parseEnv(config *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	k := koanf.New(".")
	provider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(provider, nil); err != nil {
		return err
	}
	if len(k.Keys()) == 0 {
		return nil
	}

	return k.UnmarshalWithConf("", config, koanf.UnmarshalConf{Tag: "koanf"})
}

