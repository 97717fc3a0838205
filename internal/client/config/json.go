package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/lockwise/internal/flagx"
	"github.com/dmitrijs2005/lockwise/internal/timex"
)

// JsonConfig is the on-disk form of Config.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	SessionDB          string         `json:"session_db"`
}

// parseJson overlays cfg with the file named by -c/-config. Keys absent
// from the file keep their current values.
func parseJson(cfg *Config) error {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	jc := JsonConfig{
		ServerEndpointAddr: cfg.ServerEndpointAddr,
		RequestTimeout:     timex.Duration{Duration: cfg.RequestTimeout},
		SessionDB:          cfg.SessionDB,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.SessionDB = jc.SessionDB
	return nil
}
