package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/lockwise/internal/flagx"
	"github.com/dmitrijs2005/lockwise/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations use timex.Duration
// so both "90s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	VaultKey                     string         `json:"vault_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	RequestTimeout               timex.Duration `json:"request_timeout"`
	LogLevel                     string         `json:"log_level"`
	TemplateBackend              string         `json:"template_backend"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	DescriptorDimension          int            `json:"descriptor_dimension"`
	MatchThreshold               float64        `json:"match_threshold"`
	UpdateFloor                  float64        `json:"update_floor"`
	UpdateCeiling                float64        `json:"update_ceiling"`
	UpdateWeight                 float64        `json:"update_weight"`
}

// parseJson overlays the file named by -c/-config, if any. The DTO is
// seeded from config first, so keys missing from the file keep their
// current values.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}
	c.apply(config)
	return nil
}

func toJson(config *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrGRPC:             config.EndpointAddrGRPC,
		EndpointAddrHTTP:             config.EndpointAddrHTTP,
		DatabaseDSN:                  config.DatabaseDSN,
		SecretKey:                    config.SecretKey,
		VaultKey:                     config.VaultKey,
		AccessTokenValidityDuration:  timex.Duration{Duration: config.AccessTokenValidityDuration},
		RefreshTokenValidityDuration: timex.Duration{Duration: config.RefreshTokenValidityDuration},
		RequestTimeout:               timex.Duration{Duration: config.RequestTimeout},
		LogLevel:                     config.LogLevel,
		TemplateBackend:              config.TemplateBackend,
		S3RootUser:                   config.S3RootUser,
		S3RootPassword:               config.S3RootPassword,
		S3Bucket:                     config.S3Bucket,
		S3Region:                     config.S3Region,
		S3BaseEndpoint:               config.S3BaseEndpoint,
		DescriptorDimension:          config.DescriptorDimension,
		MatchThreshold:               config.MatchThreshold,
		UpdateFloor:                  config.UpdateFloor,
		UpdateCeiling:                config.UpdateCeiling,
		UpdateWeight:                 config.UpdateWeight,
	}
}

func (c *JsonConfig) apply(config *Config) {
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.VaultKey = c.VaultKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	config.RequestTimeout = c.RequestTimeout.Duration
	config.LogLevel = c.LogLevel
	config.TemplateBackend = c.TemplateBackend
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.DescriptorDimension = c.DescriptorDimension
	config.MatchThreshold = c.MatchThreshold
	config.UpdateFloor = c.UpdateFloor
	config.UpdateCeiling = c.UpdateCeiling
	config.UpdateWeight = c.UpdateWeight
}
