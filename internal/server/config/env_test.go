package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	envFile = filepath.Join(t.TempDir(), "absent.env")
	t.Cleanup(func() { envFile = ".env" })

	t.Setenv("LOCKWISE_GRPC_ADDR", ":6000")
	t.Setenv("LOCKWISE_MATCH_THRESHOLD", "0.4")
	t.Setenv("LOCKWISE_ACCESS_TOKEN_TTL", "30m")
	t.Setenv("LOCKWISE_DESCRIPTOR_DIMENSION", "128")
	t.Setenv("LOCKWISE_TEMPLATE_BACKEND", "memory")

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))

	assert.Equal(t, ":6000", c.EndpointAddrGRPC)
	assert.Equal(t, 0.4, c.MatchThreshold)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 128, c.DescriptorDimension)
	assert.Equal(t, BackendMemory, c.TemplateBackend)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP, "unset keys keep their values")
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOCKWISE_S3_BUCKET=from-file\nLOCKWISE_LOG_LEVEL=warn\n"), 0o600))
	envFile = path
	t.Cleanup(func() {
		envFile = ".env"
		os.Unsetenv("LOCKWISE_S3_BUCKET")
	})

	// Already-set variables win over the file.
	t.Setenv("LOCKWISE_LOG_LEVEL", "debug")

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))

	assert.Equal(t, "from-file", c.S3Bucket)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestParseEnv_BadValue(t *testing.T) {
	envFile = filepath.Join(t.TempDir(), "absent.env")
	t.Cleanup(func() { envFile = ".env" })
	t.Setenv("LOCKWISE_DESCRIPTOR_DIMENSION", "many")

	var c Config
	c.LoadDefaults()
	assert.Error(t, parseEnv(&c))
}
