package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, "", cfg.DatabaseDSN)
	assert.Equal(t, 10*time.Minute, cfg.OTPValidityDuration)
	assert.Equal(t, 24*time.Hour, cfg.SessionTokenValidityDuration)
	assert.Equal(t, "proposals", cfg.S3Bucket)
}

func TestParseEnv_Overlay(t *testing.T) {
	t.Setenv("PK_HTTP_ADDR", ":9090")
	t.Setenv("PK_AI_API_KEY", "test-key")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "test-key", cfg.AIAPIKey)
	// untouched values keep their defaults
	assert.Equal(t, "secretKey", cfg.SecretKey)
}

func TestParseJson_Overlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"endpoint_addr_http": ":7070",
		"secret_key": "from-json",
		"otp_validity_duration": "5m",
		"ai_timeout": "90s"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "from-json", cfg.SecretKey)
	assert.Equal(t, 5*time.Minute, cfg.OTPValidityDuration)
	assert.Equal(t, 90*time.Second, cfg.AITimeout)
	// fields absent from the file keep their defaults
	assert.Equal(t, "proposals", cfg.S3Bucket)
}

func TestParseFlags_Overlay(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-a", ":6060", "-o", "15"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":6060", cfg.EndpointAddrHTTP)
	assert.Equal(t, 15*time.Minute, cfg.OTPValidityDuration)
}
