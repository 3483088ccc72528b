package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/flagx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv(flagx.ConfigEnv, "")

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":    "www.example:8080",
		"endpoint_addr_grpc":    "www.example:9000",
		"database_dsn":          "postgres://db",
		"db_connect_attempts":   2,
		"object_store":          "disk",
		"disk_root":             "/data",
		"public_base_url":       "https://cdn.example",
		"s3_access_key":         "user",
		"s3_secret_key":         "password",
		"s3_bucket":             "bucket",
		"s3_region":             "region",
		"s3_base_endpoint":      "base_endpoint",
		"reconcile_concurrency": 3,
		"max_upload_bytes":      1024,
		"health_check_interval": "15s",
		"shutdown_timeout":      2000000000,
		"log_file":              "server.log",
		"log_debug":             true,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, 2, cfg.DBConnectAttempts)
		assert.Equal(t, "disk", cfg.ObjectStore)
		assert.Equal(t, "/data", cfg.DiskRoot)
		assert.Equal(t, "https://cdn.example", cfg.PublicBaseURL)
		assert.Equal(t, "user", cfg.S3AccessKey)
		assert.Equal(t, "password", cfg.S3SecretKey)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, 3, cfg.ReconcileConcurrency)
		assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
		assert.Equal(t, 15*time.Second, cfg.HealthCheckInterval)
		assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "server.log", cfg.LogFile)
		assert.True(t, cfg.LogDebug)
	})

	t.Run("CONFIG env is used without flags", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(flagx.ConfigEnv, pathFlag)

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
	})

	t.Run("missing keys keep previous values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"s3_bucket": "other"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "other", cfg.S3Bucket)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, 5*time.Second, cfg.HealthCheckInterval)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrGRPC:    "defaults:1234",
			DatabaseDSN:         "postgres://gallery@db:5432/vehicles",
			S3Bucket:            "s3bucket",
			HealthCheckInterval: 2 * time.Minute,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://gallery@db:5432/vehicles", cfg.DatabaseDSN)
		assert.Equal(t, "s3bucket", cfg.S3Bucket)
		assert.Equal(t, 2*time.Minute, cfg.HealthCheckInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
