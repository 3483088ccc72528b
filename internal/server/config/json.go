package config

import (
	"encoding/json"
	"os"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/flagx"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// Fields left out of the file keep the value they had before parsing.
type JsonConfig struct {
	EndpointAddrHTTP     string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC     string         `json:"endpoint_addr_grpc"`
	DatabaseDSN          string         `json:"database_dsn"`
	DBConnectAttempts    int            `json:"db_connect_attempts"`
	ObjectStore          string         `json:"object_store"`
	DiskRoot             string         `json:"disk_root"`
	PublicBaseURL        string         `json:"public_base_url"`
	S3AccessKey          string         `json:"s3_access_key"`
	S3SecretKey          string         `json:"s3_secret_key"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3BaseEndpoint       string         `json:"s3_base_endpoint"`
	ReconcileConcurrency int            `json:"reconcile_concurrency"`
	MaxUploadBytes       int64          `json:"max_upload_bytes"`
	HealthCheckInterval  timex.Duration `json:"health_check_interval"`
	ShutdownTimeout      timex.Duration `json:"shutdown_timeout"`
	LogFile              string         `json:"log_file"`
	LogDebug             bool           `json:"log_debug"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config flag, or $CONFIG. If neither is
// set, no JSON file is loaded. If the file cannot be read or contains invalid
// JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.DBConnectAttempts, c.DBConnectAttempts)
	overlay(&config.ObjectStore, c.ObjectStore)
	overlay(&config.DiskRoot, c.DiskRoot)
	overlay(&config.PublicBaseURL, c.PublicBaseURL)
	overlay(&config.S3AccessKey, c.S3AccessKey)
	overlay(&config.S3SecretKey, c.S3SecretKey)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.ReconcileConcurrency, c.ReconcileConcurrency)
	overlay(&config.MaxUploadBytes, c.MaxUploadBytes)
	overlay(&config.HealthCheckInterval, c.HealthCheckInterval.Duration)
	overlay(&config.ShutdownTimeout, c.ShutdownTimeout.Duration)
	overlay(&config.LogFile, c.LogFile)
	overlay(&config.LogDebug, c.LogDebug)
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
