package config

import (
	"flag"
	"os"
	"time"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/flagx"
)

var serverFlags = []string{"-a", "-l", "-d", "-r", "-o", "-f", "-w", "-u", "-p", "-b", "-g", "-e", "-n", "-m", "-i", "-t", "-L"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-l string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-r int      database connect attempts at startup
//	-o string   object store backend: s3 or disk
//	-f string   root directory of the disk object store
//	-w string   public base URL of stored objects
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-n int      reconciliation concurrency
//	-m int      max upload size, megabytes
//	-i int      health check interval, seconds
//	-t int      shutdown timeout, seconds
//	-L string   log file
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in seconds and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port of the gRPC health endpoint")
	fs.StringVar(&config.EndpointAddrHTTP, "l", config.EndpointAddrHTTP, "address and port of the HTTP API")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.DBConnectAttempts, "r", config.DBConnectAttempts, "database connect attempts")

	fs.StringVar(&config.ObjectStore, "o", config.ObjectStore, "object store: s3 or disk")
	fs.StringVar(&config.DiskRoot, "f", config.DiskRoot, "disk object store root")
	fs.StringVar(&config.PublicBaseURL, "w", config.PublicBaseURL, "public base URL of stored objects")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.IntVar(&config.ReconcileConcurrency, "n", config.ReconcileConcurrency, "reconciliation concurrency")
	maxUploadMB := fs.Int64("m", config.MaxUploadBytes>>20, "max upload size (in megabytes)")
	healthCheckInterval := fs.Int("i", int(config.HealthCheckInterval.Seconds()), "health check interval (in seconds)")
	shutdownTimeout := fs.Int("t", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")
	fs.StringVar(&config.LogFile, "L", config.LogFile, "log file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.MaxUploadBytes = *maxUploadMB << 20
	config.HealthCheckInterval = time.Duration(*healthCheckInterval) * time.Second
	config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
}
