// Package config loads runtime configuration for the gallery editor.
//
// Sources, lowest precedence first:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional config file given by --config/-c or GALLERY_CONFIG. Its
//     extension selects the format (json, yaml, toml).
//  3. GALLERY_* environment variables, e.g. GALLERY_API_URL.
//  4. Command-line flags.
//
// File keys and their flags:
//
//	api_url                 -a, --api-url         base URL of the vehicles API
//	grpc_addr               -g, --grpc-addr       gRPC health endpoint
//	request_timeout         -t, --timeout         e.g. "5m"
//	online_check_interval   -i, --check-interval  e.g. "3s"
//	preview_dir                 --preview-dir     local preview files
package config
