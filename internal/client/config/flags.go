package config

import "github.com/spf13/cobra"

const (
	flagConfig              = "config"
	flagAPIURL              = "api-url"
	flagGRPCEndpointAddr    = "grpc-addr"
	flagRequestTimeout      = "timeout"
	flagOnlineCheckInterval = "check-interval"
	flagPreviewDir          = "preview-dir"
)

var flagKeys = map[string]string{
	keyAPIURL:              flagAPIURL,
	keyGRPCEndpointAddr:    flagGRPCEndpointAddr,
	keyRequestTimeout:      flagRequestTimeout,
	keyOnlineCheckInterval: flagOnlineCheckInterval,
	keyPreviewDir:          flagPreviewDir,
}

// RegisterFlags adds the editor's persistent flags to cmd. The flag defaults
// are the built-in ones, so an unset flag never hides an environment value.
func RegisterFlags(cmd *cobra.Command) {
	var d Config
	d.LoadDefaults()

	fs := cmd.PersistentFlags()
	fs.StringP(flagConfig, "c", "", "config file (json, yaml or toml)")
	fs.StringP(flagAPIURL, "a", d.APIURL, "base URL of the vehicles API")
	fs.StringP(flagGRPCEndpointAddr, "g", d.GRPCEndpointAddr, "address:port of the gRPC health endpoint")
	fs.DurationP(flagRequestTimeout, "t", d.RequestTimeout, "overall timeout of one API request")
	fs.DurationP(flagOnlineCheckInterval, "i", d.OnlineCheckInterval, "online status check interval")
	fs.String(flagPreviewDir, d.PreviewDir, "directory for local image previews")
}
