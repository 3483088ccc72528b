package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GALLERY_API_URL.
const EnvPrefix = "GALLERY"

const (
	keyAPIURL              = "api_url"
	keyGRPCEndpointAddr    = "grpc_addr"
	keyRequestTimeout      = "request_timeout"
	keyOnlineCheckInterval = "online_check_interval"
	keyPreviewDir          = "preview_dir"
)

// Config holds runtime settings for the gallery editor.
type Config struct {
	APIURL              string
	GRPCEndpointAddr    string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	PreviewDir          string
}

func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8080"
	c.GRPCEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Minute
	c.OnlineCheckInterval = 3 * time.Second
	c.PreviewDir = filepath.Join(os.TempDir(), "gallery-previews")
}

// Load resolves the configuration for cmd. Flags set on the command line win
// over GALLERY_* environment variables, which win over the config file,
// which wins over the defaults.
func Load(cmd *cobra.Command) (*Config, error) {
	var d Config
	d.LoadDefaults()

	v := viper.New()
	v.SetDefault(keyAPIURL, d.APIURL)
	v.SetDefault(keyGRPCEndpointAddr, d.GRPCEndpointAddr)
	v.SetDefault(keyRequestTimeout, d.RequestTimeout)
	v.SetDefault(keyOnlineCheckInterval, d.OnlineCheckInterval)
	v.SetDefault(keyPreviewDir, d.PreviewDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := readConfigFile(v, configFile(cmd)); err != nil {
		return nil, err
	}

	c := &Config{
		APIURL:              v.GetString(keyAPIURL),
		GRPCEndpointAddr:    v.GetString(keyGRPCEndpointAddr),
		RequestTimeout:      v.GetDuration(keyRequestTimeout),
		OnlineCheckInterval: v.GetDuration(keyOnlineCheckInterval),
		PreviewDir:          v.GetString(keyPreviewDir),
	}
	if c.OnlineCheckInterval <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", keyOnlineCheckInterval, c.OnlineCheckInterval)
	}
	return c, nil
}

func configFile(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup(flagConfig); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return os.Getenv(EnvPrefix + "_CONFIG")
}

// readConfigFile loads path when given. Its extension selects the format
// (json, yaml, toml).
func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
