// Package config loads runtime configuration from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/2096779623/xLog/ipfsurl"
	"github.com/2096779623/xLog/logging"
	"github.com/2096779623/xLog/rpc"
	"github.com/2096779623/xLog/storage"
	"github.com/2096779623/xLog/storage/gateway"
	"github.com/2096779623/xLog/storage/kubo"
	"github.com/2096779623/xLog/storage/localfs"
)

// EnvPrimaryGateway names the environment variable holding the primary gateway base.
const EnvPrimaryGateway = "PRIMARY_GATEWAY_BASE"

// EnvPrefix prefixes every other environment override, e.g. XLOG_STORAGE_CACHE_DIR.
const EnvPrefix = "XLOG"

// Config holds the complete application configuration.
type Config struct {
	Gateway GatewayConfig `mapstructure:"gateway"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

// GatewayConfig configures address normalization.
type GatewayConfig struct {
	Primary string   `mapstructure:"primary"`
	Known   []string `mapstructure:"known"` // nil keeps ipfsurl.KnownGateways
	Mode    string   `mapstructure:"mode"`
}

// StorageConfig configures block retrieval.
type StorageConfig struct {
	CacheDir      string        `mapstructure:"cache_dir"`
	Fallback      bool          `mapstructure:"fallback"`
	KuboBin       string        `mapstructure:"kubo_bin"`
	RPCTarget     string        `mapstructure:"rpc_target"` // remote xlog-ipfs serve, host:port
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxBlockBytes int64         `mapstructure:"max_block_bytes"`
}

// ServerConfig configures the daemon listeners.
type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
	GRPCAddr string `mapstructure:"grpc_addr"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("gateway.mode", ipfsurl.Anchored.String())

	v.SetDefault("storage.fallback", true)
	v.SetDefault("storage.timeout", "15s")
	v.SetDefault("storage.max_block_bytes", gateway.DefaultMaxBlockBytes)

	v.SetDefault("server.http_addr", "127.0.0.1:8080")
	v.SetDefault("server.grpc_addr", "127.0.0.1:7777")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// NewViper returns a viper instance with defaults and environment bindings.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The primary gateway is read from its own, unprefixed variable.
	_ = v.BindEnv("gateway.primary", EnvPrimaryGateway, EnvPrefix+"_GATEWAY_PRIMARY")
	// AutomaticEnv only covers keys viper already knows; these have no default.
	for _, key := range []string{"gateway.known", "storage.cache_dir", "storage.kubo_bin", "storage.rpc_target"} {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
	return v
}

// Load reads file (if non-empty) into v, then decodes and validates.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Gateway.Primary) == "" {
		return fmt.Errorf("config: gateway.primary is required (set %s)", EnvPrimaryGateway)
	}
	if _, err := ipfsurl.ParseMode(c.Gateway.Mode); err != nil {
		return fmt.Errorf("config: gateway.mode: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Storage.Timeout < 0 {
		return errors.New("config: storage.timeout must not be negative")
	}
	return nil
}

// Normalizer builds the address normalizer described by c.
func (c *Config) Normalizer() (*ipfsurl.Normalizer, error) {
	mode, err := ipfsurl.ParseMode(c.Gateway.Mode)
	if err != nil {
		return nil, err
	}
	return ipfsurl.New(ipfsurl.Options{
		Gateway:  c.Gateway.Primary,
		Gateways: c.Gateway.Known,
		Mode:     mode,
	})
}

// OpenStorage builds the block store: optional Kubo node and remote xlog-ipfs
// daemon, then the primary gateway (and every known gateway when
// storage.fallback is set), behind an optional on-disk cache. The returned
// func releases connections held by the store.
func (c *Config) OpenStorage(n *ipfsurl.Normalizer, log *slog.Logger) (storage.CAS, func() error, error) {
	bases := []string{n.Gateway()}
	if c.Storage.Fallback {
		bases = n.Prefixes()
	}
	chain, err := gateway.Chain(bases, gateway.Options{
		Timeout:       c.Storage.Timeout,
		MaxBlockBytes: c.Storage.MaxBlockBytes,
		UserAgent:     "xlog-ipfs",
	})
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() error { return nil }
	var front []storage.CAS
	if c.Storage.KuboBin != "" {
		front = append(front, kubo.New(kubo.Options{Bin: c.Storage.KuboBin}))
	}
	if c.Storage.RPCTarget != "" {
		maxBlock := c.Storage.MaxBlockBytes
		if maxBlock <= 0 {
			maxBlock = gateway.DefaultMaxBlockBytes
		}
		// Leave room for the message envelope around the block.
		client, err := rpc.Dial(c.Storage.RPCTarget, rpc.DialOptions{MaxMsgBytes: int(maxBlock) + 1<<10})
		if err != nil {
			return nil, nil, fmt.Errorf("config: storage.rpc_target: %w", err)
		}
		client.Timeout = c.Storage.Timeout
		front = append(front, client)
		closeFn = client.Close
	}

	var src storage.CAS = chain
	if len(front) > 0 {
		src = storage.MultiCAS{Adapters: append(front, chain), ContinueOnError: true}
	}
	if c.Storage.CacheDir == "" {
		return src, closeFn, nil
	}
	cache, err := localfs.New(c.Storage.CacheDir)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return &storage.CachedCAS{Cache: cache, Source: src, Logger: log}, closeFn, nil
}
