// Package config defines process configuration for the exchange server.
// Config is loaded from a YAML file with overrides from FENRIR_* environment
// variables. Grounded on 0xtitan6-polymarket-mm/internal/config's viper
// Load/Validate shape (env prefix + AutomaticEnv + struct unmarshal).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level server configuration.
type Config struct {
	Symbol  string        `mapstructure:"symbol"`
	Server  ServerConfig  `mapstructure:"server"`
	Fees    FeeConfig     `mapstructure:"fees"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Stream  StreamConfig  `mapstructure:"stream"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls the TCP order-entry listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
}

// FeeConfig sets the maker/taker rates new books are constructed with.
type FeeConfig struct {
	MakerRate string `mapstructure:"maker_rate"`
	TakerRate string `mapstructure:"taker_rate"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// StreamConfig controls the WebSocket snapshot broadcaster.
type StreamConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Address         string `mapstructure:"address"`
	BroadcastMillis int    `mapstructure:"broadcast_millis"`
	Depth           int    `mapstructure:"depth"`
}

// LoggingConfig controls zerolog's global level.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Symbol: "BTC-USDT",
		Server: ServerConfig{Address: "0.0.0.0", Port: 9001},
		Fees:   FeeConfig{MakerRate: "0.001", TakerRate: "0.002"},
		Metrics: MetricsConfig{
			Enabled: true,
			Address: "0.0.0.0:9090",
		},
		Stream: StreamConfig{
			Enabled:         true,
			Address:         "0.0.0.0:9002",
			BroadcastMillis: 500,
			Depth:           10,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads config from a YAML file at path, falling back to Default
// values for anything the file and FENRIR_* environment variables don't
// set. An empty path reads only defaults and environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FENRIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("symbol", def.Symbol)
	v.SetDefault("server.address", def.Server.Address)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("fees.maker_rate", def.Fees.MakerRate)
	v.SetDefault("fees.taker_rate", def.Fees.TakerRate)
	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.address", def.Metrics.Address)
	v.SetDefault("stream.enabled", def.Stream.Enabled)
	v.SetDefault("stream.address", def.Stream.Address)
	v.SetDefault("stream.broadcast_millis", def.Stream.BroadcastMillis)
	v.SetDefault("stream.depth", def.Stream.Depth)
	v.SetDefault("logging.level", def.Logging.Level)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("config: symbol is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("config: server.port must be > 0")
	}
	if c.Fees.MakerRate == "" || c.Fees.TakerRate == "" {
		return fmt.Errorf("config: fees.maker_rate and fees.taker_rate are required")
	}
	if c.Stream.Depth <= 0 {
		return fmt.Errorf("config: stream.depth must be > 0")
	}
	return nil
}
