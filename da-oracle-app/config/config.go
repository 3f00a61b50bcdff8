package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	apisrv "github.com/compose-network/da-oracle/server/api"
	"github.com/compose-network/da-oracle/x/chain"
	"github.com/compose-network/da-oracle/x/da"
	dahttp "github.com/compose-network/da-oracle/x/da/http"
)

// Config holds the complete application configuration
type Config struct {
	API      apisrv.Config `mapstructure:"api"      yaml:"api"`
	Metrics  MetricsConfig `mapstructure:"metrics"  yaml:"metrics"`
	Log      LogConfig     `mapstructure:"log"      yaml:"log"`
	Chain    chain.Config  `mapstructure:"chain"    yaml:"chain"`
	Oracle   da.Config     `mapstructure:"oracle"   yaml:"oracle"`
	Estimate dahttp.Config `mapstructure:"estimate" yaml:"estimate"`
}

// MetricsConfig holds metrics configuration
// Port 0 serves metrics on the API listener.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// Load reads configuration from configPath (optional) and the environment and
// validates it. Environment keys mirror the YAML path with "." replaced by
// "_", e.g. CHAIN_RPC_ENDPOINT or ORACLE_TYPE.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply overrides first.
func Read(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if strings.TrimSpace(configPath) != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key is registered so
// that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("api.listen_addr", d.API.ListenAddr)
	v.SetDefault("api.read_header_timeout", d.API.ReadHeaderTimeout)
	v.SetDefault("api.read_timeout", d.API.ReadTimeout)
	v.SetDefault("api.write_timeout", d.API.WriteTimeout)
	v.SetDefault("api.idle_timeout", d.API.IdleTimeout)
	v.SetDefault("api.max_header_bytes", d.API.MaxHeaderBytes)
	v.SetDefault("api.cors_origins", d.API.CORSOrigins)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.port", d.Metrics.Port)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)

	v.SetDefault("chain.rpc_endpoint", d.Chain.RPCEndpoint)
	v.SetDefault("chain.chain_id", d.Chain.ChainID)
	v.SetDefault("chain.dial_timeout", d.Chain.DialTimeout)

	v.SetDefault("oracle.type", string(d.Oracle.Type))
	v.SetDefault("oracle.address", d.Oracle.Address)
	v.SetDefault("oracle.padding_seed", d.Oracle.PaddingSeed)
	v.SetDefault("oracle.calldata_overhead", d.Oracle.CalldataOverhead)

	v.SetDefault("estimate.timeout", d.Estimate.Timeout)
	v.SetDefault("estimate.max_batch_size", d.Estimate.MaxBatchSize)
	v.SetDefault("estimate.concurrency", d.Estimate.Concurrency)
	v.SetDefault("estimate.max_body_bytes", d.Estimate.MaxBodyBytes)
	v.SetDefault("estimate.max_extra_data_len", d.Estimate.MaxExtraDataLen)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateMetrics(); err != nil {
		return err
	}
	if err := c.validateOracle(); err != nil {
		return err
	}
	if err := c.validateEstimate(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if strings.TrimSpace(c.API.ListenAddr) == "" {
		return fmt.Errorf("api.listen_addr is required")
	}
	if c.API.ReadTimeout <= 0 || c.API.WriteTimeout <= 0 {
		return fmt.Errorf("api.read_timeout and api.write_timeout must be positive")
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if !c.Metrics.Enabled {
		return nil
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0-65535 when metrics enabled, got %d", c.Metrics.Port)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path)
	}
	return nil
}

func (c *Config) validateOracle() error {
	if err := c.Oracle.Validate(); err != nil {
		return fmt.Errorf("oracle: %w", err)
	}
	t, _ := da.ParseType(string(c.Oracle.Type))
	if t.RequiresClient() && strings.TrimSpace(c.Chain.RPCEndpoint) == "" {
		return fmt.Errorf("chain.rpc_endpoint is required for oracle.type %s", t)
	}
	return nil
}

func (c *Config) validateEstimate() error {
	if c.Estimate.Timeout <= 0 {
		return fmt.Errorf("estimate.timeout must be positive")
	}
	if c.Estimate.MaxBatchSize <= 0 {
		return fmt.Errorf("estimate.max_batch_size must be positive, got %d", c.Estimate.MaxBatchSize)
	}
	if c.Estimate.Concurrency <= 0 {
		return fmt.Errorf("estimate.concurrency must be positive, got %d", c.Estimate.Concurrency)
	}
	if c.Estimate.MaxExtraDataLen == 0 || c.Estimate.MaxExtraDataLen > da.MaxExtraDataLen {
		return fmt.Errorf("estimate.max_extra_data_len must be between 1 and %d, got %d",
			da.MaxExtraDataLen, c.Estimate.MaxExtraDataLen)
	}
	return nil
}

// YAML renders the configuration in the file format Load reads.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		API: apisrv.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    8081,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
		Chain:    chain.DefaultConfig(),
		Oracle:   da.DefaultConfig(),
		Estimate: dahttp.DefaultConfig(),
	}
}
