package chain

import "time"

// Config describes the L2 node the oracle queries.
type Config struct {
	// RPC endpoint of the L2 node (http(s) or ws(s)).
	RPCEndpoint string `mapstructure:"rpc_endpoint" yaml:"rpc_endpoint"`
	// Expected chain ID. Zero skips the check.
	ChainID uint64 `mapstructure:"chain_id" yaml:"chain_id"`
	// DialTimeout bounds the initial connection and chain ID check.
	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
}

func DefaultConfig() Config {
	return Config{
		DialTimeout: 10 * time.Second,
	}
}
