package http

import "time"

// Config bounds the work a single HTTP request may cause.
type Config struct {
	// Timeout applied to every estimate call.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// MaxBatchSize caps the number of requests in one batch.
	MaxBatchSize int `mapstructure:"max_batch_size" yaml:"max_batch_size"`
	// Concurrency caps in-flight estimates per batch.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	// MaxBodyBytes caps the request body size.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	// MaxExtraDataLen caps extra_data_len. Must not exceed da.MaxExtraDataLen.
	MaxExtraDataLen uint `mapstructure:"max_extra_data_len" yaml:"max_extra_data_len"`
}

func DefaultConfig() Config {
	return Config{
		Timeout:         5 * time.Second,
		MaxBatchSize:    64,
		Concurrency:     8,
		MaxBodyBytes:    4 << 20,
		MaxExtraDataLen: 4 << 20,
	}
}
