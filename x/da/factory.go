package da

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Type names a supported rollup / DA stack.
type Type string

const (
	TypeNone            Type = "none"
	TypeArbitrumNitro   Type = "arbitrum_nitro"
	TypeOptimismBedrock Type = "optimism_bedrock"
	TypeCalldata        Type = "calldata"
)

var (
	ErrUnknownType   = errors.New("unknown DA gas oracle type")
	ErrMissingClient = errors.New("DA gas oracle requires a query client")
)

// Types lists every supported oracle type.
func Types() []Type {
	return []Type{TypeNone, TypeArbitrumNitro, TypeOptimismBedrock, TypeCalldata}
}

// ParseType normalises s into a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// RequiresClient reports whether the type issues chain queries.
func (t Type) RequiresClient() bool {
	return t == TypeArbitrumNitro || t == TypeOptimismBedrock
}

// DefaultAddress is the well-known helper contract for t, or the zero address.
func (t Type) DefaultAddress() common.Address {
	switch t {
	case TypeArbitrumNitro:
		return DefaultNodeInterfaceAddress
	case TypeOptimismBedrock:
		return DefaultGasPriceOracleAddress
	default:
		return common.Address{}
	}
}

// Config selects and parameterises an oracle.
type Config struct {
	Type Type `mapstructure:"type" yaml:"type"`
	// Address of the helper contract; empty selects the stack default.
	Address string `mapstructure:"address" yaml:"address"`
	// PaddingSeed makes padding reproducible when non-zero.
	PaddingSeed int64 `mapstructure:"padding_seed" yaml:"padding_seed"`
	// CalldataOverhead is the fixed gas added by the calldata oracle.
	CalldataOverhead uint64 `mapstructure:"calldata_overhead" yaml:"calldata_overhead"`
}

func DefaultConfig() Config {
	return Config{Type: TypeNone}
}

// Validate checks the type and address.
func (c Config) Validate() error {
	if _, err := ParseType(string(c.Type)); err != nil {
		return err
	}
	if addr := strings.TrimSpace(c.Address); addr != "" && !common.IsHexAddress(addr) {
		return fmt.Errorf("invalid oracle address %q", c.Address)
	}
	return nil
}

// ResolvedAddress returns the configured address or the stack default.
func (c Config) ResolvedAddress() common.Address {
	if addr := strings.TrimSpace(c.Address); addr != "" {
		return common.HexToAddress(addr)
	}
	t, _ := ParseType(string(c.Type))
	return t.DefaultAddress()
}

// New constructs the oracle described by cfg. client may be nil for types
// that make no chain queries.
func New(cfg Config, client QueryClient) (Oracle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t, _ := ParseType(string(cfg.Type))
	if t.RequiresClient() && client == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingClient, t)
	}

	var opts []Option
	if cfg.PaddingSeed != 0 {
		opts = append(opts, WithPadder(NewRandomPadder(cfg.PaddingSeed)))
	}

	switch t {
	case TypeArbitrumNitro:
		return NewArbitrumNitroOracle(cfg.ResolvedAddress(), client, opts...), nil
	case TypeOptimismBedrock:
		return NewOptimismBedrockOracle(cfg.ResolvedAddress(), client, opts...), nil
	case TypeCalldata:
		return NewCalldataOracle(cfg.CalldataOverhead), nil
	default:
		return ZeroOracle{}, nil
	}
}
