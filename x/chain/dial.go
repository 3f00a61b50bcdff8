package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

var (
	ErrNoEndpoint      = errors.New("chain rpc endpoint is not configured")
	ErrChainIDMismatch = errors.New("chain ID mismatch")
)

// chainIDReader is the part of ethclient.Client used to verify the endpoint.
type chainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dial connects to cfg.RPCEndpoint and, when cfg.ChainID is set, checks that
// the node serves that chain. The returned client is meant to be shared by
// every component querying the chain.
func Dial(ctx context.Context, cfg Config, log zerolog.Logger) (*ethclient.Client, error) {
	endpoint := strings.TrimSpace(cfg.RPCEndpoint)
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", endpoint, err)
	}

	chainID, err := verifyChainID(ctx, client, cfg.ChainID)
	if err != nil {
		client.Close()
		return nil, err
	}

	log.Info().
		Str("component", "chain").
		Str("rpc_endpoint", endpoint).
		Str("chain_id", chainID.String()).
		Msg("Connected to chain")

	return client, nil
}

func verifyChainID(ctx context.Context, r chainIDReader, expected uint64) (*big.Int, error) {
	if expected == 0 {
		return new(big.Int), nil
	}
	got, err := r.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain ID: %w", err)
	}
	if !got.IsUint64() || got.Uint64() != expected {
		return nil, fmt.Errorf("%w: node reports %s, configured %d", ErrChainIDMismatch, got, expected)
	}
	return got, nil
}
