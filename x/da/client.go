package da

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// QueryClient is the read-only subset of go-ethereum's ethclient.Client used
// by network-backed oracles. Retries and connection pooling belong to the
// implementation.
type QueryClient interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	CallContractAtHash(ctx context.Context, msg ethereum.CallMsg, blockHash common.Hash) ([]byte, error)
}

// callAt issues msg against the block named by ref.
func callAt(ctx context.Context, client QueryClient, msg ethereum.CallMsg, ref BlockRef) ([]byte, error) {
	if hash, ok := ref.Hash(); ok {
		return client.CallContractAtHash(ctx, msg, hash)
	}
	return client.CallContract(ctx, msg, ref.Number())
}
