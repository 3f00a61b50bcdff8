package da

import (
	"context"

	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

var _ Oracle = (*CalldataOracle)(nil)

// CalldataOracle prices DA with the EIP-2028 calldata schedule and makes no
// network call. Bytes not yet present are charged as non-zero.
type CalldataOracle struct {
	overhead uint64
}

// NewCalldataOracle returns a local oracle adding overhead gas to every estimate.
func NewCalldataOracle(overhead uint64) *CalldataOracle {
	return &CalldataOracle{overhead: overhead}
}

// EstimateDAGas implements Oracle.
func (o *CalldataOracle) EstimateDAGas(_ context.Context, req Request) (Estimate, error) {
	if err := req.Validate(); err != nil {
		return Estimate{}, err
	}

	var zeros, nonZeros uint64
	for _, b := range req.Calldata {
		if b == 0 {
			zeros++
		} else {
			nonZeros++
		}
	}
	nonZeros += uint64(req.ExtraDataLen)

	cost := uint256.NewInt(o.overhead)
	cost.Add(cost, new(uint256.Int).Mul(uint256.NewInt(zeros), uint256.NewInt(params.TxDataZeroGas)))
	cost.Add(cost, new(uint256.Int).Mul(uint256.NewInt(nonZeros), uint256.NewInt(params.TxDataNonZeroGasEIP2028)))

	return Estimate{
		L1GasCost: clampGasCost(cost),
		UOData: UOData{
			Kind: KindCalldata,
			Calldata: &CalldataUOData{
				ZeroBytes:    zeros,
				NonZeroBytes: nonZeros,
			},
		},
		BlockData: BlockData{},
	}, nil
}

var _ Oracle = ZeroOracle{}

// ZeroOracle is used on chains that do not charge for data availability.
type ZeroOracle struct{}

// EstimateDAGas implements Oracle and always returns a zero cost.
func (ZeroOracle) EstimateDAGas(context.Context, Request) (Estimate, error) {
	return Estimate{L1GasCost: new(uint256.Int)}, nil
}
