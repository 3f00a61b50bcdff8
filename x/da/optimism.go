package da

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var _ Oracle = (*OptimismBedrockOracle)(nil)

// OptimismBedrockOracle asks the OP Stack GasPriceOracle for the L1 fee in wei
// and converts it into L2 gas at the request's gas price.
type OptimismBedrockOracle struct {
	address common.Address
	client  QueryClient
	padder  Padder
}

// NewOptimismBedrockOracle binds the GasPriceOracle at address to client.
func NewOptimismBedrockOracle(address common.Address, client QueryClient, opts ...Option) *OptimismBedrockOracle {
	o := buildOptions(opts)
	return &OptimismBedrockOracle{
		address: address,
		client:  client,
		padder:  o.padder,
	}
}

// Address returns the GasPriceOracle address queried by the oracle.
func (o *OptimismBedrockOracle) Address() common.Address {
	return o.address
}

// EstimateDAGas implements Oracle. A zero gas price yields MaxGasCost.
func (o *OptimismBedrockOracle) EstimateDAGas(ctx context.Context, req Request) (Estimate, error) {
	if err := req.Validate(); err != nil {
		return Estimate{}, err
	}
	data := pad(o.padder, req.Calldata, req.ExtraDataLen)

	input, err := gasPriceOracleABI.Pack(methodGetL1Fee, data)
	if err != nil {
		return Estimate{}, err
	}

	to := o.address
	out, err := callAt(ctx, o.client, ethereum.CallMsg{To: &to, Data: input}, req.Block)
	if err != nil {
		return Estimate{}, err
	}

	fee, err := decodeL1Fee(out)
	if err != nil {
		return Estimate{}, err
	}

	return Estimate{
		L1GasCost: feeToGas(fee, req.GasPrice),
		UOData:    UOData{},
		BlockData: BlockData{},
	}, nil
}

func decodeL1Fee(out []byte) (*uint256.Int, error) {
	values, err := gasPriceOracleABI.Unpack(methodGetL1Fee, out)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("getL1Fee: expected 1 return value, got %d", len(values))
	}
	fee, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("getL1Fee: unexpected return type %T", values[0])
	}
	v, overflow := uint256.FromBig(fee)
	if overflow {
		return new(uint256.Int).Set(MaxGasCost), nil
	}
	return v, nil
}

// feeToGas divides a wei fee by the gas price, saturating at MaxGasCost.
func feeToGas(fee, gasPrice *uint256.Int) *uint256.Int {
	if gasPrice == nil || gasPrice.IsZero() {
		return new(uint256.Int).Set(MaxGasCost)
	}
	return clampGasCost(new(uint256.Int).Div(fee, gasPrice))
}
