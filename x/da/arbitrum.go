package da

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var _ Oracle = (*ArbitrumNitroOracle)(nil)

// ArbitrumNitroOracle estimates DA gas through NodeInterface.gasEstimateL1Component
// on Arbitrum Nitro chains.
//
// The call always sets contractCreation=true: a creation is priced at least as
// high as a call with the same data, so the estimate is the conservative one.
type ArbitrumNitroOracle struct {
	address common.Address
	client  QueryClient
	padder  Padder
}

// NewArbitrumNitroOracle binds the NodeInterface at address to client.
func NewArbitrumNitroOracle(address common.Address, client QueryClient, opts ...Option) *ArbitrumNitroOracle {
	o := buildOptions(opts)
	return &ArbitrumNitroOracle{
		address: address,
		client:  client,
		padder:  o.padder,
	}
}

// Address returns the NodeInterface address queried by the oracle.
func (o *ArbitrumNitroOracle) Address() common.Address {
	return o.address
}

// EstimateDAGas implements Oracle. The gas price is not used.
func (o *ArbitrumNitroOracle) EstimateDAGas(ctx context.Context, req Request) (Estimate, error) {
	if err := req.Validate(); err != nil {
		return Estimate{}, err
	}
	data := pad(o.padder, req.Calldata, req.ExtraDataLen)

	input, err := nodeInterfaceABI.Pack(methodGasEstimateL1Component, req.To, true, data)
	if err != nil {
		return Estimate{}, err
	}

	to := o.address
	out, err := callAt(ctx, o.client, ethereum.CallMsg{To: &to, Data: input}, req.Block)
	if err != nil {
		return Estimate{}, err
	}

	gasForL1, err := decodeGasEstimateL1Component(out)
	if err != nil {
		return Estimate{}, err
	}

	return Estimate{
		L1GasCost: uint256.NewInt(gasForL1),
		UOData:    UOData{},
		BlockData: BlockData{},
	}, nil
}

// decodeGasEstimateL1Component returns gasEstimateForL1 and drops baseFee and
// l1BaseFeeEstimate.
func decodeGasEstimateL1Component(out []byte) (uint64, error) {
	values, err := nodeInterfaceABI.Unpack(methodGasEstimateL1Component, out)
	if err != nil {
		return 0, err
	}
	if len(values) != 3 {
		return 0, fmt.Errorf("gasEstimateL1Component: expected 3 return values, got %d", len(values))
	}
	gas, ok := values[0].(uint64)
	if !ok {
		return 0, fmt.Errorf("gasEstimateL1Component: unexpected gasEstimateForL1 type %T", values[0])
	}
	return gas, nil
}
