package da

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Oracle estimates the L2 gas a rollup charges to publish a user operation's
// calldata to its data-availability layer.
//
// Implementations hold no per-call state and are safe for concurrent use.
// Failures of the underlying chain query are returned unchanged.
type Oracle interface {
	EstimateDAGas(ctx context.Context, req Request) (Estimate, error)
}

// Request is the input of a single DA gas estimate.
type Request struct {
	// Calldata is the encoded user operation. It is never modified.
	Calldata []byte
	// To is the address the operation targets.
	To common.Address
	// Block pins the estimate to a specific block.
	Block BlockRef
	// GasPrice is the L2 gas price used by stacks whose cost is quoted in wei.
	GasPrice *uint256.Int
	// ExtraDataLen is the number of bytes not yet present in Calldata that the
	// final encoding is expected to carry (signatures, paymaster data).
	ExtraDataLen uint
}

// MaxExtraDataLen bounds Request.ExtraDataLen. It is far above any
// transaction size a rollup accepts.
const MaxExtraDataLen = 1 << 24

var ErrExtraDataTooLarge = errors.New("extra data length too large")

// Validate checks the parts of r every oracle relies on.
func (r Request) Validate() error {
	if r.ExtraDataLen > MaxExtraDataLen {
		return fmt.Errorf("%w: %d > %d", ErrExtraDataTooLarge, r.ExtraDataLen, MaxExtraDataLen)
	}
	return nil
}

// Estimate is the result of an estimate.
type Estimate struct {
	// L1GasCost is expressed in L2 gas units and never exceeds MaxGasCost.
	L1GasCost *uint256.Int
	UOData    UOData
	BlockData BlockData
}

// MaxGasCost is the largest representable cost (2^128 - 1).
var MaxGasCost = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// clampGasCost saturates v at MaxGasCost.
func clampGasCost(v *uint256.Int) *uint256.Int {
	if v.Gt(MaxGasCost) {
		return new(uint256.Int).Set(MaxGasCost)
	}
	return v
}

// DataKind tags the variant held by UOData and BlockData.
type DataKind uint8

const (
	KindEmpty DataKind = iota
	KindCalldata
)

func (k DataKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindCalldata:
		return "calldata"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

func (k DataKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DataKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "empty", "":
		*k = KindEmpty
	case "calldata":
		*k = KindCalldata
	default:
		return fmt.Errorf("unknown data kind %q", string(b))
	}
	return nil
}

// UOData is per-user-operation auxiliary data produced by an estimate.
// The zero value is the empty variant.
type UOData struct {
	Kind     DataKind        `json:"kind"`
	Calldata *CalldataUOData `json:"calldata,omitempty"`
}

// CalldataUOData describes the byte composition priced by the calldata oracle.
type CalldataUOData struct {
	ZeroBytes    uint64 `json:"zero_bytes"`
	NonZeroBytes uint64 `json:"non_zero_bytes"`
}

// IsEmpty reports whether d is the empty variant.
func (d UOData) IsEmpty() bool { return d.Kind == KindEmpty }

// BlockData is per-block auxiliary data shared by every operation estimated
// against the same block. The zero value is the empty variant.
type BlockData struct {
	Kind DataKind `json:"kind"`
}

// IsEmpty reports whether d is the empty variant.
func (d BlockData) IsEmpty() bool { return d.Kind == KindEmpty }
