package da

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	msg    ethereum.CallMsg
	number *big.Int
	hash   common.Hash
	atHash bool
}

// stubClient is a QueryClient answering from respond and recording every call.
type stubClient struct {
	mu      sync.Mutex
	calls   []recordedCall
	respond func(msg ethereum.CallMsg) ([]byte, error)
}

func (s *stubClient) CallContract(_ context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, recordedCall{msg: msg, number: blockNumber})
	s.mu.Unlock()
	return s.respond(msg)
}

func (s *stubClient) CallContractAtHash(_ context.Context, msg ethereum.CallMsg, blockHash common.Hash) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, recordedCall{msg: msg, hash: blockHash, atHash: true})
	s.mu.Unlock()
	return s.respond(msg)
}

func (s *stubClient) recorded() []recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedCall(nil), s.calls...)
}

type gasEstimateL1ComponentArgs struct {
	To               common.Address
	ContractCreation bool
	Data             []byte
}

func decodeNodeInterfaceCall(t *testing.T, input []byte) gasEstimateL1ComponentArgs {
	t.Helper()

	method := nodeInterfaceABI.Methods[methodGasEstimateL1Component]
	require.GreaterOrEqual(t, len(input), 4)
	require.Equal(t, method.ID, input[:4])

	values, err := method.Inputs.Unpack(input[4:])
	require.NoError(t, err)
	require.Len(t, values, 3)

	return gasEstimateL1ComponentArgs{
		To:               values[0].(common.Address),
		ContractCreation: values[1].(bool),
		Data:             values[2].([]byte),
	}
}

// unpackNodeInterfaceCall is decodeNodeInterfaceCall for use off the test goroutine.
func unpackNodeInterfaceCall(input []byte) (gasEstimateL1ComponentArgs, error) {
	method := nodeInterfaceABI.Methods[methodGasEstimateL1Component]
	values, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return gasEstimateL1ComponentArgs{}, err
	}
	return gasEstimateL1ComponentArgs{
		To:               values[0].(common.Address),
		ContractCreation: values[1].(bool),
		Data:             values[2].([]byte),
	}, nil
}

func packNodeInterfaceResult(t *testing.T, gas uint64, baseFee, l1BaseFee *big.Int) []byte {
	t.Helper()
	out, err := packOutputs(nodeInterfaceABI, methodGasEstimateL1Component, gas, baseFee, l1BaseFee)
	require.NoError(t, err)
	return out
}

func packOutputs(parsed abi.ABI, method string, values ...any) ([]byte, error) {
	return parsed.Methods[method].Outputs.Pack(values...)
}

func decodeGetL1FeeCall(t *testing.T, input []byte) []byte {
	t.Helper()

	method := gasPriceOracleABI.Methods[methodGetL1Fee]
	require.Equal(t, method.ID, input[:4])
	values, err := method.Inputs.Unpack(input[4:])
	require.NoError(t, err)
	require.Len(t, values, 1)
	return values[0].([]byte)
}

// fixedPadder appends a constant byte so padded payloads are predictable.
type fixedPadder byte

func (f fixedPadder) Pad(data []byte, n uint) []byte {
	out := make([]byte, len(data)+int(n))
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(f)
	}
	return out
}
