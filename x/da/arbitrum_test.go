package da

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNodeInterface = common.HexToAddress("0x00000000000000000000000000000000000000C8")

func TestArbitrumNitroOracle_ReturnsFirstOutputOnly(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name      string
		baseFee   *big.Int
		l1BaseFee *big.Int
	}{
		{"zero fees", big.NewInt(0), big.NewInt(0)},
		{"typical fees", big.NewInt(100_000_000), big.NewInt(30_000_000_000)},
		{"max fees", new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)), big.NewInt(1)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := &stubClient{respond: func(ethereum.CallMsg) ([]byte, error) {
				return packNodeInterfaceResult(t, 12345, tc.baseFee, tc.l1BaseFee), nil
			}}
			oracle := NewArbitrumNitroOracle(testNodeInterface, client)

			est, err := oracle.EstimateDAGas(context.Background(), Request{
				Calldata: []byte{0x01, 0x02, 0x03},
				To:       common.HexToAddress("0x1111111111111111111111111111111111111111"),
				Block:    LatestBlock(),
				GasPrice: uint256.NewInt(1),
			})
			require.NoError(t, err)
			require.Equal(t, uint64(12345), est.L1GasCost.Uint64())
			require.True(t, est.UOData.IsEmpty())
			require.True(t, est.BlockData.IsEmpty())
		})
	}
}

func TestArbitrumNitroOracle_AlwaysEstimatesAsContractCreation(t *testing.T) {
	t.Parallel()

	targets := []common.Address{
		{},
		common.HexToAddress("0x000000000000000000000000000000000000dEaD"),
		common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff"),
	}
	payloads := [][]byte{nil, {0x00}, bytes.Repeat([]byte{0x60}, 300)}

	client := &stubClient{respond: func(ethereum.CallMsg) ([]byte, error) {
		return packNodeInterfaceResult(t, 1, big.NewInt(0), big.NewInt(0)), nil
	}}
	oracle := NewArbitrumNitroOracle(testNodeInterface, client)

	for _, to := range targets {
		for _, data := range payloads {
			_, err := oracle.EstimateDAGas(context.Background(), Request{Calldata: data, To: to})
			require.NoError(t, err)
		}
	}

	calls := client.recorded()
	require.Len(t, calls, len(targets)*len(payloads))
	for i, call := range calls {
		require.NotNil(t, call.msg.To)
		require.Equal(t, testNodeInterface, *call.msg.To)

		args := decodeNodeInterfaceCall(t, call.msg.Data)
		require.True(t, args.ContractCreation)
		require.Equal(t, targets[i/len(payloads)], args.To)
		require.True(t, bytes.Equal(payloads[i%len(payloads)], args.Data))
	}
}

func TestArbitrumNitroOracle_PadsOnlyWhenExtraDataExpected(t *testing.T) {
	t.Parallel()

	client := &stubClient{respond: func(ethereum.CallMsg) ([]byte, error) {
		return packNodeInterfaceResult(t, 7, big.NewInt(0), big.NewInt(0)), nil
	}}
	oracle := NewArbitrumNitroOracle(testNodeInterface, client, WithPadder(fixedPadder(0xee)))

	calldata := []byte{0xaa, 0xbb}

	_, err := oracle.EstimateDAGas(context.Background(), Request{Calldata: calldata})
	require.NoError(t, err)
	_, err = oracle.EstimateDAGas(context.Background(), Request{Calldata: calldata, ExtraDataLen: 3})
	require.NoError(t, err)

	calls := client.recorded()
	require.Len(t, calls, 2)
	require.Equal(t, []byte{0xaa, 0xbb}, decodeNodeInterfaceCall(t, calls[0].msg.Data).Data)
	require.Equal(t, []byte{0xaa, 0xbb, 0xee, 0xee, 0xee}, decodeNodeInterfaceCall(t, calls[1].msg.Data).Data)
	require.Equal(t, []byte{0xaa, 0xbb}, calldata)
}

func TestArbitrumNitroOracle_DefaultPaddingLength(t *testing.T) {
	t.Parallel()

	client := &stubClient{respond: func(ethereum.CallMsg) ([]byte, error) {
		return packNodeInterfaceResult(t, 7, big.NewInt(0), big.NewInt(0)), nil
	}}
	oracle := NewArbitrumNitroOracle(testNodeInterface, client)

	calldata := bytes.Repeat([]byte{0x42}, 100)
	_, err := oracle.EstimateDAGas(context.Background(), Request{Calldata: calldata, ExtraDataLen: 65})
	require.NoError(t, err)

	sent := decodeNodeInterfaceCall(t, client.recorded()[0].msg.Data).Data
	require.Len(t, sent, 165)
	require.Equal(t, calldata, sent[:100])
	require.NotContains(t, sent[100:], byte(0))
}

func TestArbitrumNitroOracle_PinsBlock(t *testing.T) {
	t.Parallel()

	hash := common.HexToHash("0x" + "ab" + "00000000000000000000000000000000000000000000000000000000000001")

	for _, tc := range []struct {
		name       string
		ref        BlockRef
		wantHash   bool
		wantNumber *big.Int
	}{
		{"latest", LatestBlock(), false, nil},
		{"number", BlockByNumber(1_000_000), false, big.NewInt(1_000_000)},
		{"pending", PendingBlock(), false, big.NewInt(int64(rpc.PendingBlockNumber))},
		{"hash", BlockByHash(hash), true, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := &stubClient{respond: func(ethereum.CallMsg) ([]byte, error) {
				return packNodeInterfaceResult(t, 1, big.NewInt(0), big.NewInt(0)), nil
			}}
			oracle := NewArbitrumNitroOracle(testNodeInterface, client)

			_, err := oracle.EstimateDAGas(context.Background(), Request{Block: tc.ref})
			require.NoError(t, err)

			calls := client.recorded()
			require.Len(t, calls, 1)
			require.Equal(t, tc.wantHash, calls[0].atHash)
			if tc.wantHash {
				require.Equal(t, hash, calls[0].hash)
				return
			}
			if tc.wantNumber == nil {
				require.Nil(t, calls[0].number)
			} else {
				require.Equal(t, 0, tc.wantNumber.Cmp(calls[0].number))
			}
		})
	}
}

type revertError struct{ reason string }

func (e *revertError) Error() string { return "execution reverted: " + e.reason }

func TestArbitrumNitroOracle_PropagatesClientErrorsUnchanged(t *testing.T) {
	t.Parallel()

	for _, want := range []error{
		errors.New("dial tcp 127.0.0.1:8545: connect: connection refused"),
		&revertError{reason: "bad calldata"},
		context.DeadlineExceeded,
	} {
		client := &stubClient{respond: func(ethereum.CallMsg) ([]byte, error) { return nil, want }}
		oracle := NewArbitrumNitroOracle(testNodeInterface, client)

		est, err := oracle.EstimateDAGas(context.Background(), Request{Calldata: []byte{1}, ExtraDataLen: 4})
		require.Error(t, err)
		require.True(t, err == want, "expected the exact client error, got %v", err) //nolint:errorlint // identity is the point
		require.Nil(t, est.L1GasCost)
		require.Len(t, client.recorded(), 1, "no retries")
	}
}

func TestArbitrumNitroOracle_MalformedResponse(t *testing.T) {
	t.Parallel()

	client := &stubClient{respond: func(ethereum.CallMsg) ([]byte, error) { return []byte{0x01, 0x02}, nil }}
	oracle := NewArbitrumNitroOracle(testNodeInterface, client)

	est, err := oracle.EstimateDAGas(context.Background(), Request{})
	require.Error(t, err)
	require.Nil(t, est.L1GasCost)
}

func TestArbitrumNitroOracle_ConcurrentCallsAreIndependent(t *testing.T) {
	t.Parallel()

	const n = 64

	client := &stubClient{respond: func(msg ethereum.CallMsg) ([]byte, error) {
		args, err := unpackNodeInterfaceCall(msg.Data)
		if err != nil {
			return nil, err
		}
		// Response keyed by the request: gas = last byte of target * 1000 + payload length.
		gas := uint64(args.To[19])*1000 + uint64(len(args.Data))
		return nodeInterfaceABI.Methods[methodGasEstimateL1Component].Outputs.Pack(gas, big.NewInt(1), big.NewInt(2))
	}}
	oracle := NewArbitrumNitroOracle(testNodeInterface, client)

	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			to := common.BigToAddress(big.NewInt(int64(i)))
			req := Request{
				Calldata:     bytes.Repeat([]byte{byte(i)}, i),
				To:           to,
				Block:        BlockByNumber(uint64(i)),
				ExtraDataLen: uint(i % 3),
			}
			est, err := oracle.EstimateDAGas(context.Background(), req)
			if !assert.NoError(t, err) {
				return
			}
			want := uint64(i)*1000 + uint64(i) + uint64(i%3)
			assert.Equal(t, want, est.L1GasCost.Uint64(), fmt.Sprintf("call %d", i))
		}(i)
	}
	wg.Wait()

	require.Len(t, client.recorded(), n)
}

func TestOracles_RejectOversizedExtraData(t *testing.T) {
	t.Parallel()

	client := &stubClient{respond: func(ethereum.CallMsg) ([]byte, error) {
		return packNodeInterfaceResult(t, 1, big.NewInt(0), big.NewInt(0)), nil
	}}

	oracles := map[string]Oracle{
		"arbitrum_nitro":   NewArbitrumNitroOracle(testNodeInterface, client),
		"optimism_bedrock": NewOptimismBedrockOracle(DefaultGasPriceOracleAddress, client),
		"calldata":         NewCalldataOracle(0),
	}

	for name, oracle := range oracles {
		for _, extra := range []uint{MaxExtraDataLen + 1, math.MaxUint - 2, math.MaxUint} {
			_, err := oracle.EstimateDAGas(context.Background(), Request{
				Calldata:     []byte{0x01, 0x02, 0x03},
				Block:        LatestBlock(),
				GasPrice:     uint256.NewInt(1),
				ExtraDataLen: extra,
			})
			require.ErrorIs(t, err, ErrExtraDataTooLarge, "%s extra=%d", name, extra)
		}
	}
	require.Empty(t, client.recorded(), "oversized requests must not reach the chain")
}

func TestArbitrumNitroOracle_AcceptsMaxExtraData(t *testing.T) {
	t.Parallel()

	client := &stubClient{respond: func(ethereum.CallMsg) ([]byte, error) {
		return packNodeInterfaceResult(t, 7, big.NewInt(0), big.NewInt(0)), nil
	}}
	oracle := NewArbitrumNitroOracle(testNodeInterface, client, WithPadder(NewRandomPadder(3)))

	calldata := []byte{0xaa, 0xbb}
	_, err := oracle.EstimateDAGas(context.Background(), Request{
		Calldata:     calldata,
		Block:        LatestBlock(),
		ExtraDataLen: MaxExtraDataLen,
	})
	require.NoError(t, err)

	calls := client.recorded()
	require.Len(t, calls, 1)
	args := decodeNodeInterfaceCall(t, calls[0].msg.Data)
	require.Len(t, args.Data, len(calldata)+MaxExtraDataLen)
	require.True(t, bytes.Equal(calldata, args.Data[:len(calldata)]))
}
