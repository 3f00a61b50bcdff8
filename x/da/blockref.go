package da

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

type refKind uint8

const (
	refLatest refKind = iota
	refNumber
	refHash
)

// BlockRef identifies the block an estimate is pinned to, either by hash or by
// number. Named tags (pending, safe, finalized) are carried as the negative
// numbers go-ethereum's rpc package uses. The zero value refers to the latest
// block.
type BlockRef struct {
	kind   refKind
	number rpc.BlockNumber
	hash   common.Hash
}

// BlockByHash pins to the block with the given hash.
func BlockByHash(h common.Hash) BlockRef {
	return BlockRef{kind: refHash, hash: h}
}

// BlockByNumber pins to the canonical block at height n.
func BlockByNumber(n uint64) BlockRef {
	return BlockRef{kind: refNumber, number: rpc.BlockNumber(n)}
}

// BlockByTag pins to a named block such as rpc.PendingBlockNumber.
func BlockByTag(tag rpc.BlockNumber) BlockRef {
	if tag == rpc.LatestBlockNumber {
		return BlockRef{}
	}
	return BlockRef{kind: refNumber, number: tag}
}

// LatestBlock refers to the chain head.
func LatestBlock() BlockRef { return BlockRef{} }

// PendingBlock refers to the pending block.
func PendingBlock() BlockRef { return BlockByTag(rpc.PendingBlockNumber) }

// Hash returns the block hash and true when the reference is by hash.
func (b BlockRef) Hash() (common.Hash, bool) {
	return b.hash, b.kind == refHash
}

// Number returns the reference in the form accepted by ethclient.CallContract:
// nil for latest, negative values for tags. It is nil for hash references.
func (b BlockRef) Number() *big.Int {
	if b.kind != refNumber {
		return nil
	}
	return big.NewInt(int64(b.number))
}

func (b BlockRef) String() string {
	switch b.kind {
	case refHash:
		return b.hash.Hex()
	case refNumber:
		if b.number >= 0 {
			return strconv.FormatInt(int64(b.number), 10)
		}
		return b.number.String()
	default:
		return "latest"
	}
}

// MarshalText encodes the reference the way ParseBlockRef reads it.
func (b BlockRef) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *BlockRef) UnmarshalText(text []byte) error {
	ref, err := ParseBlockRef(string(text))
	if err != nil {
		return err
	}
	*b = ref
	return nil
}

// ParseBlockRef accepts "latest", "pending", "safe", "finalized", "earliest",
// a decimal or 0x-prefixed block number, or a 32-byte 0x-prefixed block hash.
// An empty string is latest.
func ParseBlockRef(s string) (BlockRef, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "latest":
		return LatestBlock(), nil
	case "pending":
		return PendingBlock(), nil
	case "safe":
		return BlockByTag(rpc.SafeBlockNumber), nil
	case "finalized":
		return BlockByTag(rpc.FinalizedBlockNumber), nil
	case "earliest":
		return BlockByNumber(0), nil
	}

	var (
		n   uint64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if len(s) == 2+2*common.HashLength {
			raw, err := hexutil.Decode(s)
			if err != nil {
				return BlockRef{}, fmt.Errorf("invalid block hash %q: %w", s, err)
			}
			return BlockByHash(common.BytesToHash(raw)), nil
		}
		n, err = hexutil.DecodeUint64(s)
	} else {
		n, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return BlockRef{}, fmt.Errorf("invalid block reference %q", s)
	}
	if n > math.MaxInt64 {
		return BlockRef{}, fmt.Errorf("block number %d out of range", n)
	}
	return BlockByNumber(n), nil
}
