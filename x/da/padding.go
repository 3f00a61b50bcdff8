package da

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Padder extends calldata with n bytes that stand in for data appended after
// estimation. Implementations never modify data and return it unchanged when
// n is zero.
type Padder interface {
	Pad(data []byte, n uint) []byte
}

// RandomPadder appends uniformly random bytes in [1, 255]. Non-zero filler is
// charged the full per-byte calldata price and random content does not
// compress, so the estimate covers the worst case for the appended region.
type RandomPadder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPadder returns a padder whose output is reproducible for a given seed.
func NewRandomPadder(seed int64) *RandomPadder {
	return &RandomPadder{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // filler, not secrets
}

var (
	defaultPadderOnce sync.Once
	defaultPadder     *RandomPadder
)

// DefaultPadder returns the process-wide clock-seeded padder.
func DefaultPadder() *RandomPadder {
	defaultPadderOnce.Do(func() {
		defaultPadder = NewRandomPadder(time.Now().UnixNano())
	})
	return defaultPadder
}

// Pad implements Padder. It panics if len(data)+n overflows int.
func (p *RandomPadder) Pad(data []byte, n uint) []byte {
	if n == 0 {
		return data
	}
	if n > uint(math.MaxInt-len(data)) {
		panic("da: Pad output length overflow")
	}

	out := make([]byte, len(data)+int(n))
	copy(out, data)

	p.mu.Lock()
	for i := len(data); i < len(out); i++ {
		out[i] = byte(1 + p.rng.Intn(255))
	}
	p.mu.Unlock()

	return out
}

// ExtendBytesWithRandom pads data with n random non-zero bytes using the
// default padder.
func ExtendBytesWithRandom(data []byte, n uint) []byte {
	return DefaultPadder().Pad(data, n)
}
