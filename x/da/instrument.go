package da

import (
	"context"
	"math/big"
	"time"

	"github.com/rs/zerolog"
)

var _ Oracle = (*InstrumentedOracle)(nil)

// InstrumentedOracle logs and measures every estimate of the wrapped oracle.
// Results and errors pass through untouched.
type InstrumentedOracle struct {
	next    Oracle
	name    string
	log     zerolog.Logger
	metrics *Metrics
}

// Instrument wraps next. A nil m disables metrics.
func Instrument(next Oracle, name string, log zerolog.Logger, m *Metrics) *InstrumentedOracle {
	return &InstrumentedOracle{
		next:    next,
		name:    name,
		log:     log.With().Str("component", "da-oracle").Str("oracle", name).Logger(),
		metrics: m,
	}
}

// Unwrap returns the wrapped oracle.
func (o *InstrumentedOracle) Unwrap() Oracle { return o.next }

// EstimateDAGas implements Oracle.
func (o *InstrumentedOracle) EstimateDAGas(ctx context.Context, req Request) (Estimate, error) {
	if o.metrics != nil {
		o.metrics.InFlight.Inc()
		defer o.metrics.InFlight.Dec()
	}

	start := time.Now()
	est, err := o.next.EstimateDAGas(ctx, req)
	elapsed := time.Since(start)

	size := float64(len(req.Calldata)) + float64(req.ExtraDataLen)
	if err != nil {
		o.log.Warn().
			Err(err).
			Stringer("block", req.Block).
			Str("to", req.To.Hex()).
			Int("calldata_len", len(req.Calldata)).
			Uint("extra_data_len", req.ExtraDataLen).
			Dur("duration", elapsed).
			Msg("DA gas estimate failed")
	} else {
		o.log.Debug().
			Stringer("block", req.Block).
			Str("to", req.To.Hex()).
			Int("calldata_len", len(req.Calldata)).
			Uint("extra_data_len", req.ExtraDataLen).
			Str("l1_gas_cost", est.L1GasCost.Dec()).
			Stringer("uo_data", est.UOData.Kind).
			Dur("duration", elapsed).
			Msg("DA gas estimated")
	}

	if o.metrics != nil {
		var gas float64
		if err == nil && est.L1GasCost != nil {
			gas, _ = new(big.Float).SetInt(est.L1GasCost.ToBig()).Float64()
		}
		o.metrics.RecordEstimate(o.name, size, gas, elapsed, err)
	}

	return est, err
}
