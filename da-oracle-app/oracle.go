package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/compose-network/da-oracle/da-oracle-app/config"
	"github.com/compose-network/da-oracle/x/chain"
	"github.com/compose-network/da-oracle/x/da"
)

// buildOracle dials the chain when the configured oracle type needs it and
// constructs the oracle. The returned close function releases the client.
func buildOracle(ctx context.Context, cfg *config.Config, log zerolog.Logger) (da.Oracle, func(), error) {
	typ, err := da.ParseType(string(cfg.Oracle.Type))
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {}
	var client da.QueryClient
	if typ.RequiresClient() {
		ec, err := chain.Dial(ctx, cfg.Chain, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to chain: %w", err)
		}
		client = ec
		closeFn = ec.Close
	}

	oracle, err := da.New(cfg.Oracle, client)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to create DA gas oracle: %w", err)
	}

	log.Info().
		Str("oracle", string(typ)).
		Str("address", cfg.Oracle.ResolvedAddress().Hex()).
		Msg("DA gas oracle ready")

	return oracle, closeFn, nil
}
