package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	apicommon "github.com/compose-network/da-oracle/server/api"
	"github.com/compose-network/da-oracle/x/da"
)

// Handler serves DA gas estimates over HTTP.
type Handler struct {
	oracle  da.Oracle
	typ     da.Type
	address common.Address
	cfg     Config
	log     zerolog.Logger
}

// NewHandler serves oracle, described as typ at address on the info route.
func NewHandler(oracle da.Oracle, typ da.Type, address common.Address, cfg Config, log zerolog.Logger) *Handler {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = def.MaxBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if cfg.MaxExtraDataLen == 0 || cfg.MaxExtraDataLen > da.MaxExtraDataLen {
		cfg.MaxExtraDataLen = def.MaxExtraDataLen
	}
	return &Handler{
		oracle:  oracle,
		typ:     typ,
		address: address,
		cfg:     cfg,
		log:     log.With().Str("component", "da-http").Logger(),
	}
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req estimateReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)).Decode(&req); err != nil {
		apicommon.WriteError(w, r, http.StatusBadRequest, "invalid_json", "failed to decode request", nil)
		return
	}

	daReq, ferr := req.toRequest(h.cfg.MaxExtraDataLen)
	if ferr != nil {
		apicommon.WriteError(w, r, http.StatusBadRequest, ferr.code, ferr.Error(), nil)
		return
	}

	est, err := h.estimate(r.Context(), daReq)
	if err != nil {
		status, code := classify(err)
		h.log.Warn().Err(err).Str("code", code).Msg("estimate failed")
		apicommon.WriteError(w, r, status, code, err.Error(), nil)
		return
	}

	apicommon.WriteJSON(w, http.StatusOK, newEstimateResp(est))
}

func (h *Handler) handleEstimateBatch(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req batchReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)).Decode(&req); err != nil {
		apicommon.WriteError(w, r, http.StatusBadRequest, "invalid_json", "failed to decode request", nil)
		return
	}
	if len(req.Requests) == 0 {
		apicommon.WriteError(w, r, http.StatusBadRequest, "empty_batch", "requests must not be empty", nil)
		return
	}
	if len(req.Requests) > h.cfg.MaxBatchSize {
		apicommon.WriteError(
			w, r,
			http.StatusBadRequest,
			"batch_too_large",
			fmt.Sprintf("at most %d requests per batch", h.cfg.MaxBatchSize),
			nil,
		)
		return
	}

	results := make([]batchItem, len(req.Requests))

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(h.cfg.Concurrency)
	for i, item := range req.Requests {
		daReq, ferr := item.toRequest(h.cfg.MaxExtraDataLen)
		if ferr != nil {
			results[i] = batchItem{Error: &itemError{Code: ferr.code, Message: ferr.Error()}}
			continue
		}
		g.Go(func() error {
			est, err := h.estimate(ctx, daReq)
			if err != nil {
				_, code := classify(err)
				results[i] = batchItem{Error: &itemError{Code: code, Message: err.Error()}}
				return nil
			}
			results[i] = batchItem{estimateResp: newEstimateResp(est)}
			return nil
		})
	}
	_ = g.Wait()

	apicommon.WriteJSON(w, http.StatusOK, batchResp{Results: results})
}

func (h *Handler) handleOracle(w http.ResponseWriter, _ *http.Request) {
	resp := oracleResp{Type: h.typ}
	if h.address != (common.Address{}) {
		resp.Address = h.address.Hex()
	}
	apicommon.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) estimate(ctx context.Context, req da.Request) (da.Estimate, error) {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
	defer cancel()
	return h.oracle.EstimateDAGas(ctx, req)
}

// classify maps an oracle failure to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "canceled"
	default:
		return http.StatusBadGateway, "provider_error"
	}
}
