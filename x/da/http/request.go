package http

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/compose-network/da-oracle/x/da"
)

// estimateReq is the JSON schema for POST routeEstimate.
type estimateReq struct {
	Calldata     string `json:"calldata"`            // 0x-hex
	To           string `json:"to"`                  // 0x-address
	Block        string `json:"block,omitempty"`     // latest | pending | number | hash
	GasPrice     string `json:"gas_price,omitempty"` // decimal or 0x quantity, wei
	ExtraDataLen uint   `json:"extra_data_len"`
}

// batchReq is the JSON schema for POST routeEstimateBatch.
type batchReq struct {
	Requests []estimateReq `json:"requests"`
}

type estimateResp struct {
	L1GasCost string       `json:"l1_gas_cost"`
	UOData    da.UOData    `json:"uo_data"`
	BlockData da.BlockData `json:"block_data"`
}

type batchItem struct {
	*estimateResp
	Error *itemError `json:"error,omitempty"`
}

type itemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type batchResp struct {
	Results []batchItem `json:"results"`
}

type oracleResp struct {
	Type    da.Type `json:"type"`
	Address string  `json:"address,omitempty"`
}

// fieldError names the request field that failed validation.
type fieldError struct {
	code string
	err  error
}

func (e *fieldError) Error() string { return e.err.Error() }

func invalid(code string, format string, args ...any) *fieldError {
	return &fieldError{code: code, err: fmt.Errorf(format, args...)}
}

// toRequest validates r and converts it into a da.Request. extra_data_len
// above maxExtra is rejected.
func (r estimateReq) toRequest(maxExtra uint) (da.Request, *fieldError) {
	if r.ExtraDataLen > maxExtra {
		return da.Request{}, invalid("invalid_extra_data_len", "extra_data_len: %d exceeds %d", r.ExtraDataLen, maxExtra)
	}

	var calldata []byte
	if s := strings.TrimSpace(r.Calldata); s != "" {
		b, err := hexutil.Decode(s)
		if err != nil {
			return da.Request{}, invalid("invalid_calldata", "calldata: %v", err)
		}
		calldata = b
	}

	if !common.IsHexAddress(r.To) {
		return da.Request{}, invalid("invalid_to", "to: %q is not an address", r.To)
	}

	block, err := da.ParseBlockRef(r.Block)
	if err != nil {
		return da.Request{}, invalid("invalid_block", "block: %v", err)
	}

	gasPrice, ferr := parseGasPrice(r.GasPrice)
	if ferr != nil {
		return da.Request{}, ferr
	}

	return da.Request{
		Calldata:     calldata,
		To:           common.HexToAddress(r.To),
		Block:        block,
		GasPrice:     gasPrice,
		ExtraDataLen: r.ExtraDataLen,
	}, nil
}

// parseGasPrice accepts decimal or 0x-hex wei and rejects values above 128 bits.
func parseGasPrice(s string) (*uint256.Int, *fieldError) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(uint256.Int), nil
	}

	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") {
		v, err = uint256.FromHex(s)
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return nil, invalid("invalid_gas_price", "gas_price: %v", err)
	}
	if v.BitLen() > 128 {
		return nil, invalid("invalid_gas_price", "gas_price: exceeds 128 bits")
	}
	return v, nil
}

func newEstimateResp(est da.Estimate) *estimateResp {
	cost := "0"
	if est.L1GasCost != nil {
		cost = est.L1GasCost.Dec()
	}
	return &estimateResp{
		L1GasCost: cost,
		UOData:    est.UOData,
		BlockData: est.BlockData,
	}
}

// ParseRequest applies the estimate endpoint's validation, bounded by cfg, to
// string-form inputs. Used by the CLI.
func ParseRequest(cfg Config, calldata, to, block, gasPrice string, extraDataLen uint) (da.Request, error) {
	maxExtra := cfg.MaxExtraDataLen
	if maxExtra == 0 || maxExtra > da.MaxExtraDataLen {
		maxExtra = DefaultConfig().MaxExtraDataLen
	}
	req, ferr := estimateReq{
		Calldata:     calldata,
		To:           to,
		Block:        block,
		GasPrice:     gasPrice,
		ExtraDataLen: extraDataLen,
	}.toRequest(maxExtra)
	if ferr != nil {
		return da.Request{}, ferr
	}
	return req, nil
}

// Response renders est in the JSON shape of the estimate endpoint.
func Response(est da.Estimate) any {
	return newEstimateResp(est)
}
