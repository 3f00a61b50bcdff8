package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/compose-network/da-oracle/da-oracle-app/config"
	"github.com/compose-network/da-oracle/x/da"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.API.ListenAddr = "127.0.0.1:0"
	cfg.Metrics.Enabled = false
	cfg.Oracle.Type = da.TypeCalldata
	cfg.Oracle.CalldataOverhead = 100
	return cfg
}

func TestNewApp_ServesEstimates(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), zerolog.New(io.Discard))
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{
		"calldata":       "0x0001",
		"to":             "0x0000000000000000000000000000000000000001",
		"extra_data_len": 2,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/da/estimate", bytes.NewReader(body))
	app.apiServer.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		L1GasCost string `json:"l1_gas_cost"`
		UOData    struct {
			Kind     string `json:"kind"`
			Calldata struct {
				ZeroBytes    uint64 `json:"zero_bytes"`
				NonZeroBytes uint64 `json:"non_zero_bytes"`
			} `json:"calldata"`
		} `json:"uo_data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// 100 overhead + 1 zero byte (4) + 3 non-zero bytes (3*16)
	require.Equal(t, "152", resp.L1GasCost)
	require.Equal(t, "calldata", resp.UOData.Kind)
	require.Equal(t, uint64(1), resp.UOData.Calldata.ZeroBytes)
	require.Equal(t, uint64(3), resp.UOData.Calldata.NonZeroBytes)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestNewApp_StatsAndHealth(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), zerolog.New(io.Discard))
	require.NoError(t, err)

	for _, path := range []string{"/healthz", "/stats", "/v1/da/oracle"} {
		rec := httptest.NewRecorder()
		app.apiServer.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestNewApp_NetworkOracleNeedsEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.Oracle.Type = da.TypeArbitrumNitro

	_, err := NewApp(context.Background(), cfg, zerolog.New(io.Discard))
	require.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), zerolog.New(io.Discard))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		return app.apiServer.Addr() != nil
	}, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + app.apiServer.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
	}
}
