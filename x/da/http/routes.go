package http

// Route patterns for the DA gas HTTP surface.
const (
	routeEstimate      = "/v1/da/estimate"
	routeEstimateBatch = "/v1/da/estimate/batch"
	routeOracle        = "/v1/da/oracle"
)

// Route names for mux URL building.
const (
	routeNameEstimate      = "da_estimate"
	routeNameEstimateBatch = "da_estimate_batch"
	routeNameOracle        = "da_oracle"
)
