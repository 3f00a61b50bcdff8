package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterMux binds gorilla/mux routes.
func (h *Handler) RegisterMux(r *mux.Router) {
	r.HandleFunc(routeEstimate, h.handleEstimate).Methods(http.MethodPost).Name(routeNameEstimate)
	r.HandleFunc(routeEstimateBatch, h.handleEstimateBatch).Methods(http.MethodPost).Name(routeNameEstimateBatch)
	r.HandleFunc(routeOracle, h.handleOracle).Methods(http.MethodGet).Name(routeNameOracle)
}
