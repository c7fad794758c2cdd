// health_handler.go - HTTP handlers for /nodehealth, /health/liveness,
// /health/readiness and /status
package server

import (
	"encoding/json"
	"net/http"
)

type LivenessResponse struct {
	Alive bool `json:"alive"`
}

type ReadinessResponse struct {
	Ready bool `json:"ready"`
}

// NodeHealthResponse is the response type for the /nodehealth endpoint
type NodeHealthResponse struct {
	Status  string      `json:"status"`
	Metrics NodeMetrics `json:"metrics"`
}

type StatusResponse struct {
	Service    string `json:"service"`
	AssetCount int    `json:"asset_count"`
	Uptime     int64  `json:"uptime_seconds"`
}

// HandleLiveness responds to /health/liveness
func (s *Server) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{Alive: true}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleReadiness responds to /health/readiness. Ready means the ledger
// answers a read.
func (s *Server) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ready := false
	if s.store != nil {
		if _, err := s.store.AssetExists("readiness-probe"); err == nil {
			ready = true
		}
	}
	resp := ReadinessResponse{Ready: ready}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleNodeHealth responds to /nodehealth (summary health)
func (s *Server) HandleNodeHealth(w http.ResponseWriter, r *http.Request) {
	metrics := s.GetNodeMetrics()

	status := "healthy"
	if metrics.AssetCount == 0 {
		status = "initializing"
	}

	resp := NodeHealthResponse{
		Status:  status,
		Metrics: metrics,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleStatus responds to /status
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	metrics := s.GetNodeMetrics()
	resp := StatusResponse{
		Service:    "medledger",
		AssetCount: metrics.AssetCount,
		Uptime:     metrics.UptimeSeconds,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
