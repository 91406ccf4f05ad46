package rest

import (
	"context"
	"net/http"
	"time"
)

// remotePinger defines the minimal interface for remote store health checks.
type remotePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	remote  remotePinger
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(remote remotePinger, version string) *HealthHandler {
	return &HealthHandler{remote: remote, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. The server stays ready even when the
// remote store is down: local state is authoritative and writes queue up,
// so only process-level liveness gates readiness.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check. Pings the remote store with latency
// measurement and includes version. A down remote store is reported but
// does not fail the check; the service keeps working offline.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)

	start := time.Now()
	err := h.remote.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		components["remote_store"] = CompStatus{Status: "down"}
	} else {
		components["remote_store"] = CompStatus{
			Status:  "ok",
			Latency: latency.String(),
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}
