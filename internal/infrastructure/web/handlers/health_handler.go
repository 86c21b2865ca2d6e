package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"stock-data-service/internal/domain/interfaces"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	cache   interfaces.Cache
	version string
}

// NewHealthHandler creates the health handler. The cache is the only hard
// dependency worth probing: the upstream provider being down is a degraded
// state the service is designed to survive, not a reason to fail readiness.
func NewHealthHandler(cache interfaces.Cache, version string) *HealthHandler {
	return &HealthHandler{cache: cache, version: version}
}

// healthResponse is the probe response body.
type healthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
}

// Health godoc
// @Summary Basic health check
// @Description Confirms the process is alive. Does not touch dependencies.
// @Tags health
// @Produce json
// @Success 200 {object} handlers.healthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Version:   h.version,
		Services:  map[string]string{"service": "running"},
		Timestamp: time.Now().UTC(),
	})
}

// Ready godoc
// @Summary Readiness check
// @Description Confirms the service can take traffic by exercising the cache backend.
// @Tags health
// @Produce json
// @Success 200 {object} handlers.healthResponse
// @Failure 503 {object} handlers.healthResponse "Cache backend is failing"
// @Router /ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	services := make(map[string]string)

	probeKey := "health:readiness-probe"
	if err := h.cache.Set(ctx, probeKey, "ok", 10*time.Second); err != nil {
		services["cache"] = "error: " + err.Error()
		h.writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "unhealthy",
			Version:   h.version,
			Services:  services,
			Timestamp: time.Now().UTC(),
		})
		return
	}

	services["cache"] = "ready"
	services["service"] = "ready"
	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ready",
		Version:   h.version,
		Services:  services,
		Timestamp: time.Now().UTC(),
	})
}

func (h *HealthHandler) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_, _ = w.Write([]byte(`{"error":"ENCODING_ERROR","message":"Failed to encode response"}`))
	}
}
