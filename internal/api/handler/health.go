package handler

import (
	"net/http"

	"github.com/workpulse/workpulse/internal/api/response"
	"github.com/workpulse/workpulse/internal/repository/mongo"
	"github.com/workpulse/workpulse/internal/repository/redis"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db    *mongo.DB
	cache *redis.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *mongo.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// ReadyCheck handles GET /ready and verifies backing stores are reachable
func (h *HealthHandler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"mongo": "ok",
		"redis": "ok",
	}
	healthy := true

	if err := h.db.Ping(r.Context()); err != nil {
		checks["mongo"] = err.Error()
		healthy = false
	}
	if err := h.cache.Ping(r.Context()); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	if !healthy {
		response.Error(w, http.StatusServiceUnavailable, checks)
		return
	}
	response.OK(w, checks)
}
