package controllers

import (
	"encoding/json"
	"net/http"
	"time"
)

type HealthController struct {
	started time.Time
}

func NewHealthController() *HealthController {
	return &HealthController{started: time.Now()}
}

// HealthCheck reports liveness along with how long the process has
// been up.
func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "chatai",
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
