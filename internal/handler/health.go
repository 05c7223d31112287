package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/backend"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
)

const version = "1.0.0"

// HealthHandler handles GET /health. The gateway is healthy even when the
// upstream is not (degraded mode covers that), so upstream state is reported
// as a check, not as the overall verdict.
type HealthHandler struct {
	upstream *backend.Client
}

func NewHealthHandler(upstream *backend.Client) *HealthHandler {
	return &HealthHandler{upstream: upstream}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	status := "healthy"

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.upstream != nil {
		if err := h.upstream.Probe(ctx); err != nil {
			checks["upstream"] = "unreachable: " + err.Error()
			status = "degraded"
		} else {
			checks["upstream"] = "ok"
		}
	} else {
		checks["upstream"] = "disabled"
	}

	models.WriteJSON(w, http.StatusOK, models.HealthResponse{
		Status:  status,
		Version: version,
		Checks:  checks,
	})
}
