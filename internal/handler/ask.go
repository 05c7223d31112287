package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/service"
)

// AskHandler handles POST /api/v1/ask: one natural-language question in, one
// normalized QueryResult out.
type AskHandler struct {
	proc *service.Processor
}

func NewAskHandler(proc *service.Processor) *AskHandler {
	return &AskHandler{proc: proc}
}

// Ask handles POST /api/v1/ask
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		models.WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	result, err := h.proc.ProcessQuery(r.Context(), req.Question)
	if err != nil {
		// Only structured upstream errors reach this branch; connectivity
		// failures already degraded to a synthetic result.
		models.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	models.WriteJSON(w, http.StatusOK, result)
}
