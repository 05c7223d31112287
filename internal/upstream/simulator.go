package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Wire formats for the visualizations field. Deployed backends have shipped
// all three over time, so the simulator can emit any of them.
const (
	FormatArray   = "array"   // visualizations: [{type, figure, description, reason}, ...]
	FormatMap     = "map"     // visualizations: {"viz_1": figure, ...}
	FormatHistory = "history" // figures embedded in assistant history messages
)

// ValidFormat reports whether f names a supported wire format.
func ValidFormat(f string) bool {
	return f == FormatArray || f == FormatMap || f == FormatHistory
}

// Simulator serves the analytics backend HTTP contract: POST /api/query
// answering questions, GET /health for liveness. Failures are reported as
// {"error": message} bodies.
type Simulator struct {
	engine  Engine
	format  string
	timeout time.Duration
}

func NewSimulator(engine Engine, format string, timeout time.Duration) *Simulator {
	if !ValidFormat(format) {
		format = FormatArray
	}
	return &Simulator{engine: engine, format: format, timeout: timeout}
}

// Routes builds the simulator's router.
func (s *Simulator) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Post("/api/query", s.handleQuery)
	return r
}

func (s *Simulator) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeBody(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Simulator) handleQuery(w http.ResponseWriter, r *http.Request) {
	question := readQuestion(r)
	if question == "" {
		writeBody(w, http.StatusBadRequest, map[string]string{"error": "No question provided"})
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	answer, err := s.engine.Answer(ctx, question)
	if err != nil {
		log.Error().Err(err).Str("question", question).Msg("engine failed")
		writeBody(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeBody(w, http.StatusOK, s.composeReply(question, answer))
}

// readQuestion accepts both a JSON body and a form field, matching the
// historical contract.
func readQuestion(r *http.Request) string {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return ""
		}
		return strings.TrimSpace(body.Question)
	}
	return strings.TrimSpace(r.FormValue("question"))
}

// composeReply renders an Answer into the configured wire format.
func (s *Simulator) composeReply(question string, answer *Answer) map[string]interface{} {
	embedViz := s.format == FormatHistory && len(answer.Figure.Data) > 0

	reply := map[string]interface{}{
		"history":     historyFor(question, answer, embedViz),
		"RESULT":      answer.Explanation,
		"final_query": answer.SQL,
	}

	if len(answer.Figure.Data) == 0 {
		return reply
	}

	switch s.format {
	case FormatArray:
		reply["visualizations"] = []models.Visualization{{
			Type:        models.ChartBar,
			Figure:      answer.Figure,
			Description: "Bar chart of the query results",
			Reason:      "A bar chart compares values across categories at a glance.",
		}}
	case FormatMap:
		reply["visualizations"] = map[string]models.Figure{"viz_1": answer.Figure}
	}
	return reply
}

func historyFor(question string, answer *Answer, embedViz bool) []models.HistoryMessage {
	assistant := models.HistoryMessage{
		Role:    "assistant",
		Content: answer.Explanation,
	}
	for _, exec := range answer.Trace {
		assistant.ToolCalls = append(assistant.ToolCalls, models.WireToolCall{
			ID: exec.ID,
			Function: models.WireToolFunction{
				Name:      exec.Name,
				Arguments: exec.Args,
			},
		})
		assistant.ToolOutputs = append(assistant.ToolOutputs, models.WireToolOutput{
			ToolCallID: exec.ID,
			Content:    exec.Output,
		})
	}
	if embedViz {
		if raw, err := json.Marshal(answer.Figure); err == nil {
			assistant.Visualization = raw
		}
	}

	return []models.HistoryMessage{
		{Role: "user", Content: question},
		assistant,
	}
}

func writeBody(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
