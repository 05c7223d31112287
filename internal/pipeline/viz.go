package pipeline

import (
	"encoding/json"
	"sort"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/rs/zerolog/log"
)

const genericReason = "This chart helps visualize your data."

// NormalizeVisualizations reconciles the known visualization wire shapes into
// one ordered list. Strategies run in strict precedence (array of typed
// objects, then map of id to figure, then visualizations embedded in the chat
// history) and the first strategy yielding at least one valid entry wins.
// Entries whose figure cannot be parsed or carries no traces are dropped.
func NormalizeVisualizations(raw *models.RawResponse) []models.Visualization {
	if len(raw.Visualizations) > 0 {
		if vizs := normalizeArrayFormat(raw.Visualizations); len(vizs) > 0 {
			log.Debug().Int("count", len(vizs)).Msg("visualizations resolved from array format")
			return vizs
		}
		if vizs := normalizeMapFormat(raw.Visualizations); len(vizs) > 0 {
			log.Debug().Int("count", len(vizs)).Msg("visualizations resolved from map format")
			return vizs
		}
	}
	if vizs := normalizeHistoryFormat(raw.History); len(vizs) > 0 {
		log.Debug().Int("count", len(vizs)).Msg("visualizations resolved from chat history")
		return vizs
	}
	return nil
}

// normalizeArrayFormat handles the current wire shape: an array of elements
// already carrying type/figure/description/reason.
func normalizeArrayFormat(payload json.RawMessage) []models.Visualization {
	var wire []models.WireVisualization
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil
	}

	var vizs []models.Visualization
	for _, w := range wire {
		fig, ok := decodeFigure(w.Figure)
		if !ok || len(fig.Data) == 0 {
			continue
		}

		chartType := models.ChartType(w.Type)
		if !models.ValidChartType(w.Type) {
			chartType = InferChartType(fig)
		}

		desc := w.Description
		if desc == "" {
			desc = chartType.DisplayName()
		}
		reason := w.Reason
		if reason == "" {
			reason = genericReason
		}

		vizs = append(vizs, models.Visualization{
			Type:        chartType,
			Figure:      fig,
			Description: desc,
			Reason:      reason,
		})
	}
	return vizs
}

// normalizeMapFormat handles the intermediate wire shape: a plain mapping from
// an identifier to a figure (object or JSON-encoded string). No explicit type
// is supplied, so every entry goes through type inference. Entries are ordered
// by identifier, since the wire map carries no order of its own.
func normalizeMapFormat(payload json.RawMessage) []models.Visualization {
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil
	}

	ids := make([]string, 0, len(wire))
	for id := range wire {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var vizs []models.Visualization
	for _, id := range ids {
		fig, ok := decodeFigure(wire[id])
		if !ok || len(fig.Data) == 0 {
			continue
		}
		vizs = append(vizs, models.Visualization{
			Type:        InferChartType(fig),
			Figure:      fig,
			Description: "Visualization " + id,
			Reason:      genericReason,
		})
	}
	return vizs
}

// normalizeHistoryFormat is the last-resort legacy path: assistant messages
// carrying a visualization field. No inference is attempted here; the legacy
// backend only ever emitted bar figures.
func normalizeHistoryFormat(history []models.HistoryMessage) []models.Visualization {
	var vizs []models.Visualization
	for _, msg := range history {
		if msg.Role != "assistant" || len(msg.Visualization) == 0 {
			continue
		}
		fig, ok := decodeFigure(msg.Visualization)
		if !ok || len(fig.Data) == 0 {
			continue
		}
		vizs = append(vizs, models.Visualization{
			Type:        models.ChartBar,
			Figure:      fig,
			Description: "Visualization from chat history",
			Reason:      "This chart was generated during the conversation.",
		})
	}
	return vizs
}
