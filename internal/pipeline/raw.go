// Package pipeline normalizes the upstream analytics backend's loosely typed
// responses into the stable QueryResult shape. Every stage here recovers
// field-by-field: a broken field becomes absent, never an error.
package pipeline

import (
	"bytes"
	"encoding/json"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/rs/zerolog/log"
)

// DecodeRawResponse turns the upstream JSON body into a RawResponse. The
// upstream contract has drifted across versions, so each top-level field is
// decoded independently: a field that is missing or of an unexpected type is
// treated as absent and logged, and the rest of the tree still comes through.
// This stage cannot fail; the worst outcome is an empty RawResponse.
func DecodeRawResponse(body []byte) *models.RawResponse {
	raw := &models.RawResponse{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		log.Warn().Err(err).Msg("upstream body is not a JSON object")
		return raw
	}

	if v, ok := fields["history"]; ok {
		var history []models.HistoryMessage
		if err := json.Unmarshal(v, &history); err != nil {
			log.Debug().Err(err).Msg("history field unusable, treating as absent")
		} else {
			raw.History = history
		}
	}

	if v, ok := fields["visualizations"]; ok && !isJSONNull(v) {
		// Kept raw: the normalizer dispatches on its concrete shape.
		raw.Visualizations = v
	}

	if v, ok := fields["RESULT"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			log.Debug().Err(err).Msg("RESULT field is not a string, treating as absent")
		} else {
			raw.Result = s
		}
	}

	if v, ok := fields["final_query"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			log.Debug().Err(err).Msg("final_query field is not a string, treating as absent")
		} else {
			raw.FinalQuery = s
		}
	}

	return raw
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeFigure parses a figure that may arrive as an object or as a
// JSON-encoded string (older backends double-encoded figures). The second
// return is false when nothing parseable was found.
func decodeFigure(raw json.RawMessage) (models.Figure, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || isJSONNull(trimmed) {
		return models.Figure{}, false
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			log.Debug().Err(err).Msg("figure string field did not decode")
			return models.Figure{}, false
		}
		trimmed = bytes.TrimSpace([]byte(inner))
	}

	var fig models.Figure
	if err := json.Unmarshal(trimmed, &fig); err != nil {
		log.Debug().Err(err).Msg("figure did not parse, dropping entry")
		return models.Figure{}, false
	}
	return fig, true
}
