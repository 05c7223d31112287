package pipeline

import (
	"encoding/json"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/rs/zerolog/log"
)

// ExtractToolCalls reconstructs the ordered tool-call execution trace from a
// conversation history. Each invocation is paired with the output sharing its
// correlation id, searched within the same message only; an invocation with
// no matching output still appears, with an empty Output. Encounter order is
// preserved across the whole history.
//
// The returned slice is non-nil whenever history is non-nil, so callers can
// distinguish "no history at all" from "history with no invocations".
func ExtractToolCalls(history []models.HistoryMessage) []models.ToolCall {
	if history == nil {
		return nil
	}

	calls := make([]models.ToolCall, 0)
	for _, msg := range history {
		if msg.Role != "assistant" || len(msg.ToolCalls) == 0 {
			continue
		}
		for _, tc := range msg.ToolCalls {
			if tc.Function.Name == "" && tc.ID == "" {
				continue
			}

			args := map[string]interface{}{}
			if tc.Function.Arguments != "" {
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
					log.Debug().Err(err).Str("tool", tc.Function.Name).Msg("tool arguments did not parse, defaulting to empty")
					args = map[string]interface{}{}
				}
			}

			calls = append(calls, models.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: args,
				Output:    matchOutput(msg.ToolOutputs, tc.ID),
			})
		}
	}
	return calls
}

// matchOutput finds the output correlated with id. Outputs are never matched
// across messages.
func matchOutput(outputs []models.WireToolOutput, id string) string {
	for _, out := range outputs {
		if out.ToolCallID == id {
			return out.Content
		}
	}
	return ""
}
