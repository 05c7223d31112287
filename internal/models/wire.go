package models

import "encoding/json"

// Wire types for the upstream analytics backend. The payload shape has
// drifted across backend versions without a schema version tag, so every
// field here is optional and the lenient decoder in internal/pipeline fills
// in only what actually parses.

// RawResponse is the intermediate, loosely typed tree produced from the
// upstream JSON body. Visualizations is kept raw because it has shipped as
// an array of typed objects, as a map of id to figure, and not at all.
type RawResponse struct {
	History        []HistoryMessage `json:"history,omitempty"`
	Visualizations json.RawMessage  `json:"visualizations,omitempty"`
	Result         string           `json:"RESULT,omitempty"`
	FinalQuery     string           `json:"final_query,omitempty"`
}

// HistoryMessage is one conversation turn. Assistant turns may carry tool
// invocations, their outputs, and (in the oldest backend versions) an
// embedded visualization.
type HistoryMessage struct {
	Role          string           `json:"role"`
	Content       string           `json:"content,omitempty"`
	ToolCalls     []WireToolCall   `json:"tool_calls,omitempty"`
	ToolOutputs   []WireToolOutput `json:"tool_outputs,omitempty"`
	Visualization json.RawMessage  `json:"visualization,omitempty"`
}

// WireToolCall is a tool invocation as the upstream records it. Arguments
// arrive JSON-encoded inside a string.
type WireToolCall struct {
	ID       string           `json:"id"`
	Function WireToolFunction `json:"function"`
}

type WireToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// WireToolOutput carries a tool's textual result, linked back to its
// invocation by ToolCallID.
type WireToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
}

// WireVisualization is one element of the array-format visualizations field.
// Figure may be an object or a JSON-encoded string.
type WireVisualization struct {
	Type        string          `json:"type,omitempty"`
	Figure      json.RawMessage `json:"figure,omitempty"`
	Description string          `json:"description,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}
