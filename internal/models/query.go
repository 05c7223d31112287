package models

// DataPoint is the flat name/value projection kept for chart components
// that predate the visualization-first response shape.
type DataPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ToolCall is one entry of the reconstructed execution trace. ID correlates
// an invocation with its output; an invocation that never produced an output
// still appears, with Output left empty.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
	Output    string                 `json:"output"`
}

// QueryResult is the single stable shape every UI consumer renders.
// It is built once per ProcessQuery call and never mutated afterward.
//
// ToolCalls is nil when the upstream provided no conversation history at all,
// and a non-nil (possibly empty) slice when a history was present; callers
// use the nil check to tell "no trace available" from "trace empty".
type QueryResult struct {
	Data                 []DataPoint     `json:"data"`
	SQL                  string          `json:"sql"`
	Explanation          string          `json:"explanation"`
	Visualizations       []Visualization `json:"visualizations"`
	ToolCalls            []ToolCall      `json:"toolCalls,omitempty"`
	CurrentToolCallIndex *int            `json:"currentToolCallIndex,omitempty"`
	TotalToolCalls       *int            `json:"totalToolCalls,omitempty"`
	IsMockData           bool            `json:"isMockData,omitempty"`
}
