package pipeline_test

import (
	"testing"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/pipeline"
)

func wireCall(id, name, args string) models.WireToolCall {
	return models.WireToolCall{
		ID:       id,
		Function: models.WireToolFunction{Name: name, Arguments: args},
	}
}

func TestExtractToolCallsNilHistory(t *testing.T) {
	if calls := pipeline.ExtractToolCalls(nil); calls != nil {
		t.Errorf("ExtractToolCalls(nil) = %v, want nil", calls)
	}
}

func TestExtractToolCallsEmptyHistory(t *testing.T) {
	calls := pipeline.ExtractToolCalls([]models.HistoryMessage{})
	if calls == nil {
		t.Fatal("ExtractToolCalls(empty) = nil, want empty non-nil slice")
	}
	if len(calls) != 0 {
		t.Errorf("len = %d, want 0", len(calls))
	}
}

func TestExtractToolCallsPairsOutputs(t *testing.T) {
	history := []models.HistoryMessage{
		{Role: "user", Content: "question"},
		{
			Role: "assistant",
			ToolCalls: []models.WireToolCall{
				wireCall("call_1", "execute_sql", `{"sql": "SELECT 1"}`),
				wireCall("call_2", "execute_sql", `{"sql": "SELECT 2"}`),
			},
			ToolOutputs: []models.WireToolOutput{
				{ToolCallID: "call_2", Content: "two rows"},
				{ToolCallID: "call_1", Content: "one row"},
			},
		},
	}

	calls := pipeline.ExtractToolCalls(history)
	if len(calls) != 2 {
		t.Fatalf("len = %d, want 2", len(calls))
	}
	if calls[0].Output != "one row" || calls[1].Output != "two rows" {
		t.Errorf("outputs = %q, %q; want matched by id", calls[0].Output, calls[1].Output)
	}
	if sql, _ := calls[0].Arguments["sql"].(string); sql != "SELECT 1" {
		t.Errorf("arguments sql = %q, want %q", sql, "SELECT 1")
	}
}

func TestExtractToolCallsMissingOutput(t *testing.T) {
	history := []models.HistoryMessage{
		{
			Role:      "assistant",
			ToolCalls: []models.WireToolCall{wireCall("call_1", "execute_sql", `{}`)},
		},
	}

	calls := pipeline.ExtractToolCalls(history)
	if len(calls) != 1 {
		t.Fatalf("len = %d, want 1", len(calls))
	}
	if calls[0].Output != "" {
		t.Errorf("Output = %q, want empty for unmatched call", calls[0].Output)
	}
}

func TestExtractToolCallsOutputNotMatchedAcrossMessages(t *testing.T) {
	history := []models.HistoryMessage{
		{
			Role:      "assistant",
			ToolCalls: []models.WireToolCall{wireCall("call_1", "execute_sql", `{}`)},
		},
		{
			Role:        "assistant",
			ToolOutputs: []models.WireToolOutput{{ToolCallID: "call_1", Content: "late"}},
		},
	}

	calls := pipeline.ExtractToolCalls(history)
	if len(calls) != 1 {
		t.Fatalf("len = %d, want 1", len(calls))
	}
	if calls[0].Output != "" {
		t.Errorf("Output = %q, want empty; outputs never match across messages", calls[0].Output)
	}
}

func TestExtractToolCallsIgnoresNonAssistant(t *testing.T) {
	history := []models.HistoryMessage{
		{
			Role:      "user",
			ToolCalls: []models.WireToolCall{wireCall("call_1", "execute_sql", `{}`)},
		},
	}
	if calls := pipeline.ExtractToolCalls(history); len(calls) != 0 {
		t.Errorf("len = %d, want 0 for non-assistant messages", len(calls))
	}
}

func TestExtractToolCallsMalformedArguments(t *testing.T) {
	history := []models.HistoryMessage{
		{
			Role:      "assistant",
			ToolCalls: []models.WireToolCall{wireCall("call_1", "execute_sql", `not json`)},
		},
	}

	calls := pipeline.ExtractToolCalls(history)
	if len(calls) != 1 {
		t.Fatalf("len = %d, want 1; a broken arguments string must not drop the call", len(calls))
	}
	if calls[0].Arguments == nil || len(calls[0].Arguments) != 0 {
		t.Errorf("Arguments = %v, want empty map", calls[0].Arguments)
	}
}

func TestExtractToolCallsPreservesEncounterOrder(t *testing.T) {
	history := []models.HistoryMessage{
		{Role: "assistant", ToolCalls: []models.WireToolCall{wireCall("a", "first", `{}`)}},
		{Role: "user", Content: "more"},
		{Role: "assistant", ToolCalls: []models.WireToolCall{
			wireCall("b", "second", `{}`),
			wireCall("c", "third", `{}`),
		}},
	}

	calls := pipeline.ExtractToolCalls(history)
	want := []string{"first", "second", "third"}
	if len(calls) != len(want) {
		t.Fatalf("len = %d, want %d", len(calls), len(want))
	}
	for i, name := range want {
		if calls[i].Name != name {
			t.Errorf("calls[%d].Name = %q, want %q", i, calls[i].Name, name)
		}
	}
}
