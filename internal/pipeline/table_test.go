package pipeline_test

import (
	"reflect"
	"testing"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/pipeline"
)

func TestExtractTableVisualizationTimeSeries(t *testing.T) {
	explanation := "Sales grew steadily over the quarter.\n\n" +
		"| Month | Sales |\n" +
		"|-------|-------|\n" +
		"| Jan | 1,200 |\n" +
		"| Feb | 1,500 |\n\n" +
		"A strong finish."

	viz, ok := pipeline.ExtractTableVisualization(explanation)
	if !ok {
		t.Fatal("expected a visualization from the table")
	}
	if viz.Type != models.ChartLine {
		t.Errorf("Type = %q, want line for a month/sales table", viz.Type)
	}

	trace := viz.Figure.Data[0]
	if trace.TypeTag() != "scatter" || trace.Mode() != "lines+markers" {
		t.Errorf("trace = %+v, want scatter lines+markers", trace)
	}
	wantX := []interface{}{"Jan", "Feb"}
	wantY := []interface{}{1200.0, 1500.0}
	if !reflect.DeepEqual(trace.X(), wantX) {
		t.Errorf("x = %v, want %v", trace.X(), wantX)
	}
	if !reflect.DeepEqual(trace.Y(), wantY) {
		t.Errorf("y = %v, want %v; thousands separators must be stripped", trace.Y(), wantY)
	}
}

func TestExtractTableVisualizationGenericColumns(t *testing.T) {
	explanation := "| Country | Revenue |\n" +
		"|---------|---------|\n" +
		"| US | 900 |\n" +
		"| UK | 450 |\n"

	viz, ok := pipeline.ExtractTableVisualization(explanation)
	if !ok {
		t.Fatal("expected a visualization from the table")
	}
	// No time-like or metric-like header, so a bar chart of the first two
	// columns.
	if viz.Type != models.ChartBar {
		t.Errorf("Type = %q, want bar", viz.Type)
	}
	if got := viz.Figure.Data[0].TypeTag(); got != "bar" {
		t.Errorf("trace type = %q, want bar", got)
	}
}

func TestExtractTableVisualizationRejectsBadTables(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no table at all", "just prose, nothing tabular"},
		{"non-numeric metric", "| Month | Sales |\n|---|---|\n| Jan | lots |\n"},
		{"missing cell", "| Month | Sales |\n|---|---|\n| Jan |\n"},
		{"empty explanation", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := pipeline.ExtractTableVisualization(tt.text); ok {
				t.Errorf("ExtractTableVisualization(%q) succeeded, want rejection", tt.text)
			}
		})
	}
}
