package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/mock"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Answer is what an engine produces for one question, before the simulator
// formats it for the wire.
type Answer struct {
	Explanation string
	SQL         string
	Figure      models.Figure
	Trace       []ToolExecution
}

// ToolExecution is one recorded tool invocation with its raw output.
type ToolExecution struct {
	ID     string
	Name   string
	Args   string
	Output string
}

// Engine answers a natural-language question about tabular data.
type Engine interface {
	Answer(ctx context.Context, question string) (*Answer, error)
}

// ScriptedEngine answers from keyed templates. With a data source attached
// it runs the templated SQL for real; without one it fabricates a matching
// series, which keeps the service useful on a laptop with nothing installed.
type ScriptedEngine struct {
	ds    DataSource
	guard *QueryGuard
}

func NewScriptedEngine(ds DataSource) *ScriptedEngine {
	return &ScriptedEngine{ds: ds, guard: NewQueryGuard()}
}

func (e *ScriptedEngine) Answer(ctx context.Context, question string) (*Answer, error) {
	sql := mock.SQLFor(question)

	points := e.resolvePoints(ctx, question, sql)
	if len(points) == 0 {
		return nil, fmt.Errorf("no data for question")
	}

	callID := "call_" + uuid.NewString()[:8]
	output := rowsJSON(points)

	return &Answer{
		Explanation: explanationFor(question, points),
		SQL:         sql,
		Figure:      barFigure(points, "Results"),
		Trace: []ToolExecution{{
			ID:     callID,
			Name:   "execute_sql",
			Args:   mustJSON(map[string]string{"sql": sql}),
			Output: output,
		}},
	}, nil
}

func (e *ScriptedEngine) resolvePoints(ctx context.Context, question, sql string) []models.DataPoint {
	if e.ds == nil {
		return mock.DatasetFor(question)
	}
	if err := e.guard.Check(sql); err != nil {
		log.Warn().Err(err).Msg("templated sql rejected, using synthetic data")
		return mock.DatasetFor(question)
	}
	rows, err := e.ds.Query(ctx, sql)
	if err != nil {
		log.Warn().Err(err).Msg("data source query failed, using synthetic data")
		return mock.DatasetFor(question)
	}
	if points := pointsFromRows(rows); len(points) > 0 {
		return points
	}
	return mock.DatasetFor(question)
}

// pointsFromRows maps the first column to names and the first numeric-looking
// column after it to values.
func pointsFromRows(rows *Rows) []models.DataPoint {
	if rows == nil || len(rows.Columns) < 2 {
		return nil
	}
	nameCol := rows.Columns[0]
	valueCol := rows.Columns[1]

	var points []models.DataPoint
	for _, record := range rows.Records {
		value, ok := numericValue(record[valueCol])
		if !ok {
			continue
		}
		points = append(points, models.DataPoint{
			Name:  fmt.Sprintf("%v", record[nameCol]),
			Value: value,
		})
	}
	return points
}

func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(n, ",", ""), 64)
		return f, err == nil
	}
	return 0, false
}

func barFigure(points []models.DataPoint, title string) models.Figure {
	names := make([]interface{}, len(points))
	values := make([]interface{}, len(points))
	for i, p := range points {
		names[i] = p.Name
		values[i] = p.Value
	}
	return models.Figure{
		Data: []models.Trace{{
			"type": "bar",
			"x":    names,
			"y":    values,
		}},
		Layout: map[string]interface{}{"title": title},
	}
}

// explanationFor writes the answer prose with a markdown table of the series,
// the same shape a human analyst would paste into chat.
func explanationFor(question string, points []models.DataPoint) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are the results for %q.\n\n", question)
	sb.WriteString("| Name | Value |\n")
	sb.WriteString("|------|-------|\n")
	for _, p := range points {
		fmt.Fprintf(&sb, "| %s | %s |\n", p.Name, strconv.FormatFloat(p.Value, 'f', -1, 64))
	}
	return sb.String()
}

func rowsJSON(points []models.DataPoint) string {
	records := make([]map[string]interface{}, len(points))
	for i, p := range points {
		records[i] = map[string]interface{}{"name": p.Name, "value": p.Value}
	}
	return mustJSON(map[string]interface{}{
		"row_count": len(records),
		"columns":   []string{"name", "value"},
		"data":      records,
	})
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
