package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
)

// ProjectDataPoints derives the flat name/value series legacy consumers
// expect from the first visualization's first trace. Pie-style labels/values
// pairs win over x/y pairs; both zip to the shorter length. An empty result
// is a normal outcome, not an error.
func ProjectDataPoints(vizs []models.Visualization) []models.DataPoint {
	points := []models.DataPoint{}
	if len(vizs) == 0 || len(vizs[0].Figure.Data) == 0 {
		return points
	}
	trace := vizs[0].Figure.Data[0]

	if labels, values := trace.Labels(), trace.Values(); len(labels) > 0 && len(values) > 0 {
		return zipSeries(labels, values)
	}
	if xs, ys := trace.X(), trace.Y(); len(xs) > 0 && len(ys) > 0 {
		return zipSeries(xs, ys)
	}
	return points
}

// zipSeries pairs names with numeric values up to the shorter length. Entries
// whose value cannot be coerced to a number are skipped, never emitted as NaN.
func zipSeries(names, values []interface{}) []models.DataPoint {
	n := len(names)
	if len(values) < n {
		n = len(values)
	}

	points := make([]models.DataPoint, 0, n)
	for i := 0; i < n; i++ {
		v, ok := coerceNumber(values[i])
		if !ok {
			continue
		}
		points = append(points, models.DataPoint{Name: stringify(names[i]), Value: v})
	}
	return points
}

// coerceNumber converts the JSON value shapes a trace can carry into a
// float64. Strings are parsed permissively, tolerating thousands separators.
func coerceNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(n), ",", ""), 64)
		return f, err == nil
	}
	return 0, false
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	}
	return fmt.Sprint(v)
}
