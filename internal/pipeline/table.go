package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
)

// markdownTablePattern matches a GitHub-flavored markdown table: a header
// row, a separator row of dashes/colons, and one or more data rows.
var markdownTablePattern = regexp.MustCompile(`\|([^\n]+)\|[ \t]*\n\|[ \t:|-]+\|[ \t]*\n((?:\|[^\n]*\|[ \t]*(?:\n|$))+)`)

var (
	categoryTokens = []string{"date", "time", "month", "year"}
	metricTokens   = []string{"sales", "value", "amount", "total"}
)

// ExtractTableVisualization scans a markdown-formatted explanation for a
// table and synthesizes one visualization from it. It is the fallback used
// when normalization produced nothing. The second return is false when no
// usable table was found, never an error.
func ExtractTableVisualization(explanation string) (models.Visualization, bool) {
	headers, rows, ok := parseMarkdownTable(explanation)
	if !ok {
		return models.Visualization{}, false
	}

	catIdx := findColumn(headers, categoryTokens)
	metIdx := findColumn(headers, metricTokens)

	if catIdx >= 0 && metIdx >= 0 {
		return buildLineFromTable(headers, rows, catIdx, metIdx)
	}
	if len(headers) >= 2 {
		return buildBarFromTable(headers, rows)
	}
	return models.Visualization{}, false
}

// parseMarkdownTable returns trimmed column names and cell rows, discarding
// the empty leading/trailing cells the |-delimited syntax produces.
func parseMarkdownTable(text string) (headers []string, rows [][]string, ok bool) {
	m := markdownTablePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, nil, false
	}

	headers = splitTableRow(m[1])
	for _, line := range strings.Split(strings.TrimSpace(m[2]), "\n") {
		if cells := splitTableRow(line); len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	if len(headers) == 0 || len(rows) == 0 {
		return nil, nil, false
	}
	return headers, rows, true
}

func splitTableRow(line string) []string {
	var cells []string
	for _, cell := range strings.Split(line, "|") {
		if trimmed := strings.TrimSpace(cell); trimmed != "" {
			cells = append(cells, trimmed)
		}
	}
	return cells
}

// findColumn returns the index of the first column whose name contains one of
// the tokens, or -1.
func findColumn(headers []string, tokens []string) int {
	for i, h := range headers {
		lower := strings.ToLower(h)
		for _, tok := range tokens {
			if strings.Contains(lower, tok) {
				return i
			}
		}
	}
	return -1
}

func buildLineFromTable(headers []string, rows [][]string, catIdx, metIdx int) (models.Visualization, bool) {
	xs, ys, ok := tableColumns(rows, catIdx, metIdx)
	if !ok {
		return models.Visualization{}, false
	}

	fig := models.Figure{
		Data: []models.Trace{{
			"type":   "scatter",
			"mode":   "lines+markers",
			"x":      xs,
			"y":      ys,
			"name":   headers[metIdx],
			"marker": map[string]interface{}{"color": "#4C9AFF"},
		}},
		Layout: map[string]interface{}{
			"title": headers[metIdx] + " over time",
			"xaxis": map[string]interface{}{"title": headers[catIdx]},
			"yaxis": map[string]interface{}{"title": headers[metIdx]},
		},
	}
	return models.Visualization{
		Type:        models.ChartLine,
		Figure:      fig,
		Description: headers[metIdx] + " over " + headers[catIdx],
		Reason:      "Visualizing the trend of " + headers[metIdx] + " over time.",
	}, true
}

func buildBarFromTable(headers []string, rows [][]string) (models.Visualization, bool) {
	xs, ys, ok := tableColumns(rows, 0, 1)
	if !ok {
		return models.Visualization{}, false
	}

	fig := models.Figure{
		Data: []models.Trace{{
			"type":   "bar",
			"x":      xs,
			"y":      ys,
			"name":   headers[1],
			"marker": map[string]interface{}{"color": "#36B37E"},
		}},
		Layout: map[string]interface{}{
			"title": headers[1],
			"xaxis": map[string]interface{}{"title": headers[0]},
			"yaxis": map[string]interface{}{"title": headers[1]},
		},
	}
	return models.Visualization{
		Type:        models.ChartBar,
		Figure:      fig,
		Description: headers[1] + " by " + headers[0],
		Reason:      "Comparing " + headers[1] + " across different " + headers[0] + " categories.",
	}, true
}

// tableColumns extracts the category column verbatim and the metric column as
// numbers, stripping thousands-separator commas. Any row missing a cell or
// carrying a non-numeric metric makes the whole extraction yield nothing.
func tableColumns(rows [][]string, catIdx, metIdx int) ([]interface{}, []interface{}, bool) {
	xs := make([]interface{}, 0, len(rows))
	ys := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		if catIdx >= len(row) || metIdx >= len(row) {
			return nil, nil, false
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(row[metIdx], ",", ""), 64)
		if err != nil {
			return nil, nil, false
		}
		xs = append(xs, row[catIdx])
		ys = append(ys, v)
	}
	return xs, ys, true
}
