package pipeline

import (
	"strings"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
)

// InferChartType classifies a figure by inspecting its first trace. Used
// whenever a visualization arrives without an explicit type.
//
// The checks are ordered and the ordering is load-bearing: a scatter trace
// whose mode is "lines+markers" classifies as line, not scatter, because
// "lines" is checked first.
func InferChartType(fig models.Figure) models.ChartType {
	if len(fig.Data) == 0 {
		return models.ChartBar
	}
	first := fig.Data[0]

	switch first.TypeTag() {
	case "pie":
		return models.ChartPie
	case "scatter":
		mode := strings.ToLower(first.Mode())
		if strings.Contains(mode, "lines") {
			return models.ChartLine
		}
		if strings.Contains(mode, "markers") {
			return models.ChartScatter
		}
		if isZeroBaselineFill(first.Fill()) {
			return models.ChartArea
		}
	}
	return models.ChartBar
}

func isZeroBaselineFill(fill string) bool {
	switch strings.ToLower(fill) {
	case "tozeroy", "tozerox":
		return true
	}
	return false
}
