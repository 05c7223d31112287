package mock

import (
	"fmt"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/pipeline"
	"github.com/rs/zerolog/log"
)

// Synthesizer is the terminal fallback: it produces a complete QueryResult
// when the upstream backend is unreachable, identical in contract shape to a
// real response and flagged with IsMockData. It never fails.
type Synthesizer struct {
	endpoint string
}

// NewSynthesizer remembers the configured upstream endpoint so the synthetic
// explanation can name it.
func NewSynthesizer(endpoint string) *Synthesizer {
	return &Synthesizer{endpoint: endpoint}
}

// QueryResult builds a self-consistent synthetic result for the question:
// a small keyed dataset, a bar visualization (plus a pie for low-cardinality
// datasets), a plausible SQL trace, and an explanation naming the original
// question verbatim.
func (s *Synthesizer) QueryResult(question string) *models.QueryResult {
	log.Info().Str("question", question).Msg("upstream unreachable, synthesizing degraded-mode result")

	data := DatasetFor(question)
	vizs := []models.Visualization{barVisualization(data)}
	if len(data) <= 5 {
		vizs = append(vizs, pieVisualization(data))
	}

	explanation := fmt.Sprintf(
		"This is a simulated response because the backend service is unavailable.\n\n"+
			"Your query was: %q\n\n"+
			"Make sure the backend service is reachable at %s, or point YELLOWBIRD_UPSTREAM_URL at your backend.",
		question, s.endpoint)

	return &models.QueryResult{
		Data:           pipeline.ProjectDataPoints(vizs),
		SQL:            SQLFor(question),
		Explanation:    explanation,
		Visualizations: vizs,
		IsMockData:     true,
	}
}

func barVisualization(data []models.DataPoint) models.Visualization {
	xs := make([]interface{}, 0, len(data))
	ys := make([]interface{}, 0, len(data))
	for _, p := range data {
		xs = append(xs, p.Name)
		ys = append(ys, p.Value)
	}

	fig := models.Figure{
		Data: []models.Trace{{
			"type":   "bar",
			"x":      xs,
			"y":      ys,
			"marker": map[string]interface{}{"color": "#36B37E"},
		}},
		Layout: map[string]interface{}{
			"title":         "Sample Data Visualization",
			"xaxis":         map[string]interface{}{"title": "Category"},
			"yaxis":         map[string]interface{}{"title": "Value"},
			"paper_bgcolor": "rgba(0,0,0,0)",
			"plot_bgcolor":  "rgba(0,0,0,0)",
		},
	}
	return models.Visualization{
		Type:        models.ChartBar,
		Figure:      fig,
		Description: "Sample data visualization",
		Reason:      "This is a simulated visualization because the backend service is currently unavailable.",
	}
}

func pieVisualization(data []models.DataPoint) models.Visualization {
	labels := make([]interface{}, 0, len(data))
	values := make([]interface{}, 0, len(data))
	for _, p := range data {
		labels = append(labels, p.Name)
		values = append(values, p.Value)
	}

	fig := models.Figure{
		Data: []models.Trace{{
			"type":   "pie",
			"labels": labels,
			"values": values,
		}},
		Layout: map[string]interface{}{
			"title": "Share by Category",
		},
	}
	return models.Visualization{
		Type:        models.ChartPie,
		Figure:      fig,
		Description: "Share by category",
		Reason:      "A pie view of the same simulated dataset.",
	}
}
