// Package mock produces contract-valid synthetic query results for degraded
// mode, when the upstream analytics backend is unreachable. Outputs are
// deterministic for a given question so downstream snapshots stay stable.
package mock

import (
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var countryNames = []string{"USA", "UK", "Germany", "France", "Japan", "Canada", "Australia"}

var categoryNames = []string{"Product A", "Product B", "Product C", "Product D", "Product E"}

var featureNames = []string{"Search", "Dashboard", "Reports", "Analytics", "Settings"}

// DatasetFor shapes the synthetic series after the question's vocabulary, so
// a degraded response at least resembles what was asked. Values are drawn
// from a generator seeded by the question text.
func DatasetFor(question string) []models.DataPoint {
	lower := strings.ToLower(question)
	rng := rand.New(rand.NewSource(int64(questionSeed(question))))

	switch {
	case strings.Contains(lower, "month"):
		// Last six months, oldest first.
		current := int(time.Now().Month()) - 1
		points := make([]models.DataPoint, 0, 6)
		for i := 0; i < 6; i++ {
			idx := (current - 5 + i + 12) % 12
			points = append(points, models.DataPoint{
				Name:  monthNames[idx],
				Value: float64(rng.Intn(5000) + 1000),
			})
		}
		return points
	case strings.Contains(lower, "countr"):
		return series(countryNames, rng, 100, 0)
	case strings.Contains(lower, "categor"), strings.Contains(lower, "product"):
		return series(categoryNames, rng, 10000, 1000)
	case strings.Contains(lower, "feature"), strings.Contains(lower, "engagement"):
		return series(featureNames, rng, 90, 10)
	}

	points := make([]models.DataPoint, 0, 6)
	for i := 0; i < 6; i++ {
		points = append(points, models.DataPoint{
			Name:  "Group " + strconv.Itoa(i+1),
			Value: float64(rng.Intn(1000) + 100),
		})
	}
	return points
}

func series(names []string, rng *rand.Rand, spread, base int) []models.DataPoint {
	points := make([]models.DataPoint, 0, len(names))
	for _, name := range names {
		points = append(points, models.DataPoint{
			Name:  name,
			Value: float64(rng.Intn(spread) + base),
		})
	}
	return points
}

func questionSeed(question string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(question))))
	return h.Sum32()
}

// SQLFor returns a plausible query trace matching the synthetic dataset.
func SQLFor(question string) string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "month"):
		return `SELECT
  DATE_TRUNC('month', created_at) AS month,
  COUNT(DISTINCT user_id) AS monthly_active_users
FROM user_sessions
WHERE created_at >= CURRENT_DATE - INTERVAL '6 months'
GROUP BY DATE_TRUNC('month', created_at)
ORDER BY month DESC
LIMIT 6;`
	case strings.Contains(lower, "countr"):
		return `SELECT
  countries.name,
  COUNT(conversions.id) / COUNT(DISTINCT sessions.id) * 100 AS conversion_rate
FROM sessions
JOIN users ON sessions.user_id = users.id
JOIN countries ON users.country_id = countries.id
LEFT JOIN conversions ON sessions.id = conversions.session_id
GROUP BY countries.name
ORDER BY conversion_rate DESC;`
	case strings.Contains(lower, "categor"), strings.Contains(lower, "product"):
		return `SELECT
  product_categories.name,
  SUM(order_items.price * order_items.quantity) AS revenue
FROM order_items
JOIN products ON order_items.product_id = products.id
JOIN product_categories ON products.category_id = product_categories.id
GROUP BY product_categories.name
ORDER BY revenue DESC;`
	case strings.Contains(lower, "feature"), strings.Contains(lower, "engagement"):
		return `SELECT
  features.name,
  COUNT(feature_events.id) AS total_interactions,
  COUNT(DISTINCT user_id) AS unique_users
FROM feature_events
JOIN features ON feature_events.feature_id = features.id
WHERE feature_events.created_at >= CURRENT_DATE - INTERVAL '30 days'
GROUP BY features.name
ORDER BY total_interactions DESC;`
	}
	return `SELECT
  dimension.name,
  SUM(metrics.value) AS total_value
FROM fact_table
JOIN dimension ON fact_table.dimension_id = dimension.id
JOIN metrics ON fact_table.metric_id = metrics.id
WHERE fact_table.created_at >= CURRENT_DATE - INTERVAL '90 days'
GROUP BY dimension.name
ORDER BY total_value DESC
LIMIT 10;`
}
