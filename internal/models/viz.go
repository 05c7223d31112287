package models

// ChartType is the fixed set of semantic chart types the UI understands.
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartPie     ChartType = "pie"
	ChartArea    ChartType = "area"
	ChartScatter ChartType = "scatter"
)

// ValidChartType reports whether s names a member of the ChartType enum.
func ValidChartType(s string) bool {
	switch ChartType(s) {
	case ChartBar, ChartLine, ChartPie, ChartArea, ChartScatter:
		return true
	}
	return false
}

// DisplayName returns the human label used for default descriptions,
// e.g. "Bar Chart".
func (t ChartType) DisplayName() string {
	switch t {
	case ChartBar:
		return "Bar Chart"
	case ChartLine:
		return "Line Chart"
	case ChartPie:
		return "Pie Chart"
	case ChartArea:
		return "Area Chart"
	case ChartScatter:
		return "Scatter Chart"
	}
	return "Chart"
}

// Trace is one plotted series within a figure. Upstream figure payloads carry
// arbitrary renderer-specific keys, so a trace stays an open map: it must
// survive a round trip to the rendering library byte-for-byte in content.
// Accessors cover the handful of fields the pipeline inspects.
type Trace map[string]interface{}

// TypeTag returns the trace's native type tag ("bar", "scatter", "pie", ...).
func (t Trace) TypeTag() string { return t.stringField("type") }

// Mode returns the draw mode string ("lines", "markers", "lines+markers", ...).
func (t Trace) Mode() string { return t.stringField("mode") }

// Fill returns the area-fill setting ("tozeroy", "tonexty", ...).
func (t Trace) Fill() string { return t.stringField("fill") }

func (t Trace) X() []interface{}      { return t.listField("x") }
func (t Trace) Y() []interface{}      { return t.listField("y") }
func (t Trace) Labels() []interface{} { return t.listField("labels") }
func (t Trace) Values() []interface{} { return t.listField("values") }

func (t Trace) stringField(key string) string {
	if s, ok := t[key].(string); ok {
		return s
	}
	return ""
}

func (t Trace) listField(key string) []interface{} {
	if l, ok := t[key].([]interface{}); ok {
		return l
	}
	return nil
}

// Figure is a chart specification: an ordered list of traces plus layout
// metadata. Beyond trace inspection it is opaque to this module and is handed
// verbatim to the rendering layer.
type Figure struct {
	Data   []Trace                `json:"data"`
	Layout map[string]interface{} `json:"layout,omitempty"`
}

// Visualization pairs a semantic chart type with the figure to render.
type Visualization struct {
	Type        ChartType `json:"type"`
	Figure      Figure    `json:"figure"`
	Description string    `json:"description"`
	Reason      string    `json:"reason"`
}
