// Package charts turns catalog datasets into Chart.js configurations.
//
// Each builder returns a Chart whose Config marshals to the object passed
// to `new Chart(canvas, config)`. Tooltip callbacks cannot travel as JSON,
// so the values they display (shortage levels, category shares) are
// precomputed here and attached to each dataset.
package charts

import (
	pkgcatalog "github.com/HerbHall/fullstock/pkg/catalog"
)

// Canvas ids on the dashboard. The historical chart has no canvas on the
// default page and is only served by the API.
const (
	TrendChartID      = "trendChart"
	CategoryChartID   = "categoryChart"
	ShortageChartID   = "shortageChart"
	UsageChartID      = "usageChart"
	HistoricalChartID = "historicalChart"
)

// Chart types understood by Chart.js.
const (
	TypeLine     = "line"
	TypeBar      = "bar"
	TypeDoughnut = "doughnut"
)

// Chart pairs a canvas id with its configuration.
type Chart struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Config Config `json:"config"`
}

// Config is a Chart.js chart configuration.
type Config struct {
	Type    string         `json:"type"`
	Data    Data           `json:"data"`
	Options map[string]any `json:"options"`
}

// Data is the Chart.js data block.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one Chart.js dataset. BackgroundColor is either a single
// color or one color per point.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BackgroundColor any       `json:"backgroundColor,omitempty"`
	BorderWidth     int       `json:"borderWidth,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
	Tension         float64   `json:"tension,omitempty"`

	// Levels holds ShortageLevel per point for the shortage tooltip.
	Levels []string `json:"levels,omitempty"`
	// Shares holds CategoryShare per point for the doughnut tooltip.
	Shares []int `json:"shares,omitempty"`
}

var (
	gridDash     = map[string]any{"borderDash": []int{2, 4}, "drawBorder": false}
	noGrid       = map[string]any{"display": false}
	indexTooltip = map[string]any{"mode": "index", "intersect": false}
	lineElements = map[string]any{"line": map[string]any{"tension": 0.4}, "point": map[string]any{"radius": 3, "hoverRadius": 5}}
	topLegend    = map[string]any{"position": "top"}
)

func responsiveOpt() map[string]any {
	return map[string]any{"responsive": true, "maintainAspectRatio": false}
}

// TrendChart is the inventory status trend line chart.
func TrendChart(ds pkgcatalog.Dataset) Chart {
	opts := responsiveOpt()
	opts["plugins"] = map[string]any{"legend": topLegend, "tooltip": indexTooltip}
	opts["scales"] = map[string]any{
		"x": map[string]any{"grid": noGrid},
		"y": map[string]any{"beginAtZero": true, "grid": gridDash},
	}
	opts["elements"] = lineElements
	return Chart{
		ID:     TrendChartID,
		Title:  "Inventory Status Trend",
		Config: Config{Type: TypeLine, Data: convert(ds), Options: opts},
	}
}

// CategoryChart is the category distribution doughnut.
func CategoryChart(ds pkgcatalog.Dataset) Chart {
	opts := responsiveOpt()
	opts["plugins"] = map[string]any{
		"legend": map[string]any{
			"position": "right",
			"labels":   map[string]any{"boxWidth": 12, "padding": 15},
		},
	}
	opts["cutout"] = "60%"

	data := convert(ds)
	for i := range data.Datasets {
		values := data.Datasets[i].Data
		shares := make([]int, len(values))
		for j := range values {
			shares[j] = CategoryShare(values, j)
		}
		data.Datasets[i].Shares = shares
	}
	return Chart{
		ID:     CategoryChartID,
		Title:  "Inventory by Category",
		Config: Config{Type: TypeDoughnut, Data: data, Options: opts},
	}
}

// ShortageChart is the projected stock line chart. Values below zero are
// projected shortages.
func ShortageChart(ds pkgcatalog.Dataset) Chart {
	opts := responsiveOpt()
	opts["plugins"] = map[string]any{"legend": topLegend, "tooltip": indexTooltip}
	opts["scales"] = map[string]any{
		"x": map[string]any{"grid": noGrid},
		"y": map[string]any{"grid": gridDash},
	}
	opts["elements"] = lineElements

	data := convert(ds)
	for i := range data.Datasets {
		levels := make([]string, len(data.Datasets[i].Data))
		for j, v := range data.Datasets[i].Data {
			levels[j] = ShortageLevel(v)
		}
		data.Datasets[i].Levels = levels
	}
	return Chart{
		ID:     ShortageChartID,
		Title:  "Predicted Shortages",
		Config: Config{Type: TypeLine, Data: data, Options: opts},
	}
}

// UsageChart is the weekly usage bar chart.
func UsageChart(ds pkgcatalog.Dataset) Chart {
	opts := responsiveOpt()
	opts["plugins"] = map[string]any{"legend": topLegend, "tooltip": indexTooltip}
	opts["scales"] = map[string]any{
		"x": map[string]any{"grid": noGrid},
		"y": map[string]any{
			"beginAtZero": true,
			"grid":        gridDash,
			"title":       map[string]any{"display": true, "text": "Units Used"},
		},
	}
	opts["barPercentage"] = 0.7
	opts["categoryPercentage"] = 0.7
	return Chart{
		ID:     UsageChartID,
		Title:  "Weekly Usage Pattern",
		Config: Config{Type: TypeBar, Data: convert(ds), Options: opts},
	}
}

// HistoricalChart is the monthly usage per category line chart.
func HistoricalChart(ds pkgcatalog.Dataset) Chart {
	opts := responsiveOpt()
	opts["plugins"] = map[string]any{"legend": topLegend, "tooltip": indexTooltip}
	opts["scales"] = map[string]any{
		"x": map[string]any{"grid": noGrid},
		"y": map[string]any{"beginAtZero": true, "grid": gridDash},
	}
	opts["elements"] = lineElements
	return Chart{
		ID:     HistoricalChartID,
		Title:  "Historical Usage",
		Config: Config{Type: TypeLine, Data: convert(ds), Options: opts},
	}
}

// Dashboard returns the four dashboard charts in page order.
func Dashboard(ds pkgcatalog.Datasets) []Chart {
	return []Chart{
		TrendChart(ds.Trend),
		CategoryChart(ds.CategoryDistribution),
		ShortageChart(ds.ShortageForecast),
		UsageChart(ds.WeeklyUsage),
	}
}

// All returns the dashboard charts followed by the historical chart.
func All(ds pkgcatalog.Datasets) []Chart {
	return append(Dashboard(ds), HistoricalChart(ds.HistoricalUsage))
}

// ByID returns the chart with the given canvas id.
func ByID(ds pkgcatalog.Datasets, id string) (Chart, bool) {
	for _, c := range All(ds) {
		if c.ID == id {
			return c, true
		}
	}
	return Chart{}, false
}

func convert(ds pkgcatalog.Dataset) Data {
	ds = ds.Clone()
	out := Data{Labels: ds.Labels, Datasets: make([]Dataset, 0, len(ds.Series))}
	if out.Labels == nil {
		out.Labels = []string{}
	}
	for _, s := range ds.Series {
		d := Dataset{
			Label:       s.Label,
			Data:        s.Data,
			BorderColor: s.BorderColor,
			BorderWidth: s.BorderWidth,
			Fill:        s.Fill,
			Tension:     s.Tension,
		}
		if d.Data == nil {
			d.Data = []float64{}
		}
		switch {
		case len(s.BackgroundColors) > 0:
			d.BackgroundColor = s.BackgroundColors
		case s.BackgroundColor != "":
			d.BackgroundColor = s.BackgroundColor
		}
		out.Datasets = append(out.Datasets, d)
	}
	return out
}
