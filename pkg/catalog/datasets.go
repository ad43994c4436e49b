package catalog

import "slices"

// Series is one named run of values in a chart dataset, with the styling
// the chart renderer needs.
type Series struct {
	Label            string    `json:"label" yaml:"label"`
	Data             []float64 `json:"data" yaml:"data"`
	BorderColor      string    `json:"border_color,omitempty" yaml:"border_color"`
	BackgroundColor  string    `json:"background_color,omitempty" yaml:"background_color"`
	BackgroundColors []string  `json:"background_colors,omitempty" yaml:"background_colors"`
	BorderWidth      int       `json:"border_width,omitempty" yaml:"border_width"`
	Fill             bool      `json:"fill,omitempty" yaml:"fill"`
	Tension          float64   `json:"tension,omitempty" yaml:"tension"`
}

// Dataset is an ordered set of axis labels with one or more series.
type Dataset struct {
	Labels []string `json:"labels" yaml:"labels"`
	Series []Series `json:"series" yaml:"series"`
}

// Datasets groups the static datasets drawn on the dashboard.
type Datasets struct {
	Trend                Dataset `json:"trend" yaml:"trend"`
	CategoryDistribution Dataset `json:"category_distribution" yaml:"category_distribution"`
	ShortageForecast     Dataset `json:"shortage_forecast" yaml:"shortage_forecast"`
	WeeklyUsage          Dataset `json:"weekly_usage" yaml:"weekly_usage"`
	HistoricalUsage      Dataset `json:"historical_usage" yaml:"historical_usage"`
}

// SeriesByLabel returns the series with the given label.
func (d Dataset) SeriesByLabel(label string) (Series, bool) {
	for _, s := range d.Series {
		if s.Label == label {
			return s, true
		}
	}
	return Series{}, false
}

// Clone returns a deep copy of d.
func (d Dataset) Clone() Dataset {
	out := Dataset{Labels: slices.Clone(d.Labels)}
	if d.Series != nil {
		out.Series = make([]Series, len(d.Series))
		for i, s := range d.Series {
			s.Data = slices.Clone(s.Data)
			s.BackgroundColors = slices.Clone(s.BackgroundColors)
			out.Series[i] = s
		}
	}
	return out
}

// Clone returns a deep copy of ds.
func (ds Datasets) Clone() Datasets {
	return Datasets{
		Trend:                ds.Trend.Clone(),
		CategoryDistribution: ds.CategoryDistribution.Clone(),
		ShortageForecast:     ds.ShortageForecast.Clone(),
		WeeklyUsage:          ds.WeeklyUsage.Clone(),
		HistoricalUsage:      ds.HistoricalUsage.Clone(),
	}
}

// IsZero reports whether no dataset carries any labels.
func (ds Datasets) IsZero() bool {
	return len(ds.Trend.Labels) == 0 &&
		len(ds.CategoryDistribution.Labels) == 0 &&
		len(ds.ShortageForecast.Labels) == 0 &&
		len(ds.WeeklyUsage.Labels) == 0 &&
		len(ds.HistoricalUsage.Labels) == 0
}
