package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/fullstock/internal/catalog"
	"github.com/HerbHall/fullstock/internal/charts"
	"github.com/HerbHall/fullstock/internal/forecast"
	"github.com/HerbHall/fullstock/internal/testutil"
	pkgcatalog "github.com/HerbHall/fullstock/pkg/catalog"
	"github.com/HerbHall/fullstock/pkg/models"
)

func fixedNow() time.Time {
	return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
}

func newTestRenderer(opts ...Option) *Renderer {
	opts = append([]Option{WithClock(fixedNow)}, opts...)
	return NewRenderer(catalog.NewEngine(pkgcatalog.NewCatalog()), opts...)
}

type stubInsights struct {
	calls []int
	err   error
}

func (s *stubInsights) Insight(id int) (forecast.Insight, error) {
	s.calls = append(s.calls, id)
	if s.err != nil {
		return forecast.Insight{}, s.err
	}
	return forecast.Insight{
		Prediction:   forecast.Prediction{ItemID: id, ItemName: "Beef Tenderloin", DaysUntilShortage: 2, ConfidenceScore: 80, Simulated: true},
		UsagePattern: forecast.UsagePatternFor("Beef Tenderloin"),
		Strategy:     forecast.PurchaseStrategyFor(models.CategoryMeat),
	}, nil
}

type errSource struct{}

var errDown = errors.New("catalog unavailable")

func (errSource) Inventory(catalog.InventoryFilter) ([]models.InventoryItem, error) {
	return nil, errDown
}
func (errSource) Suppliers() ([]models.Supplier, error)      { return nil, errDown }
func (errSource) Suggestions(int) ([]models.Supplier, error) { return nil, errDown }
func (errSource) Summary() (catalog.Summary, error)          { return catalog.Summary{}, errDown }
func (errSource) Datasets() (pkgcatalog.Datasets, error)     { return pkgcatalog.Datasets{}, errDown }

func rowByID(t *testing.T, p *Page, id int) Row {
	t.Helper()
	for _, r := range p.Rows {
		if r.Item.ID == id {
			return r
		}
	}
	t.Fatalf("row %d not found", id)
	return Row{}
}

func TestBuild_DefaultView(t *testing.T) {
	p, err := newTestRenderer().Build(ViewState{})
	require.NoError(t, err)

	require.Len(t, p.Rows, 10)
	assert.Equal(t, 1, p.Rows[0].Item.ID, "catalog order without sort")
	for _, r := range p.Rows {
		assert.False(t, r.Hidden)
		assert.False(t, r.Highlight)
	}

	beef := rowByID(t, p, 1)
	assert.Equal(t, "Tomorrow", beef.Delivery)
	assert.Equal(t, "?item=1#suppliers-section", beef.OptionsURL)
	assert.Equal(t, "table-danger", beef.Class())
	assert.Equal(t, "Today", rowByID(t, p, 2).Delivery)
	assert.Equal(t, "Apr 3", rowByID(t, p, 4).Delivery)
	assert.Empty(t, rowByID(t, p, 3).OptionsURL, "ok items have no options link")
	assert.Empty(t, rowByID(t, p, 3).Class())

	require.Len(t, p.Cards, 4)
	assert.Equal(t, 10, p.Cards[0].Count)
	assert.Empty(t, p.Cards[0].URL)
	assert.Equal(t, 3, p.Cards[1].Count)
	assert.Equal(t, "?status=critical#inventory-section", p.Cards[1].URL)
	assert.Equal(t, 4, p.Cards[2].Count)
	assert.Equal(t, "?status=warning#inventory-section", p.Cards[2].URL)

	assert.Equal(t, "?dir=asc&sort=status#inventory-section", p.SortURL, "first click sorts ascending")
	assert.Equal(t, "bi-arrow-down-up", p.SortIcon)
	assert.Nil(t, p.Selected)
	assert.Nil(t, p.Insight)

	require.Len(t, p.Charts, 4)
	assert.Equal(t, charts.TrendChartID, p.Charts[0].ID)
	assert.Equal(t, []int{2}, p.Matches[1])
}

func TestBuild_SuppliersDistributed(t *testing.T) {
	engine := catalog.NewEngine(pkgcatalog.NewCatalog())
	want, err := engine.Suppliers()
	require.NoError(t, err)

	p, err := newTestRenderer().Build(ViewState{})
	require.NoError(t, err)
	require.Len(t, p.Suppliers, len(want))
	for i, card := range p.Suppliers {
		assert.Equal(t, want[i].ID, card.Supplier.ID)
		assert.False(t, card.Highlight)
	}
}

func TestBuild_StatusFilter(t *testing.T) {
	p, err := newTestRenderer().Build(ViewState{Status: models.StatusCritical})
	require.NoError(t, err)

	var visible []int
	for _, r := range p.Rows {
		if !r.Hidden {
			visible = append(visible, r.Item.ID)
			assert.True(t, r.Highlight)
			assert.Contains(t, r.Class(), "highlight-row")
		}
	}
	assert.Equal(t, []int{1, 5, 8}, visible)
	assert.Len(t, p.Rows, 10, "filtered rows are hidden, not removed")
	assert.Equal(t, "./#inventory-section", p.ClearURL)
	assert.Equal(t, "?item=1&status=critical#suppliers-section", rowByID(t, p, 1).OptionsURL)
}

func TestBuild_SortToggle(t *testing.T) {
	r := newTestRenderer()

	asc, err := r.Build(ViewState{Sort: catalog.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCritical, asc.Rows[0].Item.Status)
	assert.Equal(t, models.StatusOK, asc.Rows[9].Item.Status)
	assert.Equal(t, "bi-arrow-up", asc.SortIcon)
	assert.Equal(t, "?dir=desc&sort=status#inventory-section", asc.SortURL)

	desc, err := r.Build(ViewState{Sort: catalog.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOK, desc.Rows[0].Item.Status)
	assert.Equal(t, "bi-arrow-down", desc.SortIcon)
	assert.Equal(t, "?dir=asc&sort=status#inventory-section", desc.SortURL)
}

func TestBuild_SelectedItem(t *testing.T) {
	insights := &stubInsights{}
	p, err := newTestRenderer(WithInsights(insights)).Build(ViewState{ItemID: 1})
	require.NoError(t, err)

	require.NotNil(t, p.Selected)
	assert.Equal(t, "Beef Tenderloin", p.Selected.Name)
	for _, card := range p.Suppliers {
		assert.Equal(t, card.Supplier.ID == 2, card.Highlight, card.Supplier.Name)
	}
	require.NotNil(t, p.Insight)
	assert.Equal(t, []int{1}, insights.calls)
}

func TestBuild_UnknownItemIgnored(t *testing.T) {
	insights := &stubInsights{}
	p, err := newTestRenderer(WithInsights(insights)).Build(ViewState{ItemID: 99})
	require.NoError(t, err)
	assert.Nil(t, p.Selected)
	assert.Nil(t, p.Insight)
	assert.Empty(t, insights.calls)
	for _, card := range p.Suppliers {
		assert.False(t, card.Highlight)
	}
}

func TestBuild_InsightFailureOmitsPanel(t *testing.T) {
	p, err := newTestRenderer(WithInsights(&stubInsights{err: errDown})).Build(ViewState{ItemID: 1})
	require.NoError(t, err)
	assert.NotNil(t, p.Selected)
	assert.Nil(t, p.Insight)
}

func TestBuild_SourceError(t *testing.T) {
	_, err := NewRenderer(errSource{}).Build(ViewState{})
	assert.ErrorIs(t, err, errDown)
}

// chartJSON extracts the chart configuration block from a rendered page.
func chartJSON(t *testing.T, html string) []charts.Chart {
	t.Helper()
	const open = `<script type="application/json" id="chart-data">`
	start := strings.Index(html, open)
	require.GreaterOrEqual(t, start, 0, "chart data block present")
	rest := html[start+len(open):]
	end := strings.Index(rest, "</script>")
	require.GreaterOrEqual(t, end, 0)
	var out []charts.Chart
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(rest[:end])), &out))
	return out
}

func TestRender_HTML(t *testing.T) {
	var b strings.Builder
	require.NoError(t, newTestRenderer(WithLeadsEndpoint("/api/v1/leads/submissions")).Render(&b, ViewState{Status: models.StatusWarning}))
	html := b.String()

	assert.Contains(t, html, "Beef Tenderloin")
	assert.Contains(t, html, "Sponsored")
	assert.Contains(t, html, `id="clear-filter-btn"`)
	assert.Contains(t, html, `data-leads-endpoint="/api/v1/leads/submissions"`)
	assert.Contains(t, html, `data-mode="live"`)
	assert.Contains(t, html, "View Options")
	assert.Equal(t, 6, strings.Count(html, " hidden>"), "only warning rows visible")

	got := chartJSON(t, html)
	require.Len(t, got, 4)
	assert.Equal(t, charts.ShortageChartID, got[2].ID)
	assert.NotEmpty(t, got[2].Config.Data.Datasets[0].Levels)
}

func TestRender_StaticMode(t *testing.T) {
	var b strings.Builder
	require.NoError(t, newTestRenderer().Render(&b, ViewState{}))
	html := b.String()
	assert.Contains(t, html, `data-mode="static"`)
	assert.Contains(t, html, `data-leads-endpoint=""`)
	assert.NotContains(t, html, `id="clear-filter-btn"`)
	assert.NotContains(t, html, " hidden>")
}

func TestRender_InsightPanel(t *testing.T) {
	var b strings.Builder
	require.NoError(t, newTestRenderer(WithInsights(&stubInsights{})).Render(&b, ViewState{ItemID: 1}))
	html := b.String()
	assert.Contains(t, html, "Beef Tenderloin outlook")
	assert.Contains(t, html, "Suggested Suppliers for Beef Tenderloin")
	assert.Contains(t, html, "highlight-card")
}

func TestRender_ErrorWritesNothing(t *testing.T) {
	var b strings.Builder
	err := NewRenderer(errSource{}).Render(&b, ViewState{})
	require.Error(t, err)
	assert.Empty(t, b.String())
}

func TestHandler(t *testing.T) {
	h := newTestRenderer().Handler()

	tests := []struct {
		path        string
		wantStatus  int
		contentType string
		contains    string
	}{
		{"/", http.StatusOK, "text/html", "Inventory Dashboard"},
		{"/?status=critical&sort=status&dir=asc", http.StatusOK, "text/html", "Clear Filter"},
		{"/css/dashboard.css", http.StatusOK, "text/css", ".status-badge"},
		{"/js/dashboard.js", http.StatusOK, "javascript", "chart-data"},
		{"/js/config.js", http.StatusOK, "javascript", "window.env = {};"},
		{"/js/missing.js", http.StatusNotFound, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.contentType != "" {
				assert.Contains(t, w.Header().Get("Content-Type"), tc.contentType)
			}
			assert.Contains(t, w.Body.String(), tc.contains)
		})
	}
}

func TestHandler_RenderError(t *testing.T) {
	w := httptest.NewRecorder()
	NewRenderer(errSource{}).Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAssets(t *testing.T) {
	for _, name := range []string{"css/dashboard.css", "js/dashboard.js"} {
		f, err := Assets().Open(name)
		require.NoError(t, err, name)
		require.NoError(t, f.Close())
	}
}

func TestBuild_DeliveryFollowsClock(t *testing.T) {
	clock := testutil.NewClock()
	r := NewRenderer(catalog.NewEngine(pkgcatalog.NewCatalog()),
		WithClock(clock.Now), WithLogger(testutil.Logger()))

	for _, want := range []string{"Tomorrow", "Today", "Apr 2"} {
		p, err := r.Build(ViewState{})
		require.NoError(t, err)
		assert.Equal(t, want, rowByID(t, p, 1).Delivery)
		clock.Advance(24 * time.Hour)
	}
}

func TestBuild_FilterMatchesMixedCaseStatus(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 1, Name: "Beef", Category: models.CategoryMeat, Status: "Critical", NextDelivery: "2025-04-02"},
		{ID: 2, Name: "Salt", Category: models.CategoryPantry, Status: "OK", NextDelivery: "2025-04-03"},
	}
	src := catalog.NewEngine(pkgcatalog.NewStatic(items, nil, pkgcatalog.Datasets{}))
	r := NewRenderer(src, WithClock(fixedNow))

	p, err := r.Build(ViewState{Status: models.StatusCritical})
	require.NoError(t, err)
	beef := rowByID(t, p, 1)
	assert.True(t, beef.Highlight)
	assert.False(t, beef.Hidden)
	assert.True(t, rowByID(t, p, 2).Hidden)
}
