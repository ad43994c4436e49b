// Package web renders the FullStock dashboard page from catalog data and
// serves its static assets. The same renderer backs the live server and
// the static build.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/internal/catalog"
	"github.com/HerbHall/fullstock/internal/charts"
	"github.com/HerbHall/fullstock/internal/forecast"
	"github.com/HerbHall/fullstock/internal/leads"
	pkgcatalog "github.com/HerbHall/fullstock/pkg/catalog"
	"github.com/HerbHall/fullstock/pkg/models"
)

//go:embed templates/*
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Section anchors on the dashboard page.
const (
	InventorySection = "inventory-section"
	SuppliersSection = "suppliers-section"
)

// Source provides the dashboard data. *catalog.Engine satisfies it.
type Source interface {
	Inventory(filter catalog.InventoryFilter) ([]models.InventoryItem, error)
	Suppliers() ([]models.Supplier, error)
	Suggestions(id int) ([]models.Supplier, error)
	Summary() (catalog.Summary, error)
	Datasets() (pkgcatalog.Datasets, error)
}

// InsightSource explains a selected item. *forecast.Module satisfies it.
type InsightSource interface {
	Insight(id int) (forecast.Insight, error)
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithClock sets the time used to format delivery dates.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithLeadsEndpoint makes the lead form post to endpoint. Without it the
// page posts directly to Airtable using the credentials in js/config.js.
func WithLeadsEndpoint(endpoint string) Option {
	return func(r *Renderer) { r.leadsEndpoint = endpoint }
}

// WithInsights shows a forecast panel for the selected item.
func WithInsights(src InsightSource) Option {
	return func(r *Renderer) { r.insights = src }
}

// WithLogger sets the renderer's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// Renderer renders dashboard pages.
type Renderer struct {
	src           Source
	insights      InsightSource
	now           func() time.Time
	leadsEndpoint string
	logger        *zap.Logger
	tmpl          *template.Template
}

// NewRenderer creates a renderer over src.
func NewRenderer(src Source, opts ...Option) *Renderer {
	r := &Renderer{
		src:    src,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.tmpl = template.Must(template.New("").Funcs(template.FuncMap{
		"quantity": formatQuantity,
	}).ParseFS(templateFS, "templates/*.gohtml"))
	return r
}

// Assets returns the embedded static files rooted at css/ and js/.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// SummaryCard is one status count at the top of the page. URL is empty
// for cards that do not filter.
type SummaryCard struct {
	Title string
	Count int
	Class string
	URL   string
}

// Row is one inventory table row.
type Row struct {
	Item     models.InventoryItem
	Delivery string
	// Hidden rows are filtered out by the active status filter.
	Hidden bool
	// Highlight marks rows matching the active status filter.
	Highlight bool
	// OptionsURL links to the item's suppliers; empty for ok items.
	OptionsURL string
}

// Class returns the row's CSS classes.
func (r Row) Class() string {
	c := r.Item.Status.RowClass()
	if r.Highlight {
		if c != "" {
			c += " "
		}
		c += "highlight-row"
	}
	return c
}

// SupplierCard is one supplier in the suggestions section.
type SupplierCard struct {
	Supplier  models.Supplier
	Highlight bool
}

// Page is the template data for the dashboard.
type Page struct {
	View      ViewState
	Cards     []SummaryCard
	Rows      []Row
	Suppliers []SupplierCard
	Charts    []charts.Chart
	Selected  *models.InventoryItem
	Insight   *forecast.Insight
	// Matches maps each item id to its matching supplier ids so a static
	// page can highlight suppliers without a server.
	Matches       map[int][]int
	SortURL       string
	SortIcon      string
	ClearURL      string
	LeadsEndpoint string
	FailureAlert  string
	Year          int
}

// Build assembles the page for vs.
func (r *Renderer) Build(vs ViewState) (*Page, error) {
	now := r.now()
	summary, err := r.src.Summary()
	if err != nil {
		return nil, err
	}
	items, err := r.src.Inventory(catalog.InventoryFilter{Sort: vs.Sort})
	if err != nil {
		return nil, err
	}
	suppliers, err := r.src.Suppliers()
	if err != nil {
		return nil, err
	}
	ds, err := r.src.Datasets()
	if err != nil {
		return nil, err
	}

	p := &Page{
		View:          vs,
		Cards:         summaryCards(summary, vs),
		Charts:        charts.Dashboard(ds),
		SortURL:       vs.WithSort(vs.Sort.Toggle()).URL(InventorySection),
		SortIcon:      sortIcon(vs.Sort),
		ClearURL:      vs.WithStatus("").URL(InventorySection),
		LeadsEndpoint: r.leadsEndpoint,
		FailureAlert:  leads.FailureAlert,
		Year:          now.Year(),
	}

	p.Rows = make([]Row, 0, len(items))
	p.Matches = make(map[int][]int, len(items))
	for i := range items {
		item := items[i]
		row := Row{Item: item, Delivery: FormatDelivery(item.NextDelivery, now)}
		if vs.Filtered() {
			st, _ := models.ParseStatus(string(item.Status))
			row.Highlight = st == vs.Status
			row.Hidden = !row.Highlight
		}
		if item.NeedsAttention() {
			row.OptionsURL = vs.WithItem(item.ID).URL(SuppliersSection)
		}
		if item.ID == vs.ItemID {
			p.Selected = &item
		}
		matches, err := r.src.Suggestions(item.ID)
		if err != nil {
			return nil, err
		}
		ids := make([]int, 0, len(matches))
		for _, s := range matches {
			ids = append(ids, s.ID)
		}
		p.Matches[item.ID] = ids
		p.Rows = append(p.Rows, row)
	}

	matched := map[int]bool{}
	if p.Selected != nil {
		for _, id := range p.Matches[p.Selected.ID] {
			matched[id] = true
		}
		p.Insight = r.insight(p.Selected.ID)
	}
	p.Suppliers = make([]SupplierCard, 0, len(suppliers))
	for _, s := range suppliers {
		p.Suppliers = append(p.Suppliers, SupplierCard{Supplier: s, Highlight: matched[s.ID]})
	}
	return p, nil
}

// insight returns nil when no insight source is set or the lookup fails;
// the panel is optional.
func (r *Renderer) insight(id int) *forecast.Insight {
	if r.insights == nil {
		return nil
	}
	in, err := r.insights.Insight(id)
	if err != nil {
		r.logger.Warn("insight unavailable", zap.Int("item_id", id), zap.Error(err))
		return nil
	}
	return &in
}

// Render writes the dashboard for vs to w. Nothing is written when the
// page cannot be built.
func (r *Renderer) Render(w io.Writer, vs ViewState) error {
	p, err := r.Build(vs)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "dashboard.gohtml", p); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// Handler serves the dashboard at / and the static assets under /css/ and
// /js/. js/config.js carries no credentials when served live.
func (r *Renderer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", r.handleDashboard)
	mux.HandleFunc("GET /js/config.js", handleConfigJS)
	static := http.FileServer(http.FS(Assets()))
	mux.Handle("GET /css/", static)
	mux.Handle("GET /js/", static)
	return mux
}

func (r *Renderer) handleDashboard(w http.ResponseWriter, req *http.Request) {
	vs := ParseViewState(req.URL.Query())
	var buf bytes.Buffer
	if err := r.Render(&buf, vs); err != nil {
		r.logger.Error("render dashboard", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func handleConfigJS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, "window.env = {};\n")
}

func summaryCards(s catalog.Summary, vs ViewState) []SummaryCard {
	return []SummaryCard{
		{Title: "Total Items", Count: s.Total, Class: "card-total"},
		{Title: "Critical", Count: s.Critical, Class: "card-critical", URL: vs.WithStatus(models.StatusCritical).URL(InventorySection)},
		{Title: "Warning", Count: s.Warning, Class: "card-warning", URL: vs.WithStatus(models.StatusWarning).URL(InventorySection)},
		{Title: "OK", Count: s.OK, Class: "card-ok"},
	}
}

func sortIcon(o catalog.SortOrder) string {
	switch o {
	case catalog.SortAsc:
		return "bi-arrow-up"
	case catalog.SortDesc:
		return "bi-arrow-down"
	default:
		return "bi-arrow-down-up"
	}
}
