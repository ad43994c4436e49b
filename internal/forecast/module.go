package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/internal/catalog"
	"github.com/HerbHall/fullstock/internal/config"
	"github.com/HerbHall/fullstock/internal/plugin"
	"github.com/HerbHall/fullstock/internal/server"
	"github.com/HerbHall/fullstock/internal/version"
	"github.com/HerbHall/fullstock/pkg/models"
)

// Catalog is the inventory lookup the forecast module needs.
// *catalog.Engine satisfies it.
type Catalog interface {
	Item(id int) (models.InventoryItem, error)
	Inventory(filter catalog.InventoryFilter) ([]models.InventoryItem, error)
	Suggestions(id int) ([]models.Supplier, error)
}

// Insight bundles everything the dashboard shows for one item.
type Insight struct {
	Prediction   Prediction        `json:"prediction"`
	UsagePattern UsagePattern      `json:"usage_pattern"`
	Strategy     PurchaseStrategy  `json:"purchase_strategy"`
	Alternatives []models.Supplier `json:"alternatives"`
}

// Compile-time interface guard.
var _ plugin.Plugin = (*Module)(nil)

// Module serves shortage predictions and buying advice.
type Module struct {
	catalog    Catalog
	forecaster Forecaster
	opts       []Option
	logger     *zap.Logger
}

// New creates the forecast module. opts are passed to NewSimulated when the
// forecaster is built during Init.
func New(cat Catalog, opts ...Option) *Module {
	return &Module{catalog: cat, opts: opts, logger: zap.NewNop()}
}

func (m *Module) Info() plugin.Info {
	return plugin.Info{
		Name:        "forecast",
		Version:     version.Short(),
		Description: "Simulated shortage predictions, usage patterns and purchase strategies",
	}
}

// Init reads the optional seed key for reproducible predictions.
func (m *Module) Init(cfg *config.Config, logger *zap.Logger) error {
	m.logger = logger
	opts := m.opts
	if cfg.IsSet("seed") {
		opts = append([]Option{WithSeed(uint64(cfg.GetInt("seed")))}, opts...)
	}
	m.forecaster = NewSimulated(opts...)
	return nil
}

func (m *Module) Start(context.Context) error { return nil }

func (m *Module) Stop() error { return nil }

// Forecaster returns the forecaster built by Init.
func (m *Module) Forecaster() Forecaster {
	return m.forecaster
}

func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/predictions", Handler: m.handlePredictions},
		{Method: "GET", Path: "/predictions/{id}", Handler: m.handlePrediction},
		{Method: "GET", Path: "/patterns/{id}", Handler: m.handlePattern},
		{Method: "GET", Path: "/strategies/{id}", Handler: m.handleStrategy},
		{Method: "GET", Path: "/alternatives/{id}", Handler: m.handleAlternatives},
		{Method: "GET", Path: "/insights/{id}", Handler: m.handleInsight},
	}
}

// Insight assembles the prediction, pattern, strategy and alternatives for
// the identified item.
func (m *Module) Insight(id int) (Insight, error) {
	item, err := m.catalog.Item(id)
	if err != nil {
		return Insight{}, err
	}
	alternatives, err := m.catalog.Suggestions(id)
	if err != nil {
		return Insight{}, err
	}
	prediction, _ := m.forecaster.Predict(&item)
	return Insight{
		Prediction:   prediction,
		UsagePattern: UsagePatternFor(item.Name),
		Strategy:     PurchaseStrategyFor(item.Category),
		Alternatives: alternatives,
	}, nil
}

// handlePredictions returns predictions for items that are not ok.
//
//	@Summary		List shortage predictions
//	@Description	Simulated predictions for every critical or warning item, most urgent first.
//	@Tags			forecast
//	@Produce		json
//	@Success		200 {array} Prediction
//	@Router			/forecast/predictions [get]
func (m *Module) handlePredictions(w http.ResponseWriter, r *http.Request) {
	items, err := m.catalog.Inventory(catalog.InventoryFilter{Sort: catalog.SortAsc})
	if err != nil {
		m.logger.Error("failed to load inventory", zap.Error(err))
		server.InternalError(w, "failed to load inventory", r.URL.Path)
		return
	}
	predictions := make([]Prediction, 0, len(items))
	for i := range items {
		if !items[i].NeedsAttention() {
			continue
		}
		if p, ok := m.forecaster.Predict(&items[i]); ok {
			predictions = append(predictions, p)
		}
	}
	writeJSON(w, http.StatusOK, predictions)
}

// handlePrediction returns the prediction for one item.
//
//	@Summary		Get shortage prediction
//	@Tags			forecast
//	@Produce		json
//	@Param			id path int true "Inventory item ID"
//	@Success		200 {object} Prediction
//	@Failure		404 {object} server.Problem
//	@Router			/forecast/predictions/{id} [get]
func (m *Module) handlePrediction(w http.ResponseWriter, r *http.Request) {
	item, ok := m.lookup(w, r)
	if !ok {
		return
	}
	p, _ := m.forecaster.Predict(&item)
	writeJSON(w, http.StatusOK, p)
}

func (m *Module) handlePattern(w http.ResponseWriter, r *http.Request) {
	item, ok := m.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, UsagePatternFor(item.Name))
}

func (m *Module) handleStrategy(w http.ResponseWriter, r *http.Request) {
	item, ok := m.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, PurchaseStrategyFor(item.Category))
}

func (m *Module) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	item, ok := m.lookup(w, r)
	if !ok {
		return
	}
	suppliers, err := m.catalog.Suggestions(item.ID)
	if err != nil {
		m.writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

func (m *Module) handleInsight(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		server.BadRequest(w, "id must be a positive integer", r.URL.Path)
		return
	}
	insight, err := m.Insight(id)
	if err != nil {
		m.writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

// lookup resolves the {id} path value, writing a problem response on failure.
func (m *Module) lookup(w http.ResponseWriter, r *http.Request) (models.InventoryItem, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		server.BadRequest(w, "id must be a positive integer", r.URL.Path)
		return models.InventoryItem{}, false
	}
	item, err := m.catalog.Item(id)
	if err != nil {
		m.writeLookupError(w, r, err)
		return models.InventoryItem{}, false
	}
	return item, true
}

func (m *Module) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrItemNotFound) {
		server.NotFound(w, err.Error(), r.URL.Path)
		return
	}
	m.logger.Error("forecast lookup failed", zap.Error(err))
	server.InternalError(w, "failed to load inventory", r.URL.Path)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
