package charts

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/internal/config"
	"github.com/HerbHall/fullstock/internal/plugin"
	"github.com/HerbHall/fullstock/internal/server"
	"github.com/HerbHall/fullstock/internal/version"
	pkgcatalog "github.com/HerbHall/fullstock/pkg/catalog"
)

// DatasetSource supplies chart datasets. *catalog.Engine satisfies it.
type DatasetSource interface {
	Datasets() (pkgcatalog.Datasets, error)
}

// Compile-time interface guard.
var _ plugin.Plugin = (*Module)(nil)

// Module serves Chart.js configurations.
type Module struct {
	src    DatasetSource
	logger *zap.Logger
}

// New creates the charts module.
func New(src DatasetSource) *Module {
	return &Module{src: src, logger: zap.NewNop()}
}

func (m *Module) Info() plugin.Info {
	return plugin.Info{
		Name:        "charts",
		Version:     version.Short(),
		Description: "Chart.js configurations for the dashboard charts",
	}
}

func (m *Module) Init(_ *config.Config, logger *zap.Logger) error {
	m.logger = logger
	return nil
}

func (m *Module) Start(context.Context) error { return nil }

func (m *Module) Stop() error { return nil }

func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "", Handler: m.handleList},
		{Method: "GET", Path: "/{id}", Handler: m.handleGet},
	}
}

// handleList returns every chart configuration.
//
//	@Summary		List charts
//	@Tags			charts
//	@Produce		json
//	@Success		200 {array} Chart
//	@Router			/charts [get]
func (m *Module) handleList(w http.ResponseWriter, r *http.Request) {
	ds, err := m.src.Datasets()
	if err != nil {
		m.logger.Error("failed to load datasets", zap.Error(err))
		server.InternalError(w, "failed to load chart datasets", r.URL.Path)
		return
	}
	writeJSON(w, All(ds))
}

// handleGet returns one chart configuration by canvas id.
//
//	@Summary		Get chart
//	@Tags			charts
//	@Produce		json
//	@Param			id path string true "Canvas id, e.g. trendChart"
//	@Success		200 {object} Chart
//	@Failure		404 {object} server.Problem
//	@Router			/charts/{id} [get]
func (m *Module) handleGet(w http.ResponseWriter, r *http.Request) {
	ds, err := m.src.Datasets()
	if err != nil {
		m.logger.Error("failed to load datasets", zap.Error(err))
		server.InternalError(w, "failed to load chart datasets", r.URL.Path)
		return
	}
	id := r.PathValue("id")
	c, ok := ByID(ds, id)
	if !ok {
		server.NotFound(w, "unknown chart "+id, r.URL.Path)
		return
	}
	writeJSON(w, c)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}
