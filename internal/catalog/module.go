package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/internal/config"
	"github.com/HerbHall/fullstock/internal/plugin"
	"github.com/HerbHall/fullstock/internal/version"
)

// Compile-time interface guard.
var _ plugin.Plugin = (*Module)(nil)

// Module exposes the catalog engine as a dashboard module.
type Module struct {
	engine  *Engine
	handler *Handler
	logger  *zap.Logger
}

// New creates the catalog module over src.
func New(src Source) *Module {
	return &Module{engine: NewEngine(src), logger: zap.NewNop()}
}

func (m *Module) Info() plugin.Info {
	return plugin.Info{
		Name:        "catalog",
		Version:     version.Short(),
		Description: "Inventory status, supplier listing and supplier suggestions",
	}
}

func (m *Module) Init(_ *config.Config, logger *zap.Logger) error {
	m.logger = logger
	m.handler = NewHandler(m.engine, logger)

	// Surface catalog load errors at startup.
	s, err := m.engine.Summary()
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		zap.Int("items", s.Total),
		zap.Int("critical", s.Critical),
		zap.Int("warning", s.Warning),
	)
	return nil
}

func (m *Module) Start(context.Context) error { return nil }

func (m *Module) Stop() error { return nil }

func (m *Module) Routes() []plugin.Route {
	if m.handler == nil {
		return nil
	}
	return m.handler.Routes()
}

// Engine returns the module's engine for in-process consumers such as the
// dashboard renderer.
func (m *Module) Engine() *Engine {
	return m.engine
}
