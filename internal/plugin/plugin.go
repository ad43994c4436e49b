// Package plugin defines the module contract shared by the FullStock
// dashboard features and the registry that drives their lifecycle.
package plugin

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/internal/config"
)

// Route represents an HTTP route exposed by a module. Path is relative to
// the module's mount point, /api/v1/{name}.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Info describes a module for the /api/v1/modules listing.
type Info struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Plugin is implemented by every dashboard module (catalog, forecast,
// charts, leads).
type Plugin interface {
	// Info returns the module's identity. Name must be unique.
	Info() Info

	// Init receives the module's config subtree (modules.<name>).
	Init(cfg *config.Config, logger *zap.Logger) error

	// Start begins any background work.
	Start(ctx context.Context) error

	// Stop releases resources.
	Stop() error

	// Routes returns the HTTP routes this module exposes.
	Routes() []Route
}
