package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/internal/plugin"
	"github.com/HerbHall/fullstock/internal/server"
	"github.com/HerbHall/fullstock/pkg/models"
)

// InventoryResponse is the response for GET /api/v1/catalog/inventory.
type InventoryResponse struct {
	Status string                 `json:"status,omitempty"`
	Sort   string                 `json:"sort,omitempty"`
	Count  int                    `json:"count"`
	Items  []models.InventoryItem `json:"items"`
}

// SuggestionsResponse is the response for GET /api/v1/catalog/inventory/{id}/suggestions.
type SuggestionsResponse struct {
	Item      models.InventoryItem `json:"item"`
	Suppliers []models.Supplier    `json:"suppliers"`
}

// Handler serves the catalog API.
type Handler struct {
	engine *Engine
	logger *zap.Logger
}

// NewHandler creates a new catalog API handler.
func NewHandler(engine *Engine, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// Routes returns the catalog routes relative to /api/v1/catalog.
func (h *Handler) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/inventory", Handler: h.handleInventory},
		{Method: "GET", Path: "/inventory/{id}", Handler: h.handleItem},
		{Method: "GET", Path: "/inventory/{id}/suggestions", Handler: h.handleSuggestions},
		{Method: "GET", Path: "/suppliers", Handler: h.handleSuppliers},
		{Method: "GET", Path: "/summary", Handler: h.handleSummary},
		{Method: "GET", Path: "/datasets", Handler: h.handleDatasets},
	}
}

// handleInventory lists inventory items.
//
//	@Summary		List inventory
//	@Description	Returns inventory items, optionally filtered by status and sorted by urgency.
//	@Tags			catalog
//	@Produce		json
//	@Param			status query string false "Filter by status (critical, warning, ok)"
//	@Param			sort query string false "Urgency sort direction (asc, desc)"
//	@Success		200 {object} InventoryResponse
//	@Failure		400 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/catalog/inventory [get]
func (h *Handler) handleInventory(w http.ResponseWriter, r *http.Request) {
	var filter InventoryFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := models.ParseStatus(raw)
		if !ok {
			server.BadRequest(w, "status must be one of critical, warning, ok", r.URL.Path)
			return
		}
		filter.Status = st
	}
	if raw := r.URL.Query().Get("sort"); raw != "" {
		filter.Sort = ParseSortOrder(raw)
		if filter.Sort == SortNone {
			server.BadRequest(w, "sort must be asc or desc", r.URL.Path)
			return
		}
	}

	items, err := h.engine.Inventory(filter)
	if err != nil {
		h.logger.Error("failed to load inventory", zap.Error(err))
		server.InternalError(w, "failed to load inventory", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, InventoryResponse{
		Status: string(filter.Status),
		Sort:   string(filter.Sort),
		Count:  len(items),
		Items:  items,
	})
}

// handleItem returns one inventory item.
//
//	@Summary		Get inventory item
//	@Tags			catalog
//	@Produce		json
//	@Param			id path int true "Inventory item ID"
//	@Success		200 {object} models.InventoryItem
//	@Failure		404 {object} server.Problem
//	@Router			/catalog/inventory/{id} [get]
func (h *Handler) handleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.engine.Item(id)
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleSuggestions returns the suppliers matching an inventory item.
//
//	@Summary		Supplier suggestions
//	@Description	Returns suppliers sharing the item's category or carrying it by name, best match first.
//	@Tags			catalog
//	@Produce		json
//	@Param			id path int true "Inventory item ID"
//	@Success		200 {object} SuggestionsResponse
//	@Failure		404 {object} server.Problem
//	@Router			/catalog/inventory/{id}/suggestions [get]
func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.engine.Item(id)
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	suppliers, err := h.engine.Suggestions(id)
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestionsResponse{Item: item, Suppliers: suppliers})
}

// handleSuppliers returns the supplier list as displayed on the dashboard.
//
//	@Summary		List suppliers
//	@Description	Returns suppliers with sponsored entries spread through the list.
//	@Tags			catalog
//	@Produce		json
//	@Success		200 {array} models.Supplier
//	@Failure		500 {object} server.Problem
//	@Router			/catalog/suppliers [get]
func (h *Handler) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.engine.Suppliers()
	if err != nil {
		h.logger.Error("failed to load suppliers", zap.Error(err))
		server.InternalError(w, "failed to load suppliers", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.Summary()
	if err != nil {
		h.logger.Error("failed to summarize inventory", zap.Error(err))
		server.InternalError(w, "failed to load inventory", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) handleDatasets(w http.ResponseWriter, r *http.Request) {
	ds, err := h.engine.Datasets()
	if err != nil {
		h.logger.Error("failed to load datasets", zap.Error(err))
		server.InternalError(w, "failed to load datasets", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrItemNotFound) {
		server.NotFound(w, err.Error(), r.URL.Path)
		return
	}
	h.logger.Error("catalog lookup failed", zap.Error(err))
	server.InternalError(w, "failed to load inventory", r.URL.Path)
}

// -- helpers --

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		server.BadRequest(w, "id must be a positive integer", r.URL.Path)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
