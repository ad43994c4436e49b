// Package catalog serves the inventory and supplier views of the dashboard:
// urgency filtering and sorting, sponsored supplier placement and supplier
// suggestions for a given item.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	pkgcatalog "github.com/HerbHall/fullstock/pkg/catalog"
	"github.com/HerbHall/fullstock/pkg/models"
)

// ErrItemNotFound is returned when an inventory id is unknown.
var ErrItemNotFound = errors.New("inventory item not found")

// Source provides the catalog data. *pkgcatalog.Catalog satisfies it.
type Source interface {
	Inventory() ([]models.InventoryItem, error)
	Suppliers() ([]models.Supplier, error)
	Datasets() (pkgcatalog.Datasets, error)
}

// SortOrder selects urgency ordering for inventory listings.
type SortOrder string

const (
	SortNone SortOrder = ""
	// SortAsc puts the most urgent items first (critical, warning, ok).
	SortAsc SortOrder = "asc"
	// SortDesc puts the least urgent items first.
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts "asc" and "desc"; anything else means no sorting.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortAsc, SortDesc:
		return SortOrder(s)
	}
	return SortNone
}

// Toggle flips between ascending and descending. SortNone toggles to
// ascending, matching the first click on the status column.
func (o SortOrder) Toggle() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// InventoryFilter narrows and orders an inventory listing.
type InventoryFilter struct {
	Status models.Status
	Sort   SortOrder
}

// Summary counts inventory items per status.
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	OK       int `json:"ok"`
}

// Engine answers inventory and supplier queries over a Source.
type Engine struct {
	src Source
}

// NewEngine creates an engine backed by src.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Inventory returns the items matching filter, in catalog order unless a
// sort is requested.
func (e *Engine) Inventory(filter InventoryFilter) ([]models.InventoryItem, error) {
	items, err := e.src.Inventory()
	if err != nil {
		return nil, err
	}
	if filter.Status != "" {
		items = FilterByStatus(items, filter.Status)
	}
	if filter.Sort != SortNone {
		SortByUrgency(items, filter.Sort)
	}
	return items, nil
}

// Item returns the inventory item with the given id.
func (e *Engine) Item(id int) (models.InventoryItem, error) {
	items, err := e.src.Inventory()
	if err != nil {
		return models.InventoryItem{}, err
	}
	for i := range items {
		if items[i].ID == id {
			return items[i], nil
		}
	}
	return models.InventoryItem{}, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
}

// Suppliers returns all suppliers with sponsored ones distributed.
func (e *Engine) Suppliers() ([]models.Supplier, error) {
	suppliers, err := e.src.Suppliers()
	if err != nil {
		return nil, err
	}
	return Distribute(suppliers), nil
}

// Suggestions returns the suppliers matching the identified item.
func (e *Engine) Suggestions(id int) ([]models.Supplier, error) {
	item, err := e.Item(id)
	if err != nil {
		return nil, err
	}
	suppliers, err := e.src.Suppliers()
	if err != nil {
		return nil, err
	}
	return Match(&item, suppliers), nil
}

// Summary counts items per status.
func (e *Engine) Summary() (Summary, error) {
	items, err := e.src.Inventory()
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	for i := range items {
		s.Total++
		switch st, _ := models.ParseStatus(string(items[i].Status)); st {
		case models.StatusCritical:
			s.Critical++
		case models.StatusWarning:
			s.Warning++
		case models.StatusOK:
			s.OK++
		}
	}
	return s, nil
}

// Datasets returns the chart datasets of the underlying source.
func (e *Engine) Datasets() (pkgcatalog.Datasets, error) {
	return e.src.Datasets()
}

// FilterByStatus returns the items whose status equals status,
// compared case-insensitively.
func FilterByStatus(items []models.InventoryItem, status models.Status) []models.InventoryItem {
	want, _ := models.ParseStatus(string(status))
	result := make([]models.InventoryItem, 0, len(items))
	for i := range items {
		if got, _ := models.ParseStatus(string(items[i].Status)); got == want {
			result = append(result, items[i])
		}
	}
	return result
}

// SortByUrgency sorts items in place by status priority. Items of equal
// priority keep their relative order.
func SortByUrgency(items []models.InventoryItem, order SortOrder) {
	sort.SliceStable(items, func(a, b int) bool {
		pa, pb := items[a].Status.Priority(), items[b].Status.Priority()
		if order == SortDesc {
			return pa > pb
		}
		return pa < pb
	})
}
