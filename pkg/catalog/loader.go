// Package catalog holds the embedded FullStock demo data: inventory items,
// suppliers and the static datasets behind the dashboard charts.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/fullstock/pkg/models"
)

//go:embed catalog.yaml
var catalogRawData []byte

// ErrEmptyCatalog is returned when a catalog source holds no inventory.
var ErrEmptyCatalog = errors.New("catalog: no inventory items")

// catalogFile is the top-level structure of the embedded YAML.
type catalogFile struct {
	Inventory []models.InventoryItem `yaml:"inventory"`
	Suppliers []models.Supplier      `yaml:"suppliers"`
	Datasets  Datasets               `yaml:"datasets"`
}

// Catalog provides lazy-loaded, read-only access to catalog data. Every
// accessor returns a copy, so callers may reorder or modify results freely.
type Catalog struct {
	once sync.Once
	raw  []byte
	data catalogFile
	err  error
}

// NewCatalog creates a Catalog that parses the embedded YAML on first access.
func NewCatalog() *Catalog {
	return &Catalog{raw: catalogRawData}
}

// Parse creates a Catalog from YAML in the same layout as the embedded file.
// Parsing is deferred until first access.
func Parse(raw []byte) *Catalog {
	return &Catalog{raw: raw}
}

// NewStatic creates a Catalog over already-loaded data. Datasets that are
// zero-valued fall back to the embedded defaults.
func NewStatic(inventory []models.InventoryItem, suppliers []models.Supplier, ds Datasets) *Catalog {
	c := &Catalog{}
	c.once.Do(func() {
		if ds.IsZero() {
			defaults, err := NewCatalog().Datasets()
			if err != nil {
				c.err = err
				return
			}
			ds = defaults
		}
		c.data = catalogFile{
			Inventory: cloneInventory(inventory),
			Suppliers: cloneSuppliers(suppliers),
			Datasets:  ds.Clone(),
		}
	})
	return c
}

// Inventory returns a copy of all inventory items in catalog order.
func (c *Catalog) Inventory() ([]models.InventoryItem, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	return cloneInventory(c.data.Inventory), nil
}

// Suppliers returns a copy of all suppliers in catalog order.
func (c *Catalog) Suppliers() ([]models.Supplier, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	return cloneSuppliers(c.data.Suppliers), nil
}

// Datasets returns a copy of the chart datasets.
func (c *Catalog) Datasets() (Datasets, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return Datasets{}, c.err
	}
	return c.data.Datasets.Clone(), nil
}

// load parses the raw YAML catalog data.
func (c *Catalog) load() {
	var f catalogFile
	if err := yaml.Unmarshal(c.raw, &f); err != nil {
		c.err = fmt.Errorf("catalog: parse yaml: %w", err)
		return
	}
	if len(f.Inventory) == 0 {
		c.err = ErrEmptyCatalog
		return
	}
	for i := range f.Inventory {
		st, ok := models.ParseStatus(string(f.Inventory[i].Status))
		if !ok {
			c.err = fmt.Errorf("catalog: item %d (%s): unknown status %q",
				f.Inventory[i].ID, f.Inventory[i].Name, f.Inventory[i].Status)
			return
		}
		f.Inventory[i].Status = st
	}
	c.data = f
}

func cloneInventory(in []models.InventoryItem) []models.InventoryItem {
	out := make([]models.InventoryItem, len(in))
	copy(out, in)
	return out
}

func cloneSuppliers(in []models.Supplier) []models.Supplier {
	out := make([]models.Supplier, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
