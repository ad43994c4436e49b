package testutil

import (
	"github.com/HerbHall/fullstock/pkg/models"
)

// NewInventoryItem returns a warning-level produce item, suitable for test
// fixtures. Override individual fields with options.
func NewInventoryItem(opts ...func(*models.InventoryItem)) models.InventoryItem {
	item := models.InventoryItem{
		ID:              1,
		Name:            "Fresh Tomatoes",
		Category:        models.CategoryProduce,
		CurrentStock:    8.2,
		MinRequired:     15,
		Unit:            "kg",
		Status:          models.StatusWarning,
		NextDelivery:    "2025-04-02",
		SuggestedAction: "Order additional 10kg",
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

// WithItemID sets the item id.
func WithItemID(id int) func(*models.InventoryItem) {
	return func(i *models.InventoryItem) { i.ID = id }
}

// WithItemName sets the item name.
func WithItemName(name string) func(*models.InventoryItem) {
	return func(i *models.InventoryItem) { i.Name = name }
}

// WithCategory sets the item category.
func WithCategory(c models.Category) func(*models.InventoryItem) {
	return func(i *models.InventoryItem) { i.Category = c }
}

// WithStatus sets the item status.
func WithStatus(s models.Status) func(*models.InventoryItem) {
	return func(i *models.InventoryItem) { i.Status = s }
}

// WithStock sets current and minimum stock.
func WithStock(current, minRequired float64) func(*models.InventoryItem) {
	return func(i *models.InventoryItem) {
		i.CurrentStock = current
		i.MinRequired = minRequired
	}
}

// WithNextDelivery sets the next delivery date (YYYY-MM-DD).
func WithNextDelivery(date string) func(*models.InventoryItem) {
	return func(i *models.InventoryItem) { i.NextDelivery = date }
}

// NewSupplier returns an organic produce supplier with sensible defaults.
func NewSupplier(opts ...func(*models.Supplier)) models.Supplier {
	s := models.Supplier{
		ID:                1,
		Name:              "Test Supplier",
		Category:          models.CategoryProduce,
		Items:             []string{"Fresh Tomatoes"},
		StockAvailability: models.AvailabilityHigh,
		DeliveryTime:      "Next day",
		PriceIndex:        models.PriceStandard,
		MatchScore:        80,
		Description:       "Test supplier",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithSupplierID sets the supplier id.
func WithSupplierID(id int) func(*models.Supplier) {
	return func(s *models.Supplier) { s.ID = id }
}

// WithScore sets the match score.
func WithScore(score int) func(*models.Supplier) {
	return func(s *models.Supplier) { s.MatchScore = score }
}

// Sponsored marks the supplier as sponsored.
func Sponsored() func(*models.Supplier) {
	return func(s *models.Supplier) { s.IsSponsored = true }
}

// WithSupplierCategory sets the supplier category.
func WithSupplierCategory(c models.Category) func(*models.Supplier) {
	return func(s *models.Supplier) { s.Category = c }
}

// WithItems sets the names the supplier carries.
func WithItems(names ...string) func(*models.Supplier) {
	return func(s *models.Supplier) { s.Items = names }
}

// NewLead returns a valid lead.
func NewLead() models.Lead {
	return models.Lead{
		Name:     "Ada Lovelace",
		Company:  "Analytical Bistro",
		Position: "Head Chef",
		Email:    "ada@example.com",
	}
}
