package models

import "strings"

// Status is the stock health classification stored on each inventory item.
type Status string

const (
	StatusCritical Status = "critical"
	StatusWarning  Status = "warning"
	StatusOK       Status = "ok"
)

// Category groups inventory items and suppliers.
type Category string

const (
	CategoryMeat      Category = "Meat"
	CategoryProduce   Category = "Produce"
	CategoryDairy     Category = "Dairy"
	CategorySeafood   Category = "Seafood"
	CategoryPantry    Category = "Pantry"
	CategoryBeverages Category = "Beverages"
	CategoryHerbs     Category = "Herbs"
	CategoryBaking    Category = "Baking"
)

// Categories lists every known category in dashboard order.
var Categories = []Category{
	CategoryMeat,
	CategoryProduce,
	CategoryDairy,
	CategorySeafood,
	CategoryPantry,
	CategoryBeverages,
	CategoryHerbs,
	CategoryBaking,
}

// StatusLabels maps a Status to its display text.
var StatusLabels = map[Status]string{
	StatusCritical: "Critical",
	StatusWarning:  "Warning",
	StatusOK:       "OK",
}

// StatusPriorities ranks statuses by urgency. Lower is more urgent.
var StatusPriorities = map[Status]int{
	StatusCritical: 1,
	StatusWarning:  2,
	StatusOK:       3,
}

// UnknownPriority is the rank given to unrecognised statuses.
const UnknownPriority = 4

// StatusBadgeClasses maps a Status to the CSS class of its badge.
var StatusBadgeClasses = map[Status]string{
	StatusCritical: "status-critical",
	StatusWarning:  "status-warning",
	StatusOK:       "status-ok",
}

// StatusRowClasses maps a Status to the CSS class of its table row.
// Healthy rows carry no class.
var StatusRowClasses = map[Status]string{
	StatusCritical: "table-danger",
	StatusWarning:  "table-warning",
}

// ParseStatus normalises s case-insensitively. The second return value
// reports whether s named a known status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	_, ok := StatusPriorities[st]
	return st, ok
}

// Label returns the display text for the status.
// Unrecognised statuses are returned verbatim.
func (s Status) Label() string {
	if st, ok := ParseStatus(string(s)); ok {
		return StatusLabels[st]
	}
	return string(s)
}

// Priority returns the urgency rank of the status: 1 for critical, 2 for
// warning, 3 for ok and UnknownPriority for anything else.
func (s Status) Priority() int {
	if st, ok := ParseStatus(string(s)); ok {
		return StatusPriorities[st]
	}
	return UnknownPriority
}

// BadgeClass returns the badge CSS class, or "" for unrecognised statuses.
func (s Status) BadgeClass() string {
	st, _ := ParseStatus(string(s))
	return StatusBadgeClasses[st]
}

// RowClass returns the table row CSS class, or "" when no highlight applies.
func (s Status) RowClass() string {
	st, _ := ParseStatus(string(s))
	return StatusRowClasses[st]
}

// StatusLabel is Status(s).Label for raw strings.
func StatusLabel(s string) string { return Status(s).Label() }

// StatusPriority is Status(s).Priority for raw strings.
func StatusPriority(s string) int { return Status(s).Priority() }

// InventoryItem is a single stocked ingredient. Items are loaded once and
// never mutated; the status is stored, not derived from stock levels.
type InventoryItem struct {
	ID              int      `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Category        Category `json:"category" yaml:"category"`
	CurrentStock    float64  `json:"current_stock" yaml:"current_stock"`
	MinRequired     float64  `json:"min_required" yaml:"min_required"`
	Unit            string   `json:"unit" yaml:"unit"`
	Status          Status   `json:"status" yaml:"status"`
	NextDelivery    string   `json:"next_delivery" yaml:"next_delivery"`
	SuggestedAction string   `json:"suggested_action" yaml:"suggested_action"`
}

// NeedsAttention reports whether the item is anything other than ok.
func (i *InventoryItem) NeedsAttention() bool {
	return i.Status.Priority() != StatusPriorities[StatusOK]
}

// Deficit returns how far current stock sits below the minimum, or zero.
func (i *InventoryItem) Deficit() float64 {
	if d := i.MinRequired - i.CurrentStock; d > 0 {
		return d
	}
	return 0
}
