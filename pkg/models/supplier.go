package models

import (
	"slices"
	"strings"
)

// Availability describes how much stock a supplier can currently deliver.
type Availability string

const (
	AvailabilityLow    Availability = "Low"
	AvailabilityMedium Availability = "Medium"
	AvailabilityHigh   Availability = "High"
)

// PriceIndex is an ordinal price tier rendered as one to three euro signs.
type PriceIndex string

const (
	PriceBudget   PriceIndex = "€"
	PriceStandard PriceIndex = "€€"
	PricePremium  PriceIndex = "€€€"
)

// Tier returns the number of currency symbols in the index (1..3), or 0
// when the index is empty.
func (p PriceIndex) Tier() int {
	return strings.Count(string(p), "€")
}

// Supplier is a vendor shown in the suggestions section.
type Supplier struct {
	ID                int          `json:"id" yaml:"id"`
	Name              string       `json:"name" yaml:"name"`
	Category          Category     `json:"category" yaml:"category"`
	Items             []string     `json:"items" yaml:"items"`
	StockAvailability Availability `json:"stock_availability" yaml:"stock_availability"`
	DeliveryTime      string       `json:"delivery_time" yaml:"delivery_time"`
	PriceIndex        PriceIndex   `json:"price_index" yaml:"price_index"`
	MatchScore        int          `json:"match_score" yaml:"match_score"`
	IsSponsored       bool         `json:"is_sponsored" yaml:"is_sponsored"`
	Description       string       `json:"description" yaml:"description"`
	LogoURL           string       `json:"logo_url,omitempty" yaml:"logo_url"`
}

// Carries reports whether the supplier lists itemName among its items.
// Names are compared exactly.
func (s *Supplier) Carries(itemName string) bool {
	return slices.Contains(s.Items, itemName)
}

// Serves reports whether the supplier is relevant to item: same category,
// or the item's name appears in the supplier's item list.
func (s *Supplier) Serves(item *InventoryItem) bool {
	if item == nil {
		return false
	}
	return s.Category == item.Category || s.Carries(item.Name)
}

// Clone returns a copy of s that shares no slices with it.
func (s Supplier) Clone() Supplier {
	s.Items = slices.Clone(s.Items)
	return s
}
