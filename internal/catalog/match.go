package catalog

import "github.com/HerbHall/fullstock/pkg/models"

// Match returns the suppliers relevant to item, best MatchScore first.
// A supplier is relevant when it shares the item's category or lists the
// item by exact name. A nil item or no relevant supplier yields an empty,
// non-nil slice.
func Match(item *models.InventoryItem, suppliers []models.Supplier) []models.Supplier {
	result := make([]models.Supplier, 0)
	if item == nil {
		return result
	}
	for i := range suppliers {
		if suppliers[i].Serves(item) {
			result = append(result, suppliers[i].Clone())
		}
	}
	sortByScore(result)
	return result
}
