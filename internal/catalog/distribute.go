package catalog

import (
	"slices"
	"sort"

	"github.com/HerbHall/fullstock/pkg/models"
)

// Distribute spreads sponsored suppliers through the organic list.
//
// Organic (non-sponsored) suppliers are stable-sorted by MatchScore
// descending. With s sponsored suppliers and n organic ones, spacing is
// n/(s+1); the i-th sponsored supplier is inserted at
// min((i+1)*spacing, len(result)), evaluated against the result as it
// grows. A spacing of zero stacks every sponsored supplier at the front.
//
// Without sponsored suppliers the input order is kept. The input is never
// modified and the result shares no slices with it.
func Distribute(suppliers []models.Supplier) []models.Supplier {
	if len(suppliers) == 0 {
		return []models.Supplier{}
	}

	var sponsored, organic []models.Supplier
	for i := range suppliers {
		s := suppliers[i].Clone()
		if s.IsSponsored {
			sponsored = append(sponsored, s)
		} else {
			organic = append(organic, s)
		}
	}

	if len(sponsored) == 0 {
		return organic
	}

	sortByScore(organic)

	spacing := len(organic) / (len(sponsored) + 1)
	result := make([]models.Supplier, 0, len(suppliers))
	result = append(result, organic...)
	for i, s := range sponsored {
		pos := min((i+1)*spacing, len(result))
		result = slices.Insert(result, pos, s)
	}
	return result
}

// sortByScore orders suppliers by MatchScore descending, keeping the
// relative order of equal scores.
func sortByScore(suppliers []models.Supplier) {
	sort.SliceStable(suppliers, func(a, b int) bool {
		return suppliers[a].MatchScore > suppliers[b].MatchScore
	})
}
