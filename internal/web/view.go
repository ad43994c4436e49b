package web

import (
	"net/url"
	"strconv"

	"github.com/HerbHall/fullstock/internal/catalog"
	"github.com/HerbHall/fullstock/pkg/models"
)

// ViewState is the dashboard state carried in the query string.
type ViewState struct {
	// Status filters the inventory table; rows with another status are
	// hidden. Only critical and warning are accepted.
	Status models.Status
	// Sort orders the inventory table by urgency.
	Sort catalog.SortOrder
	// ItemID selects an item whose matching suppliers are highlighted.
	ItemID int
}

// ParseViewState reads status, sort/dir and item from q. Unknown values
// are ignored.
func ParseViewState(q url.Values) ViewState {
	var v ViewState
	if st, ok := models.ParseStatus(q.Get("status")); ok && st != models.StatusOK {
		v.Status = st
	}
	if q.Get("sort") == "status" {
		v.Sort = catalog.ParseSortOrder(q.Get("dir"))
		if v.Sort == catalog.SortNone {
			v.Sort = catalog.SortAsc
		}
	}
	if id, err := strconv.Atoi(q.Get("item")); err == nil && id > 0 {
		v.ItemID = id
	}
	return v
}

// Query encodes v. The zero state encodes to an empty query.
func (v ViewState) Query() url.Values {
	q := url.Values{}
	if v.Status != "" {
		q.Set("status", string(v.Status))
	}
	if v.Sort != catalog.SortNone {
		q.Set("sort", "status")
		q.Set("dir", string(v.Sort))
	}
	if v.ItemID > 0 {
		q.Set("item", strconv.Itoa(v.ItemID))
	}
	return q
}

// URL returns the relative dashboard link for v, ending in fragment when
// one is given.
func (v ViewState) URL(fragment string) string {
	u := "?" + v.Query().Encode()
	if u == "?" {
		u = "./"
	}
	if fragment != "" {
		u += "#" + fragment
	}
	return u
}

// WithStatus returns v filtered to status.
func (v ViewState) WithStatus(status models.Status) ViewState {
	v.Status = status
	return v
}

// WithSort returns v sorted in order.
func (v ViewState) WithSort(order catalog.SortOrder) ViewState {
	v.Sort = order
	return v
}

// WithItem returns v with id selected.
func (v ViewState) WithItem(id int) ViewState {
	v.ItemID = id
	return v
}

// Filtered reports whether a status filter is active.
func (v ViewState) Filtered() bool {
	return v.Status != ""
}
