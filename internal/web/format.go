package web

import (
	"strconv"
	"time"
)

const deliveryLayout = "2006-01-02"

// FormatDelivery renders a YYYY-MM-DD date relative to now: "Today",
// "Tomorrow", or month and day such as "Apr 3". Unparseable input is
// returned unchanged.
func FormatDelivery(date string, now time.Time) string {
	d, err := time.ParseInLocation(deliveryLayout, date, now.Location())
	if err != nil {
		return date
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	default:
		return d.Format("Jan 2")
	}
}

// formatQuantity drops a trailing ".0" so whole quantities read "10 kg".
func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
