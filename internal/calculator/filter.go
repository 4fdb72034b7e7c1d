// Package calculator implements the pure aggregation logic behind the list,
// chart and calendar views: time and item filtering, period grouping and
// budget totals. Every function takes "now" explicitly and never touches
// storage.
package calculator

import (
	"math"
	"time"

	"github.com/mmynk/spendbook/internal/models"
)

// AllItems is the item filter value that disables item filtering.
const AllItems = "all"

// Rolling window sizes, in units of the filter.
const (
	dayWindow   = 7
	weekWindow  = 4
	monthWindow = 6
	yearWindow  = 3
)

// Filter selects transactions by time window.
// Year and Month are only used by the monthly filter; Month is 1-12 and
// zero means no month was selected.
type Filter struct {
	TimeFilter models.TimeFilter
	Year       int
	Month      int
}

// FilterByTime returns the transactions whose date falls in the window
// described by f, evaluated against now. Transactions with unparseable
// dates are dropped. An unknown time filter keeps everything.
func FilterByTime(txs []models.Transaction, f Filter, now time.Time) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		date, err := models.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		if inWindow(date, f, now) {
			out = append(out, tx)
		}
	}
	return out
}

func inWindow(date time.Time, f Filter, now time.Time) bool {
	switch f.TimeFilter {
	case models.FilterDay:
		return math.Floor(daysBetween(date, now)) < dayWindow
	case models.FilterWeek:
		return math.Floor(daysBetween(date, now)/7) < weekWindow
	case models.FilterMonth:
		months := (now.Year()-date.Year())*12 + int(now.Month()) - int(date.Month())
		return months < monthWindow
	case models.FilterYear:
		return now.Year()-date.Year() < yearWindow
	case models.FilterMonthly:
		if f.Year == 0 || f.Month == 0 {
			return false
		}
		return date.Year() == f.Year && int(date.Month()) == f.Month
	}
	return true
}

// daysBetween returns the fractional number of days from date's midnight,
// taken in now's location, to now.
func daysBetween(date, now time.Time) float64 {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return now.Sub(midnight).Hours() / 24
}

// FilterByItem keeps the transactions that belong to the catalog item named
// selected. A transaction with an ItemID matches on the id of that catalog
// entry; a legacy transaction without one matches on its description.
// AllItems or an empty selection keeps everything.
func FilterByItem(txs []models.Transaction, items []models.Item, selected string) []models.Transaction {
	if selected == "" || selected == AllItems {
		return txs
	}

	item, found := models.FindItemByName(items, selected)
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ItemID != "" {
			if found && tx.ItemID == item.ID {
				out = append(out, tx)
			}
			continue
		}
		if tx.Description == selected {
			out = append(out, tx)
		}
	}
	return out
}

// Apply runs the time filter followed by the item filter.
func Apply(txs []models.Transaction, items []models.Item, f Filter, selected string, now time.Time) []models.Transaction {
	return FilterByItem(FilterByTime(txs, f, now), items, selected)
}
