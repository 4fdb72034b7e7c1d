package calculator

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spendbook/internal/models"
)

// Bucket is one bar of the chart view.
type Bucket struct {
	Period  string  `json:"period"`
	Amount  float64 `json:"amount"`
	Count   int     `json:"count"`
	SortKey string  `json:"sortKey"`
}

// GroupByPeriod sums transactions into period buckets and returns them sorted
// ascending by SortKey. Sort keys are zero-padded, so string order is
// chronological. Transactions with unparseable dates are skipped.
//
// Period labels:
//   - day: "M/D", key YYYY-MM-DD
//   - week: Sunday of the week as "M/D주", key YYYY-MM-DD of that Sunday
//   - month, monthly: "YYYY.M", key YYYY-MM
//   - year: "YYYYyear", key YYYY
func GroupByPeriod(txs []models.Transaction, tf models.TimeFilter) []Bucket {
	type acc struct {
		label string
		sum   decimal.Decimal
		count int
	}
	groups := make(map[string]*acc)

	for _, tx := range txs {
		date, err := models.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		label, key := periodOf(date, tf)
		g, ok := groups[key]
		if !ok {
			g = &acc{label: label}
			groups[key] = g
		}
		g.sum = g.sum.Add(decimal.NewFromFloat(tx.Amount))
		g.count++
	}

	buckets := make([]Bucket, 0, len(groups))
	for key, g := range groups {
		buckets = append(buckets, Bucket{
			Period:  g.label,
			Amount:  g.sum.InexactFloat64(),
			Count:   g.count,
			SortKey: key,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].SortKey < buckets[j].SortKey
	})
	return buckets
}

func periodOf(date time.Time, tf models.TimeFilter) (label, key string) {
	switch tf {
	case models.FilterDay:
		return fmt.Sprintf("%d/%d", int(date.Month()), date.Day()), date.Format(models.DateLayout)
	case models.FilterWeek:
		start := date.AddDate(0, 0, -int(date.Weekday()))
		return fmt.Sprintf("%d/%d주", int(start.Month()), start.Day()), start.Format(models.DateLayout)
	case models.FilterYear:
		return fmt.Sprintf("%dyear", date.Year()), fmt.Sprintf("%04d", date.Year())
	default:
		return fmt.Sprintf("%d.%d", date.Year(), int(date.Month())), date.Format("2006-01")
	}
}
