package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spendbook/internal/models"
)

// BudgetStatus is the state of the monthly budget bar.
type BudgetStatus struct {
	Budget    float64 `json:"budget"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

// Budget sums every transaction dated in now's calendar month and subtracts it
// from budget. It ignores the active time and item filters so the budget bar
// stays the same across views.
func Budget(txs []models.Transaction, budget float64, now time.Time) BudgetStatus {
	spent := decimal.Zero
	for _, tx := range txs {
		date, err := models.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		if date.Year() == now.Year() && date.Month() == now.Month() {
			spent = spent.Add(decimal.NewFromFloat(tx.Amount))
		}
	}
	return BudgetStatus{
		Budget:    budget,
		Spent:     spent.InexactFloat64(),
		Remaining: decimal.NewFromFloat(budget).Sub(spent).InexactFloat64(),
	}
}

// Totals summarizes a filtered set of transactions.
type Totals struct {
	Amount  float64 `json:"amount"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// Summarize returns the total, count and mean amount of txs.
// An empty set yields zero totals.
func Summarize(txs []models.Transaction) Totals {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(decimal.NewFromFloat(tx.Amount))
	}
	t := Totals{Amount: sum.InexactFloat64(), Count: len(txs)}
	if len(txs) > 0 {
		t.Average = sum.Div(decimal.NewFromInt(int64(len(txs)))).Round(2).InexactFloat64()
	}
	return t
}

// SignedAmount returns sign(type) * unitPrice * quantity.
func SignedAmount(t models.TransactionType, unitPrice float64, quantity int) float64 {
	return decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(decimal.NewFromInt(t.Sign())).
		InexactFloat64()
}

// DaySummary is one cell of the calendar view.
type DaySummary struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// CalendarDays returns per-day totals for the given month (1-12), sorted by
// date. Days without transactions are omitted.
func CalendarDays(txs []models.Transaction, year, month int) []DaySummary {
	byDay := make(map[string]*DaySummary)
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		date, err := models.ParseDate(tx.Date)
		if err != nil || date.Year() != year || int(date.Month()) != month {
			continue
		}
		key := date.Format(models.DateLayout)
		d, ok := byDay[key]
		if !ok {
			d = &DaySummary{Date: key}
			byDay[key] = d
		}
		sums[key] = sums[key].Add(decimal.NewFromFloat(tx.Amount))
		d.Count++
	}

	days := make([]DaySummary, 0, len(byDay))
	for key, d := range byDay {
		d.Amount = sums[key].InexactFloat64()
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
