package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/spendbook/internal/calculator"
	"github.com/mmynk/spendbook/internal/charts"
	"github.com/mmynk/spendbook/internal/models"
)

// ReportQuery selects which transactions a view shows.
// An empty TimeFilter means "use the user's stored filter" for summaries and
// "no time filter" for Filtered. Item is a catalog item name or "all".
type ReportQuery struct {
	TimeFilter models.TimeFilter
	Item       string
	Year       int
	Month      int
}

func (q ReportQuery) validate() error {
	if q.TimeFilter != "" && !q.TimeFilter.Valid() {
		return ValidationError("timeFilter must be one of day, week, month, monthly, year")
	}
	if q.Month < 0 || q.Month > 12 {
		return ValidationError("month must be between 1 and 12")
	}
	return nil
}

// Summary is the data behind the chart view and the budget bar.
type Summary struct {
	TimeFilter models.TimeFilter       `json:"timeFilter"`
	Chart      []calculator.Bucket     `json:"chart"`
	Totals     calculator.Totals       `json:"totals"`
	Budget     calculator.BudgetStatus `json:"budget"`
}

// ReportService runs the aggregator over a user's stored data.
type ReportService struct {
	transactions *TransactionService
	items        *ItemService
	settings     *SettingsService
	now          func() time.Time
}

// NewReportService creates a ReportService over the given data services.
func NewReportService(transactions *TransactionService, items *ItemService, settings *SettingsService) *ReportService {
	return &ReportService{
		transactions: transactions,
		items:        items,
		settings:     settings,
		now:          time.Now,
	}
}

// Filtered returns the user's transactions after the time and item filters,
// keeping ledger order.
func (s *ReportService) Filtered(ctx context.Context, email string, q ReportQuery) ([]models.Transaction, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	txs, err := s.transactions.List(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, email, txs, q)
}

func (s *ReportService) apply(ctx context.Context, email string, txs []models.Transaction, q ReportQuery) ([]models.Transaction, error) {
	if q.TimeFilter != "" {
		txs = calculator.FilterByTime(txs, calculator.Filter{TimeFilter: q.TimeFilter, Year: q.Year, Month: q.Month}, s.now())
	}
	if q.Item == "" || q.Item == calculator.AllItems {
		return txs, nil
	}
	items, err := s.items.List(ctx, email)
	if err != nil {
		return nil, err
	}
	return calculator.FilterByItem(txs, items, q.Item), nil
}

// Summary groups the filtered transactions into chart buckets and computes
// totals. The budget status always covers every transaction of the current
// month.
func (s *ReportService) Summary(ctx context.Context, email string, q ReportQuery) (*Summary, error) {
	slog.Debug("Summary request received", "user", email, "time_filter", q.TimeFilter, "item", q.Item)

	if err := q.validate(); err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if q.TimeFilter == "" {
		q.TimeFilter = settings.TimeFilter
	}

	all, err := s.transactions.List(ctx, email)
	if err != nil {
		return nil, err
	}
	filtered, err := s.apply(ctx, email, all, q)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TimeFilter: q.TimeFilter,
		Chart:      calculator.GroupByPeriod(filtered, q.TimeFilter),
		Totals:     calculator.Summarize(filtered),
		Budget:     calculator.Budget(all, settings.Budget, s.now()),
	}, nil
}

// Calendar returns per-day totals for a month. Zero year or month means the
// current one.
func (s *ReportService) Calendar(ctx context.Context, email string, year, month int) ([]calculator.DaySummary, error) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, ValidationError("month must be between 1 and 12")
	}

	txs, err := s.transactions.List(ctx, email)
	if err != nil {
		return nil, err
	}
	return calculator.CalendarDays(txs, year, month), nil
}

// ErrEmptyChart is returned by Chart when the filtered set is empty.
var ErrEmptyChart = errors.New("no transactions to chart")

// Chart renders the summary buckets as a PNG.
func (s *ReportService) Chart(ctx context.Context, email string, q ReportQuery) ([]byte, error) {
	summary, err := s.Summary(ctx, email, q)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	title := fmt.Sprintf("Spending by %s", summary.TimeFilter)
	if err := charts.RenderBuckets(&buf, title, summary.Chart); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			return nil, ErrEmptyChart
		}
		return nil, InternalError("failed to render chart", err)
	}
	return buf.Bytes(), nil
}
