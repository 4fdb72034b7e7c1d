package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mmynk/spendbook/internal/models"
	"github.com/mmynk/spendbook/internal/storage/memory"
)

func newReportService(t *testing.T) (*ReportService, *TransactionService, *SettingsService) {
	t.Helper()
	store := memory.New()
	txs, items := newTransactionService(store, nil)
	settings := NewSettingsService(store, nil)
	r := NewReportService(txs, items, settings)
	r.now = func() time.Time { return fixedNow }
	return r, txs, settings
}

func TestReportServiceFiltered(t *testing.T) {
	ctx := context.Background()
	r, txs, _ := newReportService(t)

	txs.Add(ctx, testUser, purchase("커피", 4500, 1, "2024-03-19"))
	txs.Add(ctx, testUser, purchase("점심", 8000, 1, "2024-03-01"))
	txs.Add(ctx, testUser, purchase("커피", 4500, 2, "2023-06-01"))

	t.Run("no filters returns everything", func(t *testing.T) {
		got, err := r.Filtered(ctx, testUser, ReportQuery{})
		if err != nil {
			t.Fatalf("Filtered failed: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d transactions, want 3", len(got))
		}
	})

	t.Run("time and item filters", func(t *testing.T) {
		got, err := r.Filtered(ctx, testUser, ReportQuery{TimeFilter: models.FilterMonth, Item: "커피"})
		if err != nil {
			t.Fatalf("Filtered failed: %v", err)
		}
		if len(got) != 1 || got[0].Date != "2024-03-19" {
			t.Errorf("got %+v, want only the recent coffee", got)
		}
	})

	t.Run("monthly without selection is empty", func(t *testing.T) {
		got, err := r.Filtered(ctx, testUser, ReportQuery{TimeFilter: models.FilterMonthly})
		if err != nil {
			t.Fatalf("Filtered failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d transactions, want 0", len(got))
		}
	})

	t.Run("invalid filter", func(t *testing.T) {
		if _, err := r.Filtered(ctx, testUser, ReportQuery{TimeFilter: "hour"}); KindOf(err) != KindValidation {
			t.Errorf("got err %v, want validation error", err)
		}
	})
}

func TestReportServiceSummary(t *testing.T) {
	ctx := context.Background()
	r, txs, settings := newReportService(t)

	txs.Add(ctx, testUser, purchase("커피", 4500, 1, "2024-03-19"))
	txs.Add(ctx, testUser, purchase("점심", 8000, 2, "2024-03-01"))
	txs.Add(ctx, testUser, purchase("커피", 4500, 1, "2024-01-10"))
	txs.Add(ctx, testUser, purchase("지하철", 1500, 1, "2022-05-05"))
	settings.Update(ctx, testUser, map[string]json.RawMessage{"budget": json.RawMessage(`50000`)})

	summary, err := r.Summary(ctx, testUser, ReportQuery{})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if summary.TimeFilter != models.FilterMonth {
		t.Errorf("TimeFilter = %s, want the stored month filter", summary.TimeFilter)
	}
	if len(summary.Chart) != 2 {
		t.Fatalf("got %d buckets, want 2: %+v", len(summary.Chart), summary.Chart)
	}
	if summary.Chart[0].SortKey != "2024-01" || summary.Chart[1].SortKey != "2024-03" {
		t.Errorf("unexpected bucket order: %+v", summary.Chart)
	}

	var bucketSum float64
	for _, b := range summary.Chart {
		bucketSum += b.Amount
	}
	if math.Abs(bucketSum-summary.Totals.Amount) > 0.01 || summary.Totals.Amount != 25000 {
		t.Errorf("bucket sum %v, totals %+v; want 25000", bucketSum, summary.Totals)
	}

	if summary.Budget.Spent != 20500 || summary.Budget.Remaining != 29500 {
		t.Errorf("budget = %+v, want spent 20500 remaining 29500", summary.Budget)
	}

	t.Run("budget ignores the item filter", func(t *testing.T) {
		s, err := r.Summary(ctx, testUser, ReportQuery{Item: "지하철", TimeFilter: models.FilterYear})
		if err != nil {
			t.Fatalf("Summary failed: %v", err)
		}
		if s.Totals.Count != 1 || s.Budget.Spent != 20500 {
			t.Errorf("totals %+v budget %+v", s.Totals, s.Budget)
		}
	})
}

func TestReportServiceCalendar(t *testing.T) {
	ctx := context.Background()
	r, txs, _ := newReportService(t)
	txs.Add(ctx, testUser, purchase("커피", 4500, 1, "2024-03-19"))
	txs.Add(ctx, testUser, purchase("점심", 8000, 1, "2024-03-19"))
	txs.Add(ctx, testUser, purchase("커피", 4500, 1, "2024-02-10"))

	days, err := r.Calendar(ctx, testUser, 0, 0)
	if err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}
	if len(days) != 1 || days[0].Date != "2024-03-19" || days[0].Amount != 12500 || days[0].Count != 2 {
		t.Errorf("unexpected calendar: %+v", days)
	}

	if _, err := r.Calendar(ctx, testUser, 2024, 13); KindOf(err) != KindValidation {
		t.Errorf("got err %v, want validation error", err)
	}
}

func TestReportServiceChart(t *testing.T) {
	ctx := context.Background()
	r, txs, _ := newReportService(t)

	if _, err := r.Chart(ctx, testUser, ReportQuery{}); !errors.Is(err, ErrEmptyChart) {
		t.Errorf("got err %v, want ErrEmptyChart", err)
	}

	txs.Add(ctx, testUser, purchase("커피", 4500, 1, "2024-03-19"))
	txs.Add(ctx, testUser, purchase("점심", 8000, 1, "2024-02-19"))
	png, err := r.Chart(ctx, testUser, ReportQuery{TimeFilter: models.FilterMonth})
	if err != nil {
		t.Fatalf("Chart failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("chart is not a PNG")
	}
}
