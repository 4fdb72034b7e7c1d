package charts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mmynk/spendbook/internal/calculator"
	"github.com/mmynk/spendbook/internal/models"
)

func TestRenderBuckets(t *testing.T) {
	buckets := []calculator.Bucket{
		{Period: "2024.1", Amount: 12000, Count: 2, SortKey: "2024-01"},
		{Period: "2024.2", Amount: 30500, Count: 5, SortKey: "2024-02"},
		{Period: "2024.3", Amount: 4500, Count: 1, SortKey: "2024-03"},
	}

	var buf bytes.Buffer
	if err := RenderBuckets(&buf, "Spending by month", buckets); err != nil {
		t.Fatalf("RenderBuckets failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Errorf("output is not a PNG (first bytes %q)", buf.Bytes()[:8])
	}
}

func TestRenderBucketsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderBuckets(&buf, "empty", nil); !errors.Is(err, ErrNoData) {
		t.Errorf("got err %v, want ErrNoData", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing written, got %d bytes", buf.Len())
	}
}

func TestBarLabel(t *testing.T) {
	tests := []struct {
		bucket calculator.Bucket
		want   string
	}{
		{calculator.Bucket{Period: "3/19", SortKey: "2024-03-19"}, "3/19"},
		{calculator.Bucket{Period: "2024.3", SortKey: "2024-03"}, "2024.3"},
		{calculator.Bucket{Period: "2024year", SortKey: "2024"}, "2024year"},
		{calculator.Bucket{Period: "3/17주", SortKey: "2024-03-17"}, "2024-03-17"},
	}
	for _, tt := range tests {
		if got := barLabel(tt.bucket); got != tt.want {
			t.Errorf("barLabel(%q) = %q, want %q", tt.bucket.Period, got, tt.want)
		}
	}
}

func TestRenderBucketsWeekly(t *testing.T) {
	txs := []models.Transaction{
		{ID: 1, Amount: 4500, Date: "2024-03-19"},
		{ID: 2, Amount: 8000, Date: "2024-03-12"},
	}
	buckets := calculator.GroupByPeriod(txs, models.FilterWeek)
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}

	var buf bytes.Buffer
	if err := RenderBuckets(&buf, "Spending by week", buckets); err != nil {
		t.Fatalf("RenderBuckets failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}
