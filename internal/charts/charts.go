// Package charts renders aggregated buckets as PNG images for the chart view.
package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"unicode"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/mmynk/spendbook/internal/calculator"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to render")

const (
	minWidth   = 1000
	height     = 500
	barWidth   = 40
	barSpacing = 10
)

// RenderBuckets draws buckets as a bar chart and writes the PNG to w.
func RenderBuckets(w io.Writer, title string, buckets []calculator.Bucket) error {
	if len(buckets) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(buckets))
	lo, hi := 0.0, 0.0
	for i, b := range buckets {
		bars[i] = chart.Value{
			Label: barLabel(b),
			Value: b.Amount,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue,
			},
		}
		lo = math.Min(lo, b.Amount)
		hi = math.Max(hi, b.Amount)
	}
	if lo == hi {
		hi = lo + 1
	}

	width := max(minWidth, len(bars)*(barWidth+barSpacing)+200)

	graph := chart.BarChart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   30,
				Right:  30,
				Bottom: 30,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// barLabel returns the bucket's period label, or its sort key when the label
// has characters the default chart font cannot draw (week labels end in 주).
func barLabel(b calculator.Bucket) string {
	for _, r := range b.Period {
		if r > unicode.MaxASCII {
			return b.SortKey
		}
	}
	return b.Period
}
