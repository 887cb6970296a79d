package eval

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth    = 640
	chartHeight   = 400
	chartBarWidth = 90
	titleFontSize = 12.0
)

// RenderChart draws the four matrix cells as a PNG bar chart of percentages.
func RenderChart(m *ConfusionMatrix, w io.Writer) error {
	if m.Total == 0 {
		return ErrEmptyDataset
	}

	pct := m.Percentages()

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Classifier outcomes (%d examples)", m.Total),
		TitleStyle: chart.Style{FontSize: titleFontSize},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: chartBarWidth,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Bars: []chart.Value{
			{Label: "True negative", Value: pct[0][0], Style: chart.Style{FillColor: chart.ColorGreen, StrokeColor: chart.ColorGreen}},
			{Label: "False positive", Value: pct[0][1], Style: chart.Style{FillColor: chart.ColorOrange, StrokeColor: chart.ColorOrange}},
			{Label: "False negative", Value: pct[1][0], Style: chart.Style{FillColor: chart.ColorRed, StrokeColor: chart.ColorRed}},
			{Label: "True positive", Value: pct[1][1], Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue}},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}
