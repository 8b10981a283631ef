package plot

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tablewise/erp_analyzer/analysis"
)

// DrawAggregatedBars renders one aggregated chart series as a PNG bar
// chart. The series is already ordered and capped by the aggregator.
func DrawAggregatedBars(points []analysis.AggregatedPoint, title string) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("empty series")
	}

	series := barSeries{title: title}
	for _, p := range points {
		series.labels = append(series.labels, p.Category)
		series.values = append(series.values, p.Value)
	}

	width, height := series.chartDimensions(100)
	bar := chart.BarChart{
		Title:  title,
		Width:  width + 50,
		Height: height + 50,
		Bars:   series.barValues(),
		Background: chart.Style{
			FillColor:   drawing.ColorWhite,
			StrokeColor: chart.ColorBlack,
			Padding:     chart.Box{Top: 50, Bottom: 120},
		},
		BarWidth: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: series.maxValue()},
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: chart.ColorBlack,
				FontSize:    17,
			},
		},
	}

	buffer := bytes.NewBuffer(nil)
	if err := bar.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// DrawTimeSeries renders a unix-timestamp time series as a PNG line chart.
func DrawTimeSeries(xValues, yValues []float64) ([]byte, error) {
	if len(xValues) < 2 {
		return nil, fmt.Errorf("need at least 2 points")
	}

	series := &chart.ContinuousSeries{
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: drawing.ColorBlue,
			StrokeWidth: 2,
		},
	}

	graph := chart.Chart{
		Width:  2048,
		Height: 1024,
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 120},
		},
		XAxis: chart.XAxis{
			Style: chart.Style{TextRotationDegrees: 88},
			ValueFormatter: func(v interface{}) string {
				if vf, ok := v.(float64); ok {
					return time.Unix(int64(vf), 0).Format("2006-01-02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Ticks: valueTicks(yValues),
			ValueFormatter: func(v interface{}) string {
				if vf, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f", vf)
				}
				return ""
			},
		},
		Series: []chart.Series{series},
	}

	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render time series: %w", err)
	}
	return buffer.Bytes(), nil
}
