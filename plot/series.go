package plot

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// barSeries is a labeled value series prepared for bar rendering.
type barSeries struct {
	labels []string
	values []float64
	title  string
}

func (s barSeries) maxValue() float64 {
	max := 0.0
	for _, v := range s.values {
		if v > max {
			max = v
		}
	}
	return max
}

// chartDimensions sizes the image from the bar count so labels stay
// readable for anything from 1 to 12 bars.
func (s barSeries) chartDimensions(minBarWidth float64) (width, height int) {
	if len(s.values) == 0 || minBarWidth <= 0 {
		return 0, 0
	}
	scale := 1.1
	if len(s.values) < 2 {
		scale = 10.0
	} else if len(s.values) < 10 {
		scale = 3.0
	}

	const (
		paddingY     = 100
		spacingRatio = 0.2
		aspectRatio  = 9.0 / 16.0
	)
	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(len(s.values)) + paddingY
	width = int(totalWidth*scale) + paddingY
	height = int(float64(width) * aspectRatio)
	return width, height
}

func (s barSeries) barValues() []chart.Value {
	bars := make([]chart.Value, 0, len(s.values))
	for i, label := range s.labels {
		bars = append(bars, chart.Value{
			Value: s.values[i],
			Label: label,
			Style: chart.Style{
				FillColor:         drawing.ColorLime.WithAlpha(40),
				TextVerticalAlign: 100,
			},
		})
	}
	return bars
}

// valueTicks lays out round value-axis ticks from zero to the series
// maximum.
func valueTicks(values []float64) []chart.Tick {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	step := gridStep(max)
	if step <= 0 {
		return nil
	}
	var ticks []chart.Tick
	for v := 0.0; v <= max; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.1f", v)})
	}
	return ticks
}

// gridStep picks a round tick interval for the value axis.
func gridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	if maxValue < 1e-10 {
		return 1e-10
	}
	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	final := step * magnitude
	if final >= 1000 {
		return math.Round(final/100) * 100
	}
	if final >= 100 {
		return math.Round(final/10) * 10
	}
	return final
}
