package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tablewise/erp_analyzer/analysis"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestRenderSeriesPNGLineOverDates(t *testing.T) {
	s := RenderedSeries{
		Spec: ChartSpec{Title: "Amount over month", Type: "line", CategoryColumn: "Month", ValueColumn: "Amount"},
		Points: []analysis.AggregatedPoint{
			{Category: "2024-01-01", Value: 5},
			{Category: "2024-02-01", Value: 7},
			{Category: "2024-03-01", Value: 6},
		},
	}
	png, err := renderSeriesPNG(s)
	assert.NoError(t, err)
	assert.Equal(t, pngMagic, png[:4])
}

func TestRenderSeriesPNGLineOverTextFallsBackToBars(t *testing.T) {
	s := RenderedSeries{
		Spec: ChartSpec{Title: "Amount by region", Type: "line", CategoryColumn: "Region", ValueColumn: "Amount"},
		Points: []analysis.AggregatedPoint{
			{Category: "North", Value: 5},
			{Category: "South", Value: 7},
		},
	}
	png, err := renderSeriesPNG(s)
	assert.NoError(t, err)
	assert.Equal(t, pngMagic, png[:4])
}

func TestRenderSeriesPNGBar(t *testing.T) {
	s := RenderedSeries{
		Spec: ChartSpec{Title: "Count by status", Type: "bar", CategoryColumn: "Status"},
		Points: []analysis.AggregatedPoint{
			{Category: "open", Value: 3},
			{Category: "closed", Value: 9},
		},
	}
	png, err := renderSeriesPNG(s)
	assert.NoError(t, err)
	assert.Equal(t, pngMagic, png[:4])
}

func TestChartCaption(t *testing.T) {
	assert.Contains(t, chartCaption("line", "month", "Sales"), "Trend over month")
	assert.Contains(t, chartCaption("pie", "region", "Sales"), "Share per region")
	assert.Contains(t, chartCaption("bar", "region", "Sales"), "Top categories of region")
}
