package main

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tablewise/erp_analyzer/analysis"
)

// RenderedSeries pairs a proposed chart with its aggregated data.
type RenderedSeries struct {
	Spec   ChartSpec
	Points []analysis.AggregatedPoint
}

// BuildHTMLReport writes a self-contained HTML page with every proposed
// chart, for the browser surface. Unknown chart types fall back to bars.
// The narrative summary travels in the chat reply, not the report.
func BuildHTMLReport(w io.Writer, fileName string, series []RenderedSeries) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Analysis: %s", fileName)

	for _, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		switch s.Spec.Type {
		case "pie":
			page.AddCharts(buildPie(s))
		case "line":
			page.AddCharts(buildLine(s))
		default:
			page.AddCharts(buildBar(s))
		}
	}
	return page.Render(w)
}

func buildBar(s RenderedSeries) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: s.Spec.Title}))

	categories := make([]string, 0, len(s.Points))
	data := make([]opts.BarData, 0, len(s.Points))
	for _, p := range s.Points {
		categories = append(categories, p.Category)
		data = append(data, opts.BarData{Value: p.Value})
	}
	bar.SetXAxis(categories).AddSeries(s.Spec.ValueColumn, data)
	return bar
}

func buildLine(s RenderedSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: s.Spec.Title}))

	categories := make([]string, 0, len(s.Points))
	data := make([]opts.LineData, 0, len(s.Points))
	for _, p := range s.Points {
		categories = append(categories, p.Category)
		data = append(data, opts.LineData{Value: p.Value})
	}
	line.SetXAxis(categories).AddSeries(s.Spec.ValueColumn, data)
	return line
}

func buildPie(s RenderedSeries) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: s.Spec.Title}))

	data := make([]opts.PieData, 0, len(s.Points))
	for _, p := range s.Points {
		data = append(data, opts.PieData{Name: p.Category, Value: p.Value})
	}
	pie.AddSeries(s.Spec.ValueColumn, data)
	return pie
}
