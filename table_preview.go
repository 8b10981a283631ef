package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tablewise/erp_analyzer/analysis"
	"github.com/tablewise/erp_analyzer/domain/models"
)

// GenerateStatisticsTable renders the dataset summary as an ASCII table for
// chat replies.
func GenerateStatisticsTable(stats analysis.DatasetStatistics) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Sum", "Avg", "Min", "Max"})

	columns := make([]string, 0, len(stats.NumericStats))
	for col := range stats.NumericStats {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	for _, col := range columns {
		s := stats.NumericStats[col]
		t.AppendRow(table.Row{col, s.Sum, s.Avg, s.Min, s.Max})
	}

	t.SetStyle(table.StyleDefault)

	var b strings.Builder
	fmt.Fprintf(&b, "Rows: %d\n", stats.RowCount)
	if stats.DateRange.Column != "" {
		fmt.Fprintf(&b, "Date range (%s): %s .. %s\n", stats.DateRange.Column, stats.DateRange.Start, stats.DateRange.End)
	}
	b.WriteString(t.Render())
	return b.String()
}

// GenerateAggregateTable renders one chart series as an ASCII table.
func GenerateAggregateTable(title string, points []analysis.AggregatedPoint) string {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Category", "Value"})
	for _, p := range points {
		t.AppendRow(table.Row{p.Category, p.Value})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// GenerateCategoryCountTable renders a drill-down result as an ASCII table.
func GenerateCategoryCountTable(header string, counts []models.CategoryCount) string {
	t := table.NewWriter()
	t.SetTitle(header)
	t.AppendHeader(table.Row{"Value", "Count"})
	for _, c := range counts {
		t.AppendRow(table.Row{c.Value, c.Count})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// GenerateAggregateMarkdown renders one chart series as a markdown table,
// used when the series is embedded into a text report.
func GenerateAggregateMarkdown(points []analysis.AggregatedPoint) string {
	var b strings.Builder
	b.WriteString("| Category | Value |\n|---|---|\n")
	for _, p := range points {
		fmt.Fprintf(&b, "| %s | %v |\n", p.Category, p.Value)
	}
	return b.String()
}
