package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tablewise/erp_analyzer/analysis"
	"github.com/tablewise/erp_analyzer/config"
	"github.com/tablewise/erp_analyzer/domain/models"
)

// AnalysisOutcome is everything one upload produces: the cleaned dataset,
// its summary, the reasoning collaborator's reply, and the aggregated
// series behind each proposed chart.
type AnalysisOutcome struct {
	Result           *ImportResult
	Stats            analysis.DatasetStatistics
	Insight          *InsightResponse
	Series           []RenderedSeries
	Warehouse        models.ClickhouseTableName
	WarehouseColumns []models.ColumnInfo
}

// analyzeFile runs the whole pipeline for one uploaded file: unpack,
// import, clean in place, summarize, sample, ask the reasoning service for
// charts, aggregate each proposal. The warehouse and LLM stages degrade
// gracefully: an unreachable collaborator falls back to heuristic charts
// instead of failing the upload.
func analyzeFile(ctx context.Context, filePath string) (*AnalysisOutcome, error) {
	unpackedFilePath, err := unpackArchive(filePath)
	if err != nil {
		return nil, fmt.Errorf("unpack: %w", err)
	}
	if unpackedFilePath != "" {
		filePath = unpackedFilePath
	}

	res, err := ImportFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	if len(res.Dataset) == 0 {
		return nil, fmt.Errorf("no data rows in %s", res.FileName)
	}

	analysis.CleanColumns(res.Dataset, res.Columns, analysis.CleanOptions{
		ReferenceYear: time.Now().Year(),
	})

	outcome := &AnalysisOutcome{
		Result: res,
		Stats:  analysis.ComputeStatisticsColumns(res.Dataset, res.Columns),
	}

	cfg := config.GetConfig()
	if cfg.DatabaseDSN != "" {
		if wh, err := OpenWarehouse(cfg.DatabaseDSN); err != nil {
			log.Printf("warehouse unavailable: %v", err)
		} else if table, columns, err := wh.ImportDataset(res); err != nil {
			log.Printf("warehouse import failed: %v", err)
		} else {
			outcome.Warehouse = table
			outcome.WarehouseColumns = columns
		}
	}

	sample := analysis.SampleRows(res.Dataset, analysis.DefaultSampleLimit)

	if cfg.LLMAPIKey != "" {
		client := NewLLMClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
		insight, err := GenerateInsights(ctx, client, res, outcome.Stats, sample)
		if err != nil {
			log.Printf("insight service failed, falling back to heuristics: %v", err)
		} else {
			outcome.Insight = insight
		}
	}
	if outcome.Insight == nil {
		outcome.Insight = &InsightResponse{
			Summary: fmt.Sprintf("%s: %d rows analyzed.", res.FileName, len(res.Dataset)),
			Charts:  defaultChartSpecs(res),
		}
	}

	for _, spec := range outcome.Insight.Charts {
		points := analysis.Aggregate(res.Dataset, spec.CategoryColumn, spec.ValueColumn)
		if len(points) == 0 {
			continue
		}
		outcome.Series = append(outcome.Series, RenderedSeries{Spec: spec, Points: points})
	}
	return outcome, nil
}

// defaultChartSpecs proposes charts without the reasoning collaborator:
// every categorical or date column against the first numeric column.
func defaultChartSpecs(res *ImportResult) []ChartSpec {
	valueCol := ""
	for _, col := range res.Columns {
		if analysis.Classify(res.Dataset, col) == analysis.ColumnNumber {
			valueCol = col
			break
		}
	}

	specs := []ChartSpec{}
	for _, col := range res.Columns {
		if col == valueCol {
			continue
		}
		switch analysis.Classify(res.Dataset, col) {
		case analysis.ColumnDate:
			specs = append(specs, ChartSpec{
				Title:          fmt.Sprintf("%s over %s", valueLabel(valueCol), col),
				Type:           "line",
				CategoryColumn: col,
				ValueColumn:    valueCol,
			})
		case analysis.ColumnString:
			specs = append(specs, ChartSpec{
				Title:          fmt.Sprintf("%s by %s", valueLabel(valueCol), col),
				Type:           "bar",
				CategoryColumn: col,
				ValueColumn:    valueCol,
			})
		}
		if len(specs) == 4 {
			break
		}
	}
	return specs
}

func valueLabel(valueCol string) string {
	if valueCol == "" {
		return "count"
	}
	return valueCol
}
