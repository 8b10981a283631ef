package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tablewise/erp_analyzer/analysis"
)

// ChartSpec is one chart the reasoning collaborator proposed. Category and
// value columns refer to original spreadsheet headers.
type ChartSpec struct {
	Title          string `json:"title"`
	Type           string `json:"type"` // bar, line or pie
	CategoryColumn string `json:"categoryColumn"`
	ValueColumn    string `json:"valueColumn"`
}

// InsightResponse is the parsed reply: a narrative summary plus chart
// proposals that are fed through the aggregator.
type InsightResponse struct {
	Summary string      `json:"summary"`
	Charts  []ChartSpec `json:"charts"`
}

const insightSystemPrompt = `You are a data analyst for ERP spreadsheet exports.
You receive dataset statistics and a representative sample of rows.
Reply with a single JSON object, no markdown, of the shape:
{"summary": "...", "charts": [{"title": "...", "type": "bar|line|pie", "categoryColumn": "...", "valueColumn": "..."}]}
Column names must be copied exactly from the provided header list.
Propose at most 4 charts. The summary is 3-5 sentences of concrete findings.`

// BuildInsightPrompt assembles the user message: column list, statistics as
// JSON and the sampled rows as CSV. The sample is already bounded by the
// caller, so the prompt size is predictable.
func BuildInsightPrompt(columns []string, stats analysis.DatasetStatistics, sample analysis.Dataset) string {
	statsJSON, _ := json.Marshal(stats)

	var sb strings.Builder
	sb.WriteString("Columns: ")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString("\n\nStatistics:\n")
	sb.Write(statsJSON)
	sb.WriteString("\n\nSample rows (head, random middle, tail):\n")
	sb.WriteString(renderSampleCSV(columns, sample))
	return sb.String()
}

func renderSampleCSV(columns []string, sample analysis.Dataset) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write(columns)
	for _, row := range sample {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = analysis.ToString(row[col])
		}
		w.Write(record)
	}
	w.Flush()
	return b.String()
}

// ParseInsightResponse extracts the JSON object from the reply, tolerating
// markdown fences and prose around it.
func ParseInsightResponse(reply string) (*InsightResponse, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in llm reply")
	}

	var out InsightResponse
	if err := json.Unmarshal([]byte(reply[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("parse llm reply: %w", err)
	}
	return &out, nil
}

// GenerateInsights runs the full reasoning round trip for an imported
// dataset. Chart specs naming unknown columns are dropped rather than
// surfaced: the aggregator would only return an empty series for them.
func GenerateInsights(ctx context.Context, client *LLMClient, res *ImportResult, stats analysis.DatasetStatistics, sample analysis.Dataset) (*InsightResponse, error) {
	reply, err := client.Complete(ctx, []ChatMessage{
		{Role: "system", Content: insightSystemPrompt},
		{Role: "user", Content: BuildInsightPrompt(res.Columns, stats, sample)},
	})
	if err != nil {
		return nil, err
	}

	insight, err := ParseInsightResponse(reply)
	if err != nil {
		return nil, err
	}

	known := map[string]bool{}
	for _, col := range res.Columns {
		known[col] = true
	}
	charts := insight.Charts[:0]
	for _, spec := range insight.Charts {
		if known[spec.CategoryColumn] && (spec.ValueColumn == "" || known[spec.ValueColumn]) {
			charts = append(charts, spec)
		}
	}
	insight.Charts = charts
	return insight, nil
}
