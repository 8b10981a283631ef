package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tablewise/erp_analyzer/analysis"
)

func TestBuildInsightPrompt(t *testing.T) {
	columns := []string{"客戶", "金額"}
	sample := analysis.Dataset{
		{"客戶": "A公司", "金額": "100"},
		{"客戶": "B公司", "金額": "250.5"},
	}
	stats := analysis.DatasetStatistics{
		RowCount: 2,
		NumericStats: map[string]analysis.NumericStat{
			"金額": {Sum: 350.5, Avg: 175.25, Min: 100, Max: 250.5},
		},
	}

	prompt := BuildInsightPrompt(columns, stats, sample)

	assert.Contains(t, prompt, "Columns: 客戶, 金額")
	assert.Contains(t, prompt, `"金額"`)
	assert.Contains(t, prompt, "客戶,金額")
	assert.Contains(t, prompt, "A公司,100")
	assert.Contains(t, prompt, "B公司,250.5")
}

func TestParseInsightResponse(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    *InsightResponse
		wantErr bool
	}{
		{
			name:  "plain json",
			reply: `{"summary":"Sales concentrate in Q4.","charts":[{"title":"Sales by region","type":"bar","categoryColumn":"Region","valueColumn":"Amount"}]}`,
			want: &InsightResponse{
				Summary: "Sales concentrate in Q4.",
				Charts: []ChartSpec{
					{Title: "Sales by region", Type: "bar", CategoryColumn: "Region", ValueColumn: "Amount"},
				},
			},
		},
		{
			name:  "json inside markdown fence",
			reply: "Here is my analysis:\n```json\n{\"summary\":\"ok\",\"charts\":[]}\n```\nHope this helps.",
			want:  &InsightResponse{Summary: "ok", Charts: []ChartSpec{}},
		},
		{
			name:    "no json at all",
			reply:   "I cannot analyze this data.",
			wantErr: true,
		},
		{
			name:    "broken json",
			reply:   `{"summary": "unterminated`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInsightResponse(tt.reply)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
