package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatisticsNumericColumn(t *testing.T) {
	d := Dataset{
		{"Revenue": float64(10)},
		{"Revenue": float64(0)},
		{"Revenue": float64(-5)},
		{"Revenue": nil},
		{"Revenue": float64(20)},
	}
	stats := ComputeStatisticsColumns(d, []string{"Revenue"})

	assert.Equal(t, 5, stats.RowCount)
	rev, ok := stats.NumericStats["Revenue"]
	assert.True(t, ok)
	assert.Equal(t, float64(25), rev.Sum)
	assert.Equal(t, float64(-5), rev.Min)
	assert.Equal(t, float64(20), rev.Max)
	// Average divides by the total row count, nulls included.
	assert.Equal(t, float64(5), rev.Avg)
}

func TestComputeStatisticsRounding(t *testing.T) {
	d := Dataset{
		{"amount": "1.25"},
		{"amount": "2.5"},
		{"amount": "3.125"},
	}
	stats := ComputeStatisticsColumns(d, []string{"amount"})

	amt := stats.NumericStats["amount"]
	assert.Equal(t, 6.88, amt.Sum)
	assert.Equal(t, 2.29, amt.Avg)
	// Min and max are reported unrounded.
	assert.Equal(t, 1.25, amt.Min)
	assert.Equal(t, 3.125, amt.Max)
}

func TestComputeStatisticsDateRange(t *testing.T) {
	d := Dataset{
		{"單據日期": "20240110", "qty": "1"},
		{"單據日期": "20231225", "qty": "2"},
		{"單據日期": "bad", "qty": "3"},
		{"單據日期": "20240301", "qty": "4"},
	}
	stats := ComputeStatisticsColumns(d, []string{"單據日期", "qty"})

	assert.Equal(t, "單據日期", stats.DateRange.Column)
	assert.Equal(t, "2023-12-25", stats.DateRange.Start)
	assert.Equal(t, "2024-03-01", stats.DateRange.End)
}

func TestComputeStatisticsSkipsNonNumericColumns(t *testing.T) {
	d := Dataset{
		{"Region": "North", "訂單編號": "1001", "Revenue": "10"},
		{"Region": "South", "訂單編號": "1002", "Revenue": "20"},
	}
	stats := ComputeStatisticsColumns(d, []string{"Region", "訂單編號", "Revenue"})

	_, hasRegion := stats.NumericStats["Region"]
	_, hasID := stats.NumericStats["訂單編號"]
	_, hasRevenue := stats.NumericStats["Revenue"]
	assert.False(t, hasRegion)
	assert.False(t, hasID, "identifier columns must not be summarized")
	assert.True(t, hasRevenue)
}

func TestComputeStatisticsEmptyDataset(t *testing.T) {
	stats := ComputeStatistics(Dataset{})

	assert.Equal(t, 0, stats.RowCount)
	assert.Empty(t, stats.NumericStats)
	assert.Equal(t, "", stats.DateRange.Column)
}

func TestComputeStatisticsStringNumbers(t *testing.T) {
	d := Dataset{
		{"qty": "100"},
		{"qty": "250"},
		{"qty": ""},
	}
	stats := ComputeStatisticsColumns(d, []string{"qty"})

	q := stats.NumericStats["qty"]
	assert.Equal(t, float64(350), q.Sum)
	assert.Equal(t, float64(100), q.Min)
	assert.Equal(t, float64(250), q.Max)
	assert.Equal(t, 116.67, q.Avg)
}
