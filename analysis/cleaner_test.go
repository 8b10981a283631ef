package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func orderRows() Dataset {
	return Dataset{
		{"訂單編號": "A001", "單據日期": "20240110", "預交日期": "20240210", "實際交期": "20240212", "差異天數": float64(0)},
		{"訂單編號": "A002", "單據日期": "20240115", "預交日期": "20240301", "實際交期": "20240225", "差異天數": float64(0)},
	}
}

func orderColumns() []string {
	return []string{"訂單編號", "單據日期", "預交日期", "實際交期", "差異天數"}
}

func TestFindColumnByKeywords(t *testing.T) {
	headers := []string{"訂單編號", "單據日期", "預交日期", "實際交期", "差異天數"}

	assert.Equal(t, "單據日期", FindColumnByKeywords(headers, DocumentDateKeywords))
	assert.Equal(t, "預交日期", FindColumnByKeywords(headers, PredictedDateKeywords))
	assert.Equal(t, "實際交期", FindColumnByKeywords(headers, ActualDateKeywords))
	assert.Equal(t, "差異天數", FindColumnByKeywords(headers, DiffDaysKeywords))
	assert.Equal(t, "", FindColumnByKeywords(headers, []string{"warehouse"}))
}

func TestFindColumnByKeywordsEnglish(t *testing.T) {
	headers := []string{"Order No", "Order Date", "Due Date", "Finish Date"}

	assert.Equal(t, "Order Date", FindColumnByKeywords(headers, DocumentDateKeywords))
	assert.Equal(t, "Due Date", FindColumnByKeywords(headers, PredictedDateKeywords))
	assert.Equal(t, "Finish Date", FindColumnByKeywords(headers, ActualDateKeywords))
}

func TestCleanYearRepairFromDocumentDate(t *testing.T) {
	d := Dataset{
		{"單據日期": "20240110", "預交日期": "00240210"},
	}
	CleanColumns(d, []string{"單據日期", "預交日期"}, CleanOptions{ReferenceYear: 2030})

	// Document date year wins over the reference year.
	assert.Equal(t, "20240210", d[0]["預交日期"])
}

func TestCleanYearRepairFallsBackToReferenceYear(t *testing.T) {
	d := Dataset{
		{"預交日期": "0025-06-15"},
	}
	CleanColumns(d, []string{"預交日期"}, CleanOptions{ReferenceYear: 2025})

	assert.Equal(t, "2025-06-15", d[0]["預交日期"])
}

func TestCleanLogicalOrderRepair(t *testing.T) {
	// Predicted delivery cannot precede the order date; the year is read as
	// a typo and overwritten with the document year.
	d := Dataset{
		{"單據日期": "20240110", "預交日期": "20230215"},
	}
	CleanColumns(d, []string{"單據日期", "預交日期"}, CleanOptions{ReferenceYear: 2024})

	assert.Equal(t, "20240215", d[0]["預交日期"])
}

func TestCleanRecomputesDifferenceDays(t *testing.T) {
	d := orderRows()
	CleanColumns(d, orderColumns(), CleanOptions{ReferenceYear: 2024})

	assert.Equal(t, float64(2), d[0]["差異天數"])
	assert.Equal(t, float64(-5), d[1]["差異天數"])
}

func TestCleanPreservesShape(t *testing.T) {
	d := orderRows()
	CleanColumns(d, orderColumns(), CleanOptions{ReferenceYear: 2024})

	assert.Len(t, d, 2)
	for _, row := range d {
		assert.Len(t, row, 5)
	}
}

func TestCleanIdempotent(t *testing.T) {
	first := orderRows()
	first[0]["預交日期"] = "00240210"
	CleanColumns(first, orderColumns(), CleanOptions{ReferenceYear: 2024})

	second := make(Dataset, len(first))
	for i, row := range first {
		r := Row{}
		for k, v := range row {
			r[k] = v
		}
		second[i] = r
	}
	CleanColumns(second, orderColumns(), CleanOptions{ReferenceYear: 2024})

	assert.Equal(t, first, second)
}

func TestCleanEmptyDataset(t *testing.T) {
	d := Dataset{}
	assert.Equal(t, Dataset{}, Clean(d, CleanOptions{}))
}

func TestCleanSkipsMalformedCells(t *testing.T) {
	d := Dataset{
		{"單據日期": "garbage", "預交日期": "also-garbage", "實際交期": "", "差異天數": "x"},
	}
	assert.NotPanics(t, func() {
		CleanColumns(d, []string{"單據日期", "預交日期", "實際交期", "差異天數"}, CleanOptions{ReferenceYear: 2024})
	})
	assert.Equal(t, "garbage", d[0]["單據日期"])
}

func TestCleanCopyLeavesOriginalUntouched(t *testing.T) {
	d := Dataset{
		{"單據日期": "20240110", "預交日期": "20230215"},
	}
	cleaned := CleanCopy(d, CleanOptions{ReferenceYear: 2024})

	assert.Equal(t, "20230215", d[0]["預交日期"])
	assert.Equal(t, "20240215", cleaned[0]["預交日期"])
}
