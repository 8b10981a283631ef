package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportFileCSV(t *testing.T) {
	path := writeTempFile(t, "orders.csv",
		"訂單編號,客戶,金額\nA001,北方公司,100\nA002,南方公司,250.5\n")

	res, err := ImportFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"訂單編號", "客戶", "金額"}, res.Columns)
	assert.Len(t, res.Dataset, 2)
	assert.Equal(t, "A001", res.Dataset[0]["訂單編號"])
	assert.Equal(t, "250.5", res.Dataset[1]["金額"])
	assert.Equal(t, "orders.csv", res.FileName)
}

func TestImportFileTSV(t *testing.T) {
	path := writeTempFile(t, "orders.tsv", "name\tqty\nwidget\t3\n")

	res, err := ImportFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"name", "qty"}, res.Columns)
	assert.Equal(t, "3", res.Dataset[0]["qty"])
}

func TestImportFileHeaderlessCSV(t *testing.T) {
	path := writeTempFile(t, "raw.csv", "20240115,100,5\n20240116,200,7\n")

	res, err := ImportFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"column_1", "column_2", "column_3"}, res.Columns)
	// the first row is data, not headers, so both rows survive
	assert.Len(t, res.Dataset, 2)
	assert.Equal(t, "20240115", res.Dataset[0]["column_1"])
}

func TestImportFileRaggedRows(t *testing.T) {
	path := writeTempFile(t, "ragged.csv", "a,b,c\n1,2\n1,2,3,4\n")

	res, err := ImportFile(path)
	assert.NoError(t, err)
	assert.Len(t, res.Dataset, 2)
	assert.Equal(t, "", res.Dataset[0]["c"])
}

func TestImportFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	assert.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"客戶", "金額"}))
	assert.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"A公司", 100}))
	path := filepath.Join(t.TempDir(), "book.xlsx")
	assert.NoError(t, f.SaveAs(path))
	f.Close()

	res, err := ImportFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"客戶", "金額"}, res.Columns)
	assert.Len(t, res.Dataset, 1)
	assert.Equal(t, "A公司", res.Dataset[0]["客戶"])
	assert.Equal(t, "100", res.Dataset[0]["金額"])
}

func TestImportFileUnsupported(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "hello")
	_, err := ImportFile(path)
	assert.Error(t, err)
}

func TestImportFileEmpty(t *testing.T) {
	path := writeTempFile(t, "empty.csv", "")
	_, err := ImportFile(path)
	assert.Error(t, err)
}
