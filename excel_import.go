package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tablewise/erp_analyzer/analysis"
)

// ImportResult is a parsed upload: the dataset plus the column order the
// file declared it in. Column order matters for role discovery, Go maps
// would lose it.
type ImportResult struct {
	Dataset  analysis.Dataset
	Columns  []string
	FileName string
}

// ImportFile parses an uploaded spreadsheet (.xlsx, .csv or .tsv) into a
// dataset of row maps.
func ImportFile(filePath string) (*ImportResult, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		return importXLSX(filePath)
	case ".csv":
		return importCSV(filePath, ',')
	case ".tsv":
		return importCSV(filePath, '\t')
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filePath))
	}
}

func importXLSX(filePath string) (*ImportResult, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return buildResult(filePath, rows)
}

func importCSV(filePath string, comma rune) (*ImportResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return buildResult(filePath, records)
}

func buildResult(filePath string, rows [][]string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	ha := AnalyzeHeaders(rows[0])
	if ha == nil {
		return nil, fmt.Errorf("file has no columns")
	}
	dataRows := rows[1:]
	if ha.FirstRowIsData {
		dataRows = rows
	}

	dataset := make(analysis.Dataset, 0, len(dataRows))
	for _, record := range dataRows {
		row := analysis.Row{}
		for i, col := range ha.Headers {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			} else {
				row[col] = ""
			}
		}
		dataset = append(dataset, row)
	}

	return &ImportResult{
		Dataset:  dataset,
		Columns:  ha.Headers,
		FileName: filepath.Base(filePath),
	}, nil
}
