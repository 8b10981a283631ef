package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/pivolan/go_utils"
	uuid "github.com/satori/go.uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tablewise/erp_analyzer/analysis"
	"github.com/tablewise/erp_analyzer/domain/models"
)

const insertBatchSize = 5000

// Warehouse stores cleaned datasets in ClickHouse (reached over its mysql
// wire protocol) so drill-down queries do not need the rows in memory.
type Warehouse struct {
	db *gorm.DB
}

func OpenWarehouse(dsn string) (*Warehouse, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("connect clickhouse: %w", err)
	}
	return &Warehouse{db: db}, nil
}

var specialSymbolsRe = regexp.MustCompile("[^a-zA-Z0-9]+")

// replaceSpecialSymbols collapses anything non-alphanumeric into single
// underscores.
func replaceSpecialSymbols(input string) string {
	s := specialSymbolsRe.ReplaceAllString(input, "_")
	s = strings.ReplaceAll(s, "__", "_")
	return strings.Trim(s, "_")
}

// columnSQLName turns an original header (often CJK) into a usable SQL
// identifier. Falls back to a positional name when nothing survives
// transliteration.
func columnSQLName(header string, index int) string {
	s := replaceSpecialSymbols(unidecode.Unidecode(header))
	s = strings.ToLower(s)
	if s == "" || !isSQLIdentifier(s) {
		return fmt.Sprintf("col_%d", index+1)
	}
	return s
}

func isSQLIdentifier(s string) bool {
	if s[0] >= '0' && s[0] <= '9' {
		return false
	}
	return true
}

func columnSQLType(t analysis.ColumnType) string {
	switch t {
	case analysis.ColumnNumber:
		return "Float64"
	case analysis.ColumnDate:
		return "Date"
	default:
		return "String"
	}
}

// ImportDataset creates a fresh table for the cleaned dataset and loads all
// rows into it. The table name carries a uuid fragment so repeated uploads
// of the same file never collide.
func (w *Warehouse) ImportDataset(res *ImportResult) (models.ClickhouseTableName, []models.ColumnInfo, error) {
	columns := make([]models.ColumnInfo, len(res.Columns))
	seen := map[string]bool{}
	for i, header := range res.Columns {
		name := columnSQLName(header, i)
		if seen[name] {
			name = fmt.Sprintf("%s_%d", name, i+1)
		}
		seen[name] = true
		columns[i] = models.ColumnInfo{
			Name:   name,
			Header: header,
			Type:   columnSQLType(analysis.Classify(res.Dataset, header)),
		}
	}

	base := strings.TrimSuffix(strings.ToLower(replaceSpecialSymbols(unidecode.Unidecode(res.FileName))), "_xlsx")
	base = strings.TrimSuffix(base, "_csv")
	if base == "" {
		base = "dataset"
	}
	table := models.ClickhouseTableName(fmt.Sprintf("%s_%s", base, uuid.NewV4().String()[:8]))

	fields := make([]string, 0, len(columns)+1)
	idExists := false
	for _, col := range columns {
		if col.Name == "id" {
			idExists = true
		}
		fields = append(fields, fmt.Sprintf("%s %s", col.Name, col.Type))
	}
	createSQL := "CREATE TABLE " + string(table) + " (id UInt64,"
	if idExists {
		createSQL = "CREATE TABLE " + string(table) + " ("
	}
	createSQL += strings.Join(fields, ",\n") +
		") ENGINE = ReplacingMergeTree PRIMARY KEY (id) SETTINGS index_granularity = 8192"

	if tx := w.db.Exec("DROP TABLE IF EXISTS " + string(table)); tx.Error != nil {
		return "", nil, tx.Error
	}
	if tx := w.db.Exec(createSQL); tx.Error != nil {
		return "", nil, fmt.Errorf("create table %s: %w", table, tx.Error)
	}

	b := bytes.NewBufferString("")
	csvWriter := csv.NewWriter(b)
	for i, row := range res.Dataset {
		record := make([]string, 0, len(columns)+1)
		if !idExists {
			record = append(record, strconv.Itoa(i))
		}
		for _, col := range columns {
			record = append(record, warehouseCellValue(row[col.Header], col.Type))
		}
		csvWriter.Write(record)

		if (i+1)%insertBatchSize == 0 {
			if err := w.flushBatch(table, csvWriter, b); err != nil {
				return "", nil, err
			}
		}
	}
	if err := w.flushBatch(table, csvWriter, b); err != nil {
		return "", nil, err
	}
	return table, columns, nil
}

func (w *Warehouse) flushBatch(table models.ClickhouseTableName, csvWriter *csv.Writer, b *bytes.Buffer) error {
	csvWriter.Flush()
	if b.Len() == 0 {
		return nil
	}
	sql := fmt.Sprintf("INSERT INTO %s FORMAT CSV \n%s", table, b.String())
	b.Reset()
	if tx := w.db.Exec(sql); tx.Error != nil {
		return fmt.Errorf("insert into %s: %w", table, tx.Error)
	}
	return nil
}

// warehouseCellValue renders a cell for the CSV insert. Dates are
// normalized so ClickHouse can parse compact ERP date codes.
func warehouseCellValue(v any, sqlType string) string {
	switch sqlType {
	case "Float64":
		f, _ := analysis.ToFloat(v)
		return strconv.FormatFloat(f, 'f', -1, 64)
	case "Date":
		if s := analysis.FormatDate(analysis.ParseDate(v)); s != "" {
			return s
		}
		return "1970-01-01"
	default:
		return analysis.ToString(v)
	}
}

// DrillDown returns the most frequent values of one category column,
// mirroring the in-memory aggregator's top-N view in SQL for datasets that
// are too large to keep around.
func (w *Warehouse) DrillDown(table models.ClickhouseTableName, column models.ColumnInfo, limit int) ([]models.CategoryCount, error) {
	if limit <= 0 {
		limit = analysis.MaxAggregatedPoints
	}
	sql := generateDrillDownSQL(table, column, limit)
	var counts []models.CategoryCount
	if tx := w.db.Raw(sql).Scan(&counts); tx.Error != nil {
		return nil, fmt.Errorf("drill down %s.%s: %w", table, column.Name, tx.Error)
	}
	return counts, nil
}

func generateDrillDownSQL(table models.ClickhouseTableName, column models.ColumnInfo, limit int) string {
	return fmt.Sprintf(
		"SELECT toString(%[1]s) as value, count(*) as count FROM %[2]s GROUP BY %[1]s ORDER BY count(*) DESC LIMIT %[3]d",
		column.Name, table, limit)
}

// IsNumericWarehouseType reports whether a warehouse column carries numbers.
func IsNumericWarehouseType(t string) bool {
	return go_utils.InArray(t, []string{"Int64", "Float64", "Nullable(Int64)", "Nullable(Float64)"})
}
