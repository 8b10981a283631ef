package models

// ClickhouseTableName is the warehouse table an upload was imported into.
type ClickhouseTableName string

// ColumnInfo maps an original spreadsheet header to its warehouse column.
type ColumnInfo struct {
	Name   string // sanitized SQL column name
	Header string // original spreadsheet header
	Type   string // Date Float64 String
}

// CategoryCount is one drill-down group.
type CategoryCount struct {
	Value string `db:"value"`
	Count int64  `db:"count"`
}
