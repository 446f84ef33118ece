package excel

// RawRowData represents a row of raw spreadsheet data as string key-value pairs
type RawRowData map[string]string

// TableData represents a complete tabular dataset read from XLSX or CSV
type TableData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Column types reported by InferColumnTypes
const (
	ColumnNumeric     = "numeric"
	ColumnCategorical = "categorical"
	ColumnString      = "string"
)
