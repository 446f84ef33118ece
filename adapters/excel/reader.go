package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"qisim/internal"
	"qisim/internal/analysis"

	"github.com/xuri/excelize/v2"
)

// numericThreshold is the share of non-empty cells that must parse as numbers for a
// column to be treated as numeric
const numericThreshold = 0.9

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, log: internal.DefaultLogger}
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*TableData, error) {
	r.log.Debug("[DataReader] reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads the first worksheet into structured format
func (r *DataReader) readExcelData() (*TableData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no worksheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	r.log.Debug("[DataReader] %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*TableData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into TableData format
func (r *DataReader) processRows(rows [][]string) (*TableData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(RawRowData)
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.log.Debug("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &TableData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

// idColumn keys entity rows. Flattened exports repeat an entity's columns once per child
// row, so repeated (id, value) pairs count once when classifying.
const idColumn = "id"

// InferColumnTypes classifies each column from its string values. Integer columns with
// few distinct values are reported as categorical codes.
func InferColumnTypes(data *TableData) map[string]string {
	columnTypes := make(map[string]string, len(data.Headers))
	keyed := false
	for _, h := range data.Headers {
		if h == idColumn {
			keyed = true
		}
	}

	for _, header := range data.Headers {
		nonEmpty, numeric, integers := 0, 0, 0
		unique := make(map[string]bool)
		seen := make(map[[2]string]bool)
		for _, row := range data.Rows {
			value := row[header]
			if value == "" {
				continue
			}
			if keyed && header != idColumn {
				pair := [2]string{row[idColumn], value}
				if seen[pair] {
					continue
				}
				seen[pair] = true
			}
			nonEmpty++
			unique[value] = true
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				numeric++
				if f == float64(int64(f)) {
					integers++
				}
			}
		}

		switch {
		case nonEmpty == 0:
			columnTypes[header] = ColumnString
		case float64(numeric)/float64(nonEmpty) >= numericThreshold:
			uniqueRatio := float64(len(unique)) / float64(nonEmpty)
			if integers == numeric && nonEmpty >= 20 && uniqueRatio < 0.1 && len(unique) <= 20 {
				columnTypes[header] = ColumnCategorical
			} else {
				columnTypes[header] = ColumnNumeric
			}
		case len(unique) <= 20:
			columnTypes[header] = ColumnCategorical
		default:
			columnTypes[header] = ColumnString
		}
	}
	return columnTypes
}

// NumericColumns lists the numeric columns in header order
func NumericColumns(data *TableData) []string {
	types := InferColumnTypes(data)
	var out []string
	for _, h := range data.Headers {
		if types[h] == ColumnNumeric {
			out = append(out, h)
		}
	}
	return out
}

// Records converts rows to analysis records. Cells that parse as numbers become float64;
// empty cells become nil and anything else stays a string.
func (d *TableData) Records() []analysis.Record {
	out := make([]analysis.Record, len(d.Rows))
	for i, row := range d.Rows {
		rec := make(analysis.Record, len(row))
		for k, v := range row {
			switch f, err := strconv.ParseFloat(v, 64); {
			case v == "":
				rec[k] = nil
			case err == nil:
				rec[k] = f
			default:
				rec[k] = v
			}
		}
		out[i] = rec
	}
	return out
}

// AnalysisRows is Records typed for the analysis engine
func (d *TableData) AnalysisRows() []analysis.Row {
	recs := d.Records()
	rows := make([]analysis.Row, len(recs))
	for i, rec := range recs {
		rows[i] = rec
	}
	return rows
}
