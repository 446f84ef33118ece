package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"qisim/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadData_CSV(t *testing.T) {
	path := writeFile(t, "ward.csv", "age, risk ,unit\n40,12.5,ICU\n55,,Cardiology\n61,70,ICU\n")

	data, err := NewDataReader(path).ReadData()
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "risk", "unit"}, data.Headers)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, "", data.Rows[1]["risk"])

	recs := data.Records()
	assert.Equal(t, 40.0, recs[0]["age"])
	assert.Nil(t, recs[1]["risk"])
	assert.Equal(t, "ICU", recs[0]["unit"])

	rows := data.AnalysisRows()
	assert.Equal(t, []float64{12.5, 70}, analysis.Column(rows, "risk"))
}

func TestReadData_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"x", "y"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{1, 3}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{2, 5}))
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	data, err := NewDataReader(path).ReadData()
	require.NoError(t, err)
	xs, ys := analysis.PairedColumns(data.AnalysisRows(), "x", "y")
	assert.Equal(t, []float64{1, 2}, xs)
	assert.InDelta(t, 1.0, analysis.Correlation(xs, ys), 1e-12)
}

func TestReadData_Errors(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "absent.csv")).ReadData()
	assert.Error(t, err)

	_, err = NewDataReader(writeFile(t, "header.csv", "a,b\n")).ReadData()
	assert.Error(t, err)
}

func TestInferColumnTypes(t *testing.T) {
	data := &TableData{Headers: []string{"num", "code", "label", "empty"}}
	for i := 0; i < 40; i++ {
		data.Rows = append(data.Rows, RawRowData{
			"num":   []string{"1.5", "2.25", "3", "7.75"}[i%4] + "1",
			"code":  []string{"1", "2", "3"}[i%3],
			"label": []string{"a", "b"}[i%2],
		})
	}
	types := InferColumnTypes(data)
	assert.Equal(t, ColumnNumeric, types["num"])
	assert.Equal(t, ColumnCategorical, types["code"])
	assert.Equal(t, ColumnCategorical, types["label"])
	assert.Equal(t, ColumnString, types["empty"])
	assert.Equal(t, []string{"num"}, NumericColumns(data))
}

func TestInferColumnTypes_RepeatedEntityRows(t *testing.T) {
	data := &TableData{Headers: []string{"id", "age", "heartRate"}}
	for p := 0; p < 30; p++ {
		for m := 0; m < 10; m++ {
			data.Rows = append(data.Rows, RawRowData{
				"id":        fmt.Sprintf("p%02d", p),
				"age":       strconv.Itoa(20 + p*2),
				"heartRate": strconv.Itoa(60 + (p+m)%35),
			})
		}
	}

	types := InferColumnTypes(data)
	assert.Equal(t, ColumnNumeric, types["age"])
	assert.Equal(t, ColumnNumeric, types["heartRate"])
	assert.Equal(t, []string{"age", "heartRate"}, NumericColumns(data))
}
