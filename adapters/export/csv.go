package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"qisim/domain/cohort"
	"qisim/internal/errors"
	"qisim/internal/fieldpath"
)

var participantColumns = []string{
	"id", "age", "gender", "unit", "condition", "riskScore", "outcome",
	"lengthOfStay", "readmissionRisk", "comorbidities", "treatmentCount",
}

var measurementColumns = []string{
	"date", "systolicBP", "diastolicBP", "heartRate", "temperature", "oxygenSaturation", "painLevel",
}

// WriteCSV flattens ps to one row per measurement with the participant columns repeated.
// Participants without measurements get one row with empty measurement cells. Derived
// values follow as trailing columns, sorted by path.
func WriteCSV(w io.Writer, ps []cohort.Participant) error {
	derived := derivedColumns(ps)

	cw := csv.NewWriter(w)
	header := append(append(append([]string{}, participantColumns...), measurementColumns...), derived...)
	if err := cw.Write(header); err != nil {
		return errors.ExportFailed("csv", err)
	}

	for i := range ps {
		p := &ps[i]
		lead := participantCells(p)
		tail := make([]string, len(derived))
		for j, path := range derived {
			if v, ok := fieldpath.Resolve(p, path); ok {
				tail[j] = formatFloat(v)
			}
		}

		if len(p.Measurements) == 0 {
			row := append(append(append([]string{}, lead...), make([]string, len(measurementColumns))...), tail...)
			if err := cw.Write(row); err != nil {
				return errors.ExportFailed("csv", err)
			}
			continue
		}
		for _, m := range p.Measurements {
			row := append(append(append([]string{}, lead...), measurementCells(m)...), tail...)
			if err := cw.Write(row); err != nil {
				return errors.ExportFailed("csv", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.ExportFailed("csv", err)
	}
	return nil
}

func participantCells(p *cohort.Participant) []string {
	return []string{
		p.ID.String(),
		strconv.Itoa(p.Age),
		p.Gender,
		p.Unit,
		p.Condition,
		formatFloat(p.RiskScore),
		p.Outcome,
		strconv.Itoa(p.LengthOfStay),
		formatFloat(p.ReadmissionRisk),
		strings.Join(p.Comorbidities, ";"),
		strconv.Itoa(len(p.Treatments)),
	}
}

func measurementCells(m cohort.Measurement) []string {
	cells := []string{m.Date.String()}
	for _, f := range m.Fields() {
		cells = append(cells, formatOptional(*f))
	}
	return cells
}

// derivedColumns is the sorted union of derived-value paths across ps
func derivedColumns(ps []cohort.Participant) []string {
	base := make(map[string]bool)
	for _, path := range fieldpath.NumericFields(nil) {
		base[path] = true
	}
	seen := make(map[string]bool)
	var out []string
	for i := range ps {
		if len(ps[i].Derived) == 0 {
			continue
		}
		for _, path := range fieldpath.NumericFields(&ps[i]) {
			if base[path] || seen[path] {
				continue
			}
			seen[path] = true
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
