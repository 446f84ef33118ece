package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"qisim/domain/cohort"
	"qisim/domain/core"
	"qisim/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetParticipants = "Participants"
	SheetMeasurements = "Measurements"
	SheetTreatments   = "Treatments"
)

var treatmentColumns = []string{"participantId", "name", "startDate", "endDate", "effectiveness"}

// WriteWorkbook writes ps as an XLSX workbook with one sheet each for participants,
// measurements and treatments. Measurement and treatment rows carry the participant id.
func WriteWorkbook(w io.Writer, ps []cohort.Participant) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetParticipants); err != nil {
		return errors.ExportFailed("xlsx", err)
	}
	if err := writeParticipantSheet(f, ps); err != nil {
		return errors.ExportFailed("xlsx", err)
	}
	if err := writeMeasurementSheet(f, ps); err != nil {
		return errors.ExportFailed("xlsx", err)
	}
	if err := writeTreatmentSheet(f, ps); err != nil {
		return errors.ExportFailed("xlsx", err)
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return errors.ExportFailed("xlsx", err)
	}
	return nil
}

func writeParticipantSheet(f *excelize.File, ps []cohort.Participant) error {
	header := toRow(participantColumns[:len(participantColumns)-1])
	if err := f.SetSheetRow(SheetParticipants, "A1", &header); err != nil {
		return err
	}
	for i := range ps {
		p := &ps[i]
		row := []interface{}{
			p.ID.String(), p.Age, p.Gender, p.Unit, p.Condition, p.RiskScore,
			p.Outcome, p.LengthOfStay, p.ReadmissionRisk, strings.Join(p.Comorbidities, ";"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetParticipants, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// writeMeasurementSheet streams rows since measurements dominate workbook size
func writeMeasurementSheet(f *excelize.File, ps []cohort.Participant) error {
	if _, err := f.NewSheet(SheetMeasurements); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetMeasurements)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", toRow(append([]string{"participantId"}, measurementColumns...))); err != nil {
		return err
	}

	rowNum := 2
	for i := range ps {
		for _, m := range ps[i].Measurements {
			row := []interface{}{ps[i].ID.String(), m.Date.String()}
			for _, v := range m.Fields() {
				if *v == nil {
					row = append(row, nil)
				} else {
					row = append(row, **v)
				}
			}
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return err
			}
			if err := sw.SetRow(cell, row); err != nil {
				return err
			}
			rowNum++
		}
	}
	return sw.Flush()
}

func writeTreatmentSheet(f *excelize.File, ps []cohort.Participant) error {
	if _, err := f.NewSheet(SheetTreatments); err != nil {
		return err
	}
	header := toRow(treatmentColumns)
	if err := f.SetSheetRow(SheetTreatments, "A1", &header); err != nil {
		return err
	}
	rowNum := 2
	for i := range ps {
		for _, t := range ps[i].Treatments {
			end := ""
			if t.EndDate != nil {
				end = t.EndDate.String()
			}
			row := []interface{}{ps[i].ID.String(), t.Name, t.StartDate.String(), end, t.Effectiveness}
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(SheetTreatments, cell, &row); err != nil {
				return err
			}
			rowNum++
		}
	}
	return nil
}

// ReadWorkbook reads the Participants sheet of an XLSX workbook. Measurements and
// treatments are not reconstructed.
func ReadWorkbook(r io.Reader) ([]cohort.Participant, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "open workbook")
	}
	defer f.Close()

	rows, err := f.GetRows(SheetParticipants)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "read participants sheet")
	}
	if len(rows) == 0 {
		return []cohort.Participant{}, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	if _, ok := col["id"]; !ok {
		return nil, errors.InvalidInput("participants sheet has no id column")
	}

	ps := make([]cohort.Participant, 0, len(rows)-1)
	for n, row := range rows[1:] {
		get := func(name string) string {
			if i, ok := col[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		p := cohort.Participant{
			ID:        core.ParticipantID(get("id")),
			Gender:    get("gender"),
			Unit:      get("unit"),
			Condition: get("condition"),
			Outcome:   get("outcome"),
		}
		var perr error
		p.Age, perr = parseInt(get("age"), perr)
		p.LengthOfStay, perr = parseInt(get("lengthOfStay"), perr)
		p.RiskScore, perr = parseFloat(get("riskScore"), perr)
		p.ReadmissionRisk, perr = parseFloat(get("readmissionRisk"), perr)
		if perr != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("participants row %d: %v", n+2, perr))
		}
		if c := get("comorbidities"); c != "" {
			p.Comorbidities = strings.Split(c, ";")
		}
		ps = append(ps, p)
	}

	if err := CheckIDs(ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// parseInt and parseFloat keep the first error; empty cells read as zero
func parseInt(s string, prev error) (int, error) {
	if prev != nil || s == "" {
		return 0, prev
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func parseFloat(s string, prev error) (float64, error) {
	if prev != nil || s == "" {
		return 0, prev
	}
	return strconv.ParseFloat(s, 64)
}
