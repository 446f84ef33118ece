package analysis

import (
	"encoding/json"
	"math"
	"strings"

	"qisim/domain/cohort"
	"qisim/internal/fieldpath"
)

// Row is one observation the engine can read named numeric values from
type Row interface {
	// Value returns the field's numeric value; ok is false when it is missing,
	// null, NaN or not numeric.
	Value(field string) (float64, bool)
}

// Record is a map-backed row, the shape rows take after JSON or CSV decoding.
// Dotted fields are looked up verbatim first, then through nested maps.
type Record map[string]interface{}

// Value implements Row
func (r Record) Value(field string) (float64, bool) {
	if v, ok := r[field]; ok {
		return toFloat(v)
	}
	if !strings.Contains(field, ".") {
		return 0, false
	}
	var cur interface{} = map[string]interface{}(r)
	for _, seg := range strings.Split(field, ".") {
		var node map[string]interface{}
		switch m := cur.(type) {
		case map[string]interface{}:
			node = m
		case Record:
			node = m
		default:
			return 0, false
		}
		next, ok := node[seg]
		if !ok {
			return 0, false
		}
		cur = next
	}
	return toFloat(cur)
}

func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case *float64:
		if n == nil {
			return 0, false
		}
		f = *n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

type participantRow struct {
	p *cohort.Participant
}

func (r participantRow) Value(field string) (float64, bool) {
	return fieldpath.Resolve(r.p, field)
}

// ParticipantRows adapts participants to rows addressed by field paths such as
// "riskScore" or "deepPhenotype.functionalStatus.physicalFunction". The rows read
// through to ps and must not outlive modifications to it.
func ParticipantRows(ps []cohort.Participant) []Row {
	rows := make([]Row, len(ps))
	for i := range ps {
		rows[i] = participantRow{p: &ps[i]}
	}
	return rows
}

// Column returns the present values of field, in row order
func Column(rows []Row, field string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Value(field); ok {
			out = append(out, v)
		}
	}
	return out
}

// PairedColumns returns x and y over rows where both are present
func PairedColumns(rows []Row, x, y string) ([]float64, []float64) {
	cases, _ := CompleteCases(rows, []string{x, y})
	xs := make([]float64, len(cases))
	ys := make([]float64, len(cases))
	for i, c := range cases {
		xs[i], ys[i] = c[0], c[1]
	}
	return xs, ys
}

// CompleteCases returns one vector per row where every field is present, plus the
// index of each kept row in the input.
func CompleteCases(rows []Row, fields []string) ([][]float64, []int) {
	cases := make([][]float64, 0, len(rows))
	index := make([]int, 0, len(rows))
	for i, r := range rows {
		vec := make([]float64, len(fields))
		complete := true
		for j, f := range fields {
			v, ok := r.Value(f)
			if !ok {
				complete = false
				break
			}
			vec[j] = v
		}
		if complete {
			cases = append(cases, vec)
			index = append(index, i)
		}
	}
	return cases, index
}
