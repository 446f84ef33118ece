// Package export moves participant cohorts in and out of JSON, CSV and XLSX.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"qisim/domain/cohort"
	"qisim/domain/core"
	"qisim/internal/errors"
)

// WriteJSON writes ps as an indented JSON array
func WriteJSON(w io.Writer, ps []cohort.Participant) error {
	if ps == nil {
		ps = []cohort.Participant{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ps); err != nil {
		return errors.ExportFailed("json", err)
	}
	return nil
}

// ReadJSON decodes a participant array. Every participant needs a unique, non-empty id.
func ReadJSON(r io.Reader) ([]cohort.Participant, error) {
	var ps []cohort.Participant
	if err := json.NewDecoder(r).Decode(&ps); err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "decode participants")
	}
	if err := CheckIDs(ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// CheckIDs rejects empty or repeated participant ids
func CheckIDs(ps []cohort.Participant) error {
	seen := make(map[string]int, len(ps))
	for i, p := range ps {
		parsed, err := core.ParseParticipantID(p.ID.String())
		if err != nil {
			return errors.InvalidInput(fmt.Sprintf("participant %d: %v", i, err))
		}
		id := parsed.String()
		if j, dup := seen[id]; dup {
			return errors.InvalidInput(fmt.Sprintf("participants %d and %d share id %q", j, i, id))
		}
		seen[id] = i
	}
	return nil
}
