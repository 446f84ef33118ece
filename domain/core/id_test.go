package core

import (
	"math/rand"
	"testing"
	"time"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestNewIDFromReader_Deterministic(t *testing.T) {
	a := NewIDFromReader(rand.New(rand.NewSource(7)))
	b := NewIDFromReader(rand.New(rand.NewSource(7)))
	c := NewIDFromReader(rand.New(rand.NewSource(8)))

	if a != b {
		t.Errorf("Expected identical IDs for identical seeds, got %s and %s", a, b)
	}
	if a == c {
		t.Errorf("Expected different IDs for different seeds")
	}
}

func TestParseFieldKey(t *testing.T) {
	tests := []struct {
		input    string
		segments int
		hasError bool
	}{
		{"age", 1, false},
		{"deepPhenotype.functionalStatus.physicalFunction", 3, false},
		{"", 0, true},
		{"a..b", 0, true},
		{".a", 0, true},
	}

	for _, test := range tests {
		key, err := ParseFieldKey(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("Expected error for input '%s', but got none", test.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
			continue
		}
		if got := len(key.Segments()); got != test.segments {
			t.Errorf("Expected %d segments for '%s', got %d", test.segments, test.input, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.String() != "2024-03-05" {
		t.Errorf("Expected 2024-03-05, got %s", d)
	}

	d, err = ParseDate("2024-03-05T17:30:00Z")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Time().Hour() != 0 {
		t.Errorf("Expected date truncated to midnight, got %v", d.Time())
	}

	if _, err := ParseDate("05/03/2024"); err == nil {
		t.Error("Expected error for unsupported layout")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(b) != `"2024-01-02"` {
		t.Errorf("Unexpected JSON %s", b)
	}

	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if back != d {
		t.Errorf("Expected %s, got %s", d, back)
	}

	var zero Date
	if err := zero.UnmarshalJSON([]byte("null")); err != nil || !zero.IsZero() {
		t.Errorf("Expected null to decode to zero date, err=%v", err)
	}
}

func TestComputeCohortHash_OrderIndependent(t *testing.T) {
	ids := []string{"b", "a", "c"}
	h1 := ComputeCohortHash(ids, map[string]interface{}{"seed": 1})
	h2 := ComputeCohortHash([]string{"c", "b", "a"}, map[string]interface{}{"seed": 1})
	h3 := ComputeCohortHash(ids, map[string]interface{}{"seed": 2})

	if h1 != h2 {
		t.Error("Expected hash to ignore ID order")
	}
	if h1 == h3 {
		t.Error("Expected attributes to change the hash")
	}
	if ids[0] != "b" {
		t.Error("Expected input slice to stay unsorted")
	}
}
