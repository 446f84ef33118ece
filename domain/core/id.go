package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// NewIDFromReader creates a random (v4) identifier whose bytes come from r.
// Feeding a seeded generator makes identifiers reproducible across runs.
func NewIDFromReader(r io.Reader) ID {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return NewID()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ParticipantID ID
	FieldKey      ID
)

func (id ParticipantID) String() string { return ID(id).String() }
func (id FieldKey) String() string      { return ID(id).String() }

// ParseParticipantID parses a string into ParticipantID
func ParseParticipantID(s string) (ParticipantID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("participant ID cannot be empty")
	}
	return ParticipantID(s), nil
}

// ParseFieldKey parses a dot-separated field path
func ParseFieldKey(s string) (FieldKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("field key cannot be empty")
	}
	if strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") || strings.Contains(s, "..") {
		return "", fmt.Errorf("field key %q has an empty path segment", s)
	}
	return FieldKey(s), nil
}

// Segments splits the key into its dot-separated parts
func (k FieldKey) Segments() []string {
	if k == "" {
		return nil
	}
	return strings.Split(string(k), ".")
}
