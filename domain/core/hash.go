package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// CohortHash fingerprints a participant set
type CohortHash Hash

func (h CohortHash) String() string { return Hash(h).String() }

// ComputeCohortHash hashes the sorted participant IDs together with any labelled attributes.
// The input slice is not modified.
func ComputeCohortHash(participantIDs []string, attrs map[string]interface{}) CohortHash {
	ids := append([]string(nil), participantIDs...)
	sort.Strings(ids)

	var data strings.Builder
	for _, id := range ids {
		data.WriteString(id)
		data.WriteByte(0)
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("%v", attrs[key]))
	}

	return CohortHash(NewHash([]byte(data.String())))
}
