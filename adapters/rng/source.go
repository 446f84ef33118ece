package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"hash/fnv"
	"math/rand"
	"time"

	"qisim/ports"
)

// NewSeeded returns a deterministic generator for seed
func NewSeeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// EntropySeed draws a seed from the operating system, falling back to the clock
func EntropySeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) &^ (1 << 63))
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Provider implements ports.RNGPort. Named streams derived from one base seed are
// independent of each other, so adding a new consumer never shifts an existing sequence.
type Provider struct{}

// NewProvider creates a stream provider
func NewProvider() *Provider {
	return &Provider{}
}

var _ ports.RNGPort = (*Provider)(nil)

// Seed mixes the stream name into the base seed
func (p *Provider) Seed(name string, seed int64) int64 {
	if seed == 0 {
		return EntropySeed()
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	mixed := int64(h.Sum64()&^(1<<63)) ^ seed
	if mixed == 0 {
		mixed = seed
	}
	return mixed
}

// Stream returns a generator for the named operation
func (p *Provider) Stream(name string, seed int64) ports.RandomSource {
	return NewSeeded(p.Seed(name, seed))
}
