package random

import (
	"testing"
	"time"

	"qisim/adapters/rng"
	"qisim/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestUniform_Bounds(t *testing.T) {
	r := rng.NewSeeded(1)
	for i := 0; i < 1000; i++ {
		v := Uniform(r, -3, 5)
		assert.GreaterOrEqual(t, v, -3.0)
		assert.Less(t, v, 5.0)
	}
}

func TestIntBetween_InclusiveAndCovering(t *testing.T) {
	r := rng.NewSeeded(2)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := IntBetween(r, 3, 7)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 7)
		seen[v] = true
	}
	assert.Len(t, seen, 5, "every value in [3,7] should appear")

	assert.Equal(t, 4, IntBetween(r, 4, 4))
	v := IntBetween(r, 9, 2)
	assert.True(t, v >= 2 && v <= 9)
}

func TestChoice(t *testing.T) {
	r := rng.NewSeeded(3)
	assert.Equal(t, "", Choice(r, []string{}))
	assert.Contains(t, []string{"a", "b"}, Choice(r, []string{"a", "b"}))
}

func TestChance_Extremes(t *testing.T) {
	r := rng.NewSeeded(4)
	assert.False(t, Chance(r, 0))
	assert.True(t, Chance(r, 1))

	hits := 0
	for i := 0; i < 10000; i++ {
		if Chance(r, 0.3) {
			hits++
		}
	}
	assert.InDelta(t, 0.3, float64(hits)/10000, 0.03)
}

func TestSymmetric(t *testing.T) {
	r := rng.NewSeeded(5)
	for i := 0; i < 1000; i++ {
		v := Symmetric(r, 2)
		assert.True(t, v >= -2 && v <= 2)
	}
	assert.Equal(t, 0.0, Symmetric(r, 0))
}

func TestDateBetween_Inclusive(t *testing.T) {
	r := rng.NewSeeded(6)
	start := core.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	end := start.AddDays(3)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		d := DateBetween(r, start, end)
		assert.False(t, d.Before(start))
		assert.False(t, d.After(end))
		seen[d.String()] = true
	}
	assert.Len(t, seen, 4)
}

func TestSample_Distinct(t *testing.T) {
	r := rng.NewSeeded(7)
	out := Sample(r, []string{"a", "b", "c"}, 10)
	assert.LessOrEqual(t, len(out), 3)
	seen := map[string]bool{}
	for _, v := range out {
		assert.False(t, seen[v])
		seen[v] = true
	}
	assert.Empty(t, Sample(r, []string{"a"}, 0))
}

func TestDeterministicSequence(t *testing.T) {
	a, b := rng.NewSeeded(99), rng.NewSeeded(99)
	for i := 0; i < 50; i++ {
		assert.Equal(t, IntBetween(a, 0, 100), IntBetween(b, 0, 100))
	}
}
