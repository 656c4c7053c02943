package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCPRDecodeReferenceVector(t *testing.T) {
	a := &Aircraft{
		EvenCPRLat: 92095, EvenCPRLon: 39846, EvenCPRTime: 1000,
		OddCPRLat: 88385, OddCPRLon: 125818, OddCPRTime: 1200,
	}
	decodeCPR(a)

	assert.InDelta(t, 52.2572, a.Lat, 1e-4)
	assert.InDelta(t, 3.9193, a.Lon, 1e-4)
}

func TestCPRModRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(-1_000_000, 1_000_000).Draw(t, "a")
		b := rapid.IntRange(1, 1000).Draw(t, "b")
		res := cprMod(a, b)
		if res < 0 || res >= b {
			t.Fatalf("cprMod(%d,%d) = %d out of range [0,%d)", a, b, res, b)
		}
	})
}

func TestNLBoundaries(t *testing.T) {
	assert.Equal(t, 59, cprNL(0))
	assert.Equal(t, 2, cprNL(87))
	assert.Equal(t, 1, cprNL(88))
}

func TestNLMonotonicNonIncreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lats := rapid.SliceOfN(rapid.Float64Range(0, 90), 2, 2).Draw(t, "lats")
		lo, hi := lats[0], lats[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		if cprNL(lo) < cprNL(hi) {
			t.Fatalf("NL(%f)=%d < NL(%f)=%d, expected non-increasing in |lat|", lo, cprNL(lo), hi, cprNL(hi))
		}
	})
}
