package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreamblePredicates(t *testing.T) {
	m := make([]uint16, 32)
	m[0] = 200
	m[1] = 10
	m[2] = 200
	m[3] = 20
	m[4], m[5], m[6] = 10, 10, 10
	m[7] = 200
	m[8] = 20
	m[9] = 200
	for i := 10; i < 15; i++ {
		m[i] = 10
	}

	assert.True(t, preambleMatches(m, 0))
	assert.True(t, quietZonesOK(m, 0))
}

func TestDetectOutOfPhaseZeroWhenFlat(t *testing.T) {
	// A flat silent vector: no sample exceeds a third of its neighbour.
	// (A flat non-zero vector returns +1, since m[j+3] > m[j+2]/3.)
	m := make([]uint16, 20)
	assert.Equal(t, 0, detectOutOfPhase(m, 1))
}

func TestDetectOutOfPhasePositive(t *testing.T) {
	m := make([]uint16, 20)
	for i := range m {
		m[i] = 30
	}
	m[2] = 90
	m[3] = 60 // at j=1: m[j+3] > m[j+2]/3 (m[4]=30 > m[3]/3=20)
	assert.Equal(t, 1, detectOutOfPhase(m, 1))
}

func TestScanFindsNoPreambleInFlatSignal(t *testing.T) {
	m := make([]uint16, 400)
	d := NewDetector()
	out := d.Scan(m)
	assert.Empty(t, out, "an all-zero magnitude vector carries no preamble and must yield no detections")
}
