package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformDCCentre(t *testing.T) {
	tbl := NewTable()
	out := tbl.Transform([]byte{127, 127, 255, 255, 0, 0}, nil)
	assert.Equal(t, []uint16{0, tbl.values[128][128], tbl.values[127][127]}, out)
}

func TestTransformLength(t *testing.T) {
	tbl := NewTable()
	out := tbl.Transform(make([]byte, 10), nil)
	assert.Len(t, out, 5)
}

func TestTableMaxNearSpecBound(t *testing.T) {
	tbl := NewTable()
	// sqrt(128^2+128^2) * 360 ~= 65167, comfortably inside a uint16.
	assert.InDelta(t, 65167, int(tbl.values[128][128]), 1)
}
