package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modesd/internal/modes"
)

func TestUpsertIgnoresCRCInvalid(t *testing.T) {
	r := New(time.Minute)
	mm := &modes.Message{CRCOK: false}
	assert.Nil(t, r.Upsert(mm))
	assert.Equal(t, 0, r.Count())
}

func TestUpsertCreatesAndUpdates(t *testing.T) {
	r := New(time.Minute)
	mm := &modes.Message{CRCOK: true, DF: 17, METype: 2, AA1: 0x4B, AA2: 0x1A, AA3: 0x9A}
	mm.Flight[0] = 'A'
	a := r.Upsert(mm)
	require.NotNil(t, a)
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, int64(1), a.Messages)
}

func TestSweepActuallyDeletes(t *testing.T) {
	r := New(10 * time.Millisecond)
	mm := &modes.Message{CRCOK: true, DF: 0, AA1: 1, AA2: 2, AA3: 3}
	r.Upsert(mm)
	require.Equal(t, 1, r.Count())

	time.Sleep(20 * time.Millisecond)
	r.Sweep(time.Now())

	assert.Equal(t, 0, r.Count(), "stale aircraft must actually be removed from the backing map")
}

func TestSnapshotIsACopy(t *testing.T) {
	r := New(time.Minute)
	mm := &modes.Message{CRCOK: true, DF: 0, AA1: 1, AA2: 2, AA3: 3}
	r.Upsert(mm)

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	snap[0].Altitude = 99999

	live := r.Snapshot()
	assert.NotEqual(t, 99999, live[0].Altitude)
}
