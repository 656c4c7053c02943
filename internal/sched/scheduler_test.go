package sched

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerReleasesOnPeriod(t *testing.T) {
	sc := New(nil)
	var calls int32
	sc.AddService("probe", 0, 0, 1, func(ctx context.Context) {
		atomic.AddInt32(&calls, 1)
	})

	sc.Start(context.Background())
	time.Sleep(30 * Tick)
	sc.Stop()

	assert.Greater(t, int(atomic.LoadInt32(&calls)), 0)
}

func TestServiceReleaseCoalescesAndCountsMissed(t *testing.T) {
	svc := newService("slow", 0, 0, 1, func(ctx context.Context) {})

	svc.release()
	svc.release() // semaphore already full: coalesced

	assert.Equal(t, uint64(1), svc.Missed())
}

func TestRuntimeStatsMinMaxAvg(t *testing.T) {
	var s RuntimeStats
	s.record(10 * time.Millisecond)
	s.record(30 * time.Millisecond)
	s.record(20 * time.Millisecond)

	snap := s.Snapshot()
	assert.Equal(t, 10*time.Millisecond, snap.Min)
	assert.Equal(t, 30*time.Millisecond, snap.Max)
	assert.Equal(t, uint64(3), snap.Count)
	assert.Equal(t, 20*time.Millisecond, snap.Avg)
}

func TestStopUnblocksWorkers(t *testing.T) {
	sc := New(nil)
	sc.AddService("idle", 0, 0, 1000000, func(ctx context.Context) {})
	sc.Start(context.Background())

	done := make(chan struct{})
	go func() {
		sc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not unblock workers")
	}
}
