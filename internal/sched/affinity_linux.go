//go:build linux

package sched

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// pinCurrentThread pins the calling OS thread (callers must have already
// called runtime.LockOSThread) to cpu and raises it to real-time FIFO
// scheduling at priority. Both are best-effort: failures are returned
// for the caller to log rather than treated as fatal, since an
// unprivileged process commonly cannot raise its own RT priority.
func pinCurrentThread(cpu, priority int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("sched_setaffinity cpu=%d: %w", cpu, err)
	}

	param := &unix.SchedParam{Priority: int32(priority)}
	if err := unix.SchedSetscheduler(0, unix.SCHED_FIFO, param); err != nil {
		return fmt.Errorf("sched_setscheduler priority=%d: %w", priority, err)
	}
	return nil
}
