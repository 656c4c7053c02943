//go:build !linux

package sched

import "fmt"

// pinCurrentThread is a no-op on platforms without sched_setaffinity/
// SCHED_FIFO support; the caller logs the returned error as a warning
// and continues without real-time pinning.
func pinCurrentThread(cpu, priority int) error {
	return fmt.Errorf("cpu affinity/real-time priority unsupported on this platform")
}
