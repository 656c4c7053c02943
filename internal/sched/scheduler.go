// Package sched implements the rate-monotonic periodic scheduler: a
// global tick counter drives per-service binary-semaphore releases,
// each service running on its own CPU-pinned, real-time-prioritised
// worker with min/max/sum/count runtime statistics.
package sched

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"modesd/internal/metrics"
)

// Tick is the scheduler's base period, matching this system's lineage's
// 1ms timer.
const Tick = time.Millisecond

// ServiceFunc is one service's unit of work for a single release.
type ServiceFunc func(ctx context.Context)

// Service is one periodically-released unit of work.
type Service struct {
	Name     string
	Affinity int
	Priority int
	Period   uint64 // in scheduler ticks
	Fn       ServiceFunc

	sem     chan struct{}
	running int32
	stats   RuntimeStats
	missed  uint64
}

func newService(name string, affinity, priority int, period uint64, fn ServiceFunc) *Service {
	return &Service{
		Name:     name,
		Affinity: affinity,
		Priority: priority,
		Period:   period,
		Fn:       fn,
		sem:      make(chan struct{}, 1),
		running:  1,
	}
}

// release signals the service's binary semaphore. A release that finds
// the semaphore already signalled is coalesced and counted as missed,
// per this design's deliberate "no queue depth" policy.
func (s *Service) release() {
	select {
	case s.sem <- struct{}{}:
	default:
		atomic.AddUint64(&s.missed, 1)
		metrics.IncMissed(s.Name)
	}
}

func (s *Service) stop() {
	atomic.StoreInt32(&s.running, 0)
	s.release()
}

func (s *Service) isRunning() bool {
	return atomic.LoadInt32(&s.running) != 0
}

// Missed returns the number of coalesced (overrun) releases so far.
func (s *Service) Missed() uint64 {
	return atomic.LoadUint64(&s.missed)
}

// Stats returns a snapshot of this service's runtime statistics.
func (s *Service) Stats() Snapshot {
	return s.stats.Snapshot()
}

func (s *Service) worker(ctx context.Context, log *logrus.Entry) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := pinCurrentThread(s.Affinity, s.Priority); err != nil {
		log.WithFields(logrus.Fields{"service": s.Name, "error": err}).Warn("sched: could not apply CPU affinity/RT priority")
	}

	for {
		<-s.sem
		if !s.isRunning() {
			return
		}
		start := time.Now()
		s.Fn(ctx)
		elapsed := time.Since(start)
		s.stats.record(elapsed)
		metrics.ObserveRuntime(s.Name, elapsed.Seconds())
	}
}

// Scheduler is a rate-monotonic periodic release scheduler driving a
// fixed set of services from a single tick source.
type Scheduler struct {
	log      *logrus.Entry
	services []*Service
	tick     uint64
	ticker   *time.Ticker
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New constructs an empty Scheduler.
func New(log *logrus.Entry) *Scheduler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scheduler{log: log}
}

// AddService registers a new periodic service. Must be called before Start.
func (sc *Scheduler) AddService(name string, affinity, priority int, period uint64, fn ServiceFunc) *Service {
	svc := newService(name, affinity, priority, period, fn)
	sc.services = append(sc.services, svc)
	return svc
}

// Services returns every registered service, for statistics reporting.
func (sc *Scheduler) Services() []*Service {
	return sc.services
}

// Start launches one worker goroutine per service plus the tick
// goroutine. ctx is passed to every service callback; the workers and
// the tick goroutine do not watch it. Workers exit only through Stop,
// which clears each service's running flag, checked at the
// semaphore-acquire boundary.
func (sc *Scheduler) Start(ctx context.Context) {
	sc.stopCh = make(chan struct{})

	for _, svc := range sc.services {
		sc.wg.Add(1)
		go func(s *Service) {
			defer sc.wg.Done()
			s.worker(ctx, sc.log)
		}(svc)
	}

	sc.ticker = time.NewTicker(Tick)
	sc.wg.Add(1)
	go func() {
		defer sc.wg.Done()
		for {
			select {
			case <-sc.ticker.C:
				sc.onTick()
			case <-sc.stopCh:
				return
			}
		}
	}()
}

func (sc *Scheduler) onTick() {
	t := atomic.AddUint64(&sc.tick, 1)
	for _, svc := range sc.services {
		if svc.Period > 0 && t%svc.Period == 0 {
			svc.release()
		}
	}
}

// Stop disarms the timer and releases every service once to unblock
// workers waiting on their semaphore, then waits for all goroutines to
// exit.
func (sc *Scheduler) Stop() {
	if sc.ticker != nil {
		sc.ticker.Stop()
	}
	if sc.stopCh != nil {
		close(sc.stopCh)
	}
	for _, svc := range sc.services {
		svc.stop()
	}
	sc.wg.Wait()
}
