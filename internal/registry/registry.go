// Package registry tracks aircraft derived from decoded Mode S messages,
// resolving CPR position from consecutive odd/even report pairs.
package registry

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"modesd/internal/modes"
)

// DefaultTTL is the staleness timeout used when none is configured.
const DefaultTTL = 60 * time.Second

// cprPairWindow bounds how far apart an odd/even pair's timestamps may
// be for a position fix to be attempted.
const cprPairWindow = 10000 // milliseconds

// Aircraft is one tracked airframe, keyed externally by ICAO address.
type Aircraft struct {
	Addr     uint32
	HexAddr  string
	Flight   string
	Altitude int
	Speed    int
	Track    int
	Seen     time.Time
	Messages int64

	OddCPRLat, OddCPRLon   int
	EvenCPRLat, EvenCPRLon int
	OddCPRTime, EvenCPRTime int64

	Lat, Lon float64
}

func newAircraft(addr uint32) *Aircraft {
	return &Aircraft{
		Addr:    addr,
		HexAddr: fmt.Sprintf("%06X", addr),
		Seen:    time.Now(),
	}
}

// HasFix reports whether this aircraft has ever resolved a position.
func (a *Aircraft) HasFix() bool {
	return a.Lat != 0 || a.Lon != 0
}

func mstime() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// Registry is the ICAO-keyed aircraft table. It is mutated exclusively
// by the ADS-B decoder service and read by the renderer/status view
// through Snapshot.
type Registry struct {
	mu        sync.RWMutex
	aircrafts map[uint32]*Aircraft
	ttl       time.Duration
}

// New constructs an empty Registry with the given staleness timeout. A
// zero ttl selects DefaultTTL.
func New(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{aircrafts: make(map[uint32]*Aircraft), ttl: ttl}
}

// Upsert merges a CRC-valid decoded message into the registry, creating
// the Aircraft record on first sight. CRC-invalid messages are ignored.
func (r *Registry) Upsert(mm *modes.Message) *Aircraft {
	if !mm.CRCOK {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	addr := mm.ICAOAddress()
	a := r.aircrafts[addr]
	if a == nil {
		a = newAircraft(addr)
		r.aircrafts[addr] = a
	}

	a.Seen = time.Now()
	a.Messages++

	switch {
	case mm.DF == 0 || mm.DF == 4 || mm.DF == 20:
		a.Altitude = mm.Altitude
	case mm.DF == 17:
		switch {
		case mm.METype >= 1 && mm.METype <= 4:
			a.Flight = string(mm.Flight[:])
		case mm.METype >= 9 && mm.METype <= 18:
			a.Altitude = mm.Altitude
			if mm.FFlag != 0 {
				a.OddCPRLat = mm.RawLatitude
				a.OddCPRLon = mm.RawLongitude
				a.OddCPRTime = mstime()
			} else {
				a.EvenCPRLat = mm.RawLatitude
				a.EvenCPRLon = mm.RawLongitude
				a.EvenCPRTime = mstime()
			}
			if math.Abs(float64(a.EvenCPRTime-a.OddCPRTime)) <= cprPairWindow {
				decodeCPR(a)
			}
		case mm.METype == 19 && (mm.MESub == 1 || mm.MESub == 2):
			a.Speed = mm.Velocity
			a.Track = mm.Heading
		}
	}

	return a
}

// Sweep removes every aircraft whose last-seen age exceeds the
// registry's configured TTL, actually deleting the stale entries (this
// system's lineage computes the stale key list but never deletes it —
// fixed here).
func (r *Registry) Sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for addr, a := range r.aircrafts {
		if now.Sub(a.Seen) > r.ttl {
			delete(r.aircrafts, addr)
		}
	}
}

// Count returns the number of tracked aircraft.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.aircrafts)
}

// Snapshot returns a defensive copy of every tracked aircraft, safe to
// read without further locking while the registry continues to mutate.
func (r *Registry) Snapshot() []Aircraft {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Aircraft, 0, len(r.aircrafts))
	for _, a := range r.aircrafts {
		out = append(out, *a)
	}
	return out
}

// Print writes a one-line-per-aircraft trace to w, used on shutdown.
func (r *Registry) Print(w io.Writer) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.aircrafts {
		fmt.Fprintf(w, "%s : FLIGHT %s  ALT %d  LAT %.4f LON %.4f\n",
			a.HexAddr, a.Flight, a.Altitude, a.Lat, a.Lon)
	}
}
