// Package acars implements the VHF channel-placement algorithm used to
// pick a single wideband centre frequency covering several ACARS
// channels, and owns the per-service channel configuration.
package acars

import "sort"

// IntRate is the ACARS channel spacing, in Hz.
const IntRate = 12500

// MaxChannels bounds how many channels a single centre frequency serves.
const MaxChannels = 3

// DefaultChannelsHz are the three VHF ACARS channels this system tunes
// by default, in Hz.
var DefaultChannelsHz = [MaxChannels]uint32{131475000, 131550000, 131725000}

// Context owns the channel set and resolved centre frequency for the
// ACARS decoder service. It is never a global: the Reader is handed a
// *Context explicitly, matching this system's no-global-context design note.
type Context struct {
	Channels []uint32 // desired channel frequencies, Hz
	InRate   uint32    // wideband input sample rate, Hz
	Centre   uint32
}

// NewContext rounds each channel to the nearest IntRate multiple and
// resolves the shared centre frequency via ChooseFc.
func NewContext(channelsHz []uint32, inRate uint32) (*Context, error) {
	rounded := make([]uint32, len(channelsHz))
	for i, f := range channelsHz {
		rounded[i] = roundToIntRate(f)
	}

	fc, err := ChooseFc(rounded, inRate)
	if err != nil {
		return nil, err
	}

	return &Context{Channels: rounded, InRate: inRate, Centre: fc}, nil
}

func roundToIntRate(f uint32) uint32 {
	return uint32((int64(f)+IntRate/2)/IntRate) * IntRate
}

// ErrTooFarApart is returned when the requested channel set cannot be
// covered by any single centre frequency at the given input rate.
type ErrTooFarApart struct {
	Span, MaxSpan uint32
}

func (e *ErrTooFarApart) Error() string {
	return "acars: requested frequencies too far apart for one centre frequency"
}

// ChooseFc searches for a centre frequency Fc such that every channel in
// Fd is far enough from the edge of the band, far enough from Fc to
// avoid its own image, and not equidistant from Fc with any other channel
// (equidistant channels would alias onto each other after downmixing).
// Fd itself is left unchanged; the search works on a sorted copy.
func ChooseFc(fd []uint32, inRate uint32) (uint32, error) {
	sorted := append([]uint32(nil), fd...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := len(sorted)
	if n == 0 {
		return 0, &ErrTooFarApart{}
	}

	span := sorted[n-1] - sorted[0]
	maxSpan := inRate - 4*IntRate
	if span > maxSpan {
		return 0, &ErrTooFarApart{Span: span, MaxSpan: maxSpan}
	}

	low := int64(sorted[0]) - 2*IntRate
	high := int64(sorted[n-1]) + 2*IntRate

	for fc := high; fc > low; fc-- {
		ok := true
		for i, f := range sorted {
			d := fc - int64(f)
			if d < 0 {
				d = -d
			}
			if d >= int64(inRate)/2-2*IntRate {
				ok = false
				break
			}
			if d < 2*IntRate {
				ok = false
				break
			}
			for _, g := range sorted[:i] {
				other := fc - int64(g)
				if other < 0 {
					other = -other
				}
				if other == d {
					ok = false
					break
				}
			}
			if !ok {
				break
			}
		}
		if ok {
			return uint32(fc), nil
		}
	}

	return 0, &ErrTooFarApart{Span: span, MaxSpan: maxSpan}
}
