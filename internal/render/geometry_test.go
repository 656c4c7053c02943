package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRoundTripWithinBounds(t *testing.T) {
	b := DefaultBounds
	const w, h = 800.0, 600.0

	rapid.Check(t, func(t *rapid.T) {
		lat := rapid.Float64Range(b.BottomLat, b.TopLat).Draw(t, "lat")
		lon := rapid.Float64Range(b.LeftLon, b.RightLon).Draw(t, "lon")

		p := b.LatLonToPixel(LatLon{Lat: lat, Lon: lon}, w, h)
		back := b.PixelToLatLon(p, w, h)

		if diff := back.Lat - lat; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("lat round-trip: got %v want %v", back.Lat, lat)
		}
		if diff := back.Lon - lon; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("lon round-trip: got %v want %v", back.Lon, lon)
		}
	})
}

func TestTopLeftCorner(t *testing.T) {
	b := DefaultBounds
	p := b.LatLonToPixel(LatLon{Lat: b.TopLat, Lon: b.LeftLon}, 100, 100)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
}
