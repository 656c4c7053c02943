// Package render draws an AircraftRegistry snapshot onto a fixed-bounds
// raster map, the system's external Renderer collaborator.
package render

// Bounds is the fixed geographic raster the map renders. Coordinates
// outside it are still projected (no clamping) so callers can decide
// whether to draw off-screen.
type Bounds struct {
	TopLat, BottomLat float64
	LeftLon, RightLon float64
}

// DefaultBounds matches this system's reference coverage area.
var DefaultBounds = Bounds{
	TopLat: 49.5, BottomLat: 49.0,
	LeftLon: -123.3, RightLon: -122.5,
}

// Point is a pixel position.
type Point struct{ X, Y float64 }

// LatLon is a geographic position in degrees.
type LatLon struct{ Lat, Lon float64 }

// LatLonToPixel projects a geographic position onto a width x height
// raster using Bounds, linearly.
func (b Bounds) LatLonToPixel(p LatLon, width, height float64) Point {
	x := (p.Lon - b.LeftLon) / (b.RightLon - b.LeftLon) * width
	y := (b.TopLat - p.Lat) / (b.TopLat - b.BottomLat) * height
	return Point{X: x, Y: y}
}

// PixelToLatLon is the inverse projection, used only to round-trip a
// projected point back to geographic coordinates in tests.
func (b Bounds) PixelToLatLon(p Point, width, height float64) LatLon {
	lon := p.X/width*(b.RightLon-b.LeftLon) + b.LeftLon
	lat := b.TopLat - p.Y/height*(b.TopLat-b.BottomLat)
	return LatLon{Lat: lat, Lon: lon}
}
