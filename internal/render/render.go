package render

import "modesd/internal/registry"

// Renderer is the external map-rendering collaborator: it
// consumes a registry snapshot and draws an icon per aircraft with a
// resolved fix.
type Renderer interface {
	// Draw renders one frame from the given snapshot. Implementations
	// should skip aircraft with no fix (Lat==0 && Lon==0).
	Draw(snapshot []registry.Aircraft) error
	// Close releases any window/device resources.
	Close() error
}
