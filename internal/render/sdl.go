package render

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"modesd/internal/registry"
)

// IconScale mirrors the reference plotter's aircraft icon size relative
// to the window.
const IconScale = 0.03

// SDLRenderer is the reference Renderer implementation, drawing icons
// onto an SDL2 window at fixed geographic bounds.
type SDLRenderer struct {
	bounds        Bounds
	window        *sdl.Window
	surface       *sdl.Renderer
	width, height int32
}

// NewSDLRenderer opens an SDL2 window of the given size and prepares it
// for drawing within bounds.
func NewSDLRenderer(bounds Bounds, width, height int32, title string) (*SDLRenderer, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("render: sdl init: %w", err)
	}

	win, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		width, height, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("render: create window: %w", err)
	}

	rend, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("render: create renderer: %w", err)
	}

	return &SDLRenderer{bounds: bounds, window: win, surface: rend, width: width, height: height}, nil
}

// Draw clears the window and draws one square icon per aircraft with a
// resolved position, skipping aircraft with lat==0 && lon==0 exactly as
// this system's reference plotter does.
func (r *SDLRenderer) Draw(snapshot []registry.Aircraft) error {
	if err := r.surface.SetDrawColor(0, 0, 0, 255); err != nil {
		return err
	}
	if err := r.surface.Clear(); err != nil {
		return err
	}

	if err := r.surface.SetDrawColor(0, 255, 0, 255); err != nil {
		return err
	}

	iconSize := int32(float64(r.width) * IconScale)
	if iconSize < 2 {
		iconSize = 2
	}

	for _, a := range snapshot {
		if !a.HasFix() {
			continue
		}
		p := r.bounds.LatLonToPixel(LatLon{Lat: a.Lat, Lon: a.Lon}, float64(r.width), float64(r.height))
		rect := sdl.Rect{X: int32(p.X) - iconSize/2, Y: int32(p.Y) - iconSize/2, W: iconSize, H: iconSize}
		if err := r.surface.FillRect(&rect); err != nil {
			return err
		}
	}

	r.surface.Present()
	return nil
}

// Close destroys the SDL window/renderer and shuts down SDL.
func (r *SDLRenderer) Close() error {
	if r.surface != nil {
		r.surface.Destroy()
	}
	if r.window != nil {
		r.window.Destroy()
	}
	sdl.Quit()
	return nil
}
