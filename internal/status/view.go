// Package status renders a live terminal dashboard of registry and
// scheduler state, adapted from this system's lineage's gocui status
// screen.
package status

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jroimartin/gocui"

	"modesd/internal/registry"
	"modesd/internal/sched"
)

// Sources is what the status view reads each refresh. It is a narrow
// view over the running daemon rather than the daemon itself, so the
// view package never depends on radio/acars/config.
type Sources struct {
	Registry  *registry.Registry
	Scheduler *sched.Scheduler
}

// View owns the gocui terminal UI.
type View struct {
	gui     *gocui.Gui
	sources Sources
}

// New opens the terminal UI. Call Run to start its main loop and
// Close to tear it down.
func New(sources Sources) (*View, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("status: new gui: %w", err)
	}

	v := &View{gui: g, sources: sources}
	g.SetManagerFunc(v.layout)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		g.Close()
		return nil, fmt.Errorf("status: keybinding: %w", err)
	}

	return v, nil
}

// Run blocks refreshing the dashboard once per second until the UI
// quits (Ctrl-C) or ctx is cancelled.
func (v *View) Run(ctx context.Context) error {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				v.gui.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
				return
			case <-ticker.C:
				v.gui.Update(v.refresh)
			}
		}
	}()

	if err := v.gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// Close releases the terminal.
func (v *View) Close() {
	v.gui.Close()
}

func (v *View) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if sv, err := g.SetView("status", 0, 0, maxX-1, 2); err == nil || err == gocui.ErrUnknownView {
		if sv != nil {
			sv.Title = " STATUS "
			fmt.Fprintln(sv, " A/C: --  LAST UPDATE: 0000-00-00 00:00:00")
		}
	}

	if lv, err := g.SetView("list", 0, 3, maxX-1, maxY/2-1); err == nil || err == gocui.ErrUnknownView {
		if lv != nil {
			lv.Title = " A/C "
		}
	}

	if sc, err := g.SetView("sched", 0, maxY/2, maxX-1, maxY-1); err == nil || err == gocui.ErrUnknownView {
		if sc != nil {
			sc.Title = " SCHEDULER "
		}
	}

	return nil
}

func (v *View) refresh(g *gocui.Gui) error {
	if err := v.refreshStatus(g); err != nil {
		return err
	}
	if err := v.refreshList(g); err != nil {
		return err
	}
	return v.refreshScheduler(g)
}

func (v *View) refreshStatus(g *gocui.Gui) error {
	sv, err := g.View("status")
	if err != nil {
		return nil
	}
	sv.Clear()
	fmt.Fprintf(sv, " A/C: %02d  LAST UPDATE: %s\n",
		v.sources.Registry.Count(), time.Now().Format("2006-01-02 15:04:05"))
	return nil
}

func (v *View) refreshList(g *gocui.Gui) error {
	lv, err := g.View("list")
	if err != nil {
		return nil
	}
	lv.Clear()

	fmt.Fprintln(lv, " ICAO ADDR    FLIGHT     ALT    SPD    HDG     LAT     LON  SEEN")
	fmt.Fprintln(lv, " ===================================================================")

	snapshot := v.sources.Registry.Snapshot()
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].Addr < snapshot[j].Addr })

	for _, ac := range snapshot {
		fmt.Fprintf(lv, " %6s       %9s  %-5d  %-5d  %-3d  %6.2f  %6.2f  %s\n",
			ac.HexAddr, ac.Flight, ac.Altitude, ac.Speed, ac.Track,
			ac.Lat, ac.Lon, ac.Seen.Format("15:04:05"))
	}

	return nil
}

func (v *View) refreshScheduler(g *gocui.Gui) error {
	sc, err := g.View("sched")
	if err != nil {
		return nil
	}
	sc.Clear()

	fmt.Fprintln(sc, " SERVICE        MIN        MAX        AVG      COUNT  MISSED")
	fmt.Fprintln(sc, " ===================================================================")

	for _, svc := range v.sources.Scheduler.Services() {
		stats := svc.Stats()
		fmt.Fprintf(sc, " %-12s  %9s  %9s  %9s  %9d  %6d\n",
			svc.Name, stats.Min, stats.Max, stats.Avg, stats.Count, svc.Missed())
	}

	return nil
}

func quit(*gocui.Gui, *gocui.View) error {
	return gocui.ErrQuit
}
