package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"modesd/internal/acars"
	"modesd/internal/bufio"
	"modesd/internal/config"
	"modesd/internal/dsp"
	"modesd/internal/logging"
	"modesd/internal/metrics"
	"modesd/internal/modes"
	"modesd/internal/radio"
	"modesd/internal/registry"
	"modesd/internal/render"
	"modesd/internal/sched"
	"modesd/internal/status"
)

// renderInterval is how often the map front end polls the registry,
// independent of the scheduler's tick rate.
const renderInterval = time.Second

func newRunCmd() *cobra.Command {
	var noUI bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "start the decoder daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(noUI)
		},
	}

	cmd.Flags().BoolVar(&noUI, "no-ui", false, "disable the terminal status view")
	return cmd
}

// daemon bundles every long-lived collaborator the run command wires
// together, so shutdown can unwind them in reverse construction order.
type daemon struct {
	cfg config.Config
	log *logrus.Logger

	source *radio.Source
	acars  *acars.Context

	adsbPool  *bufio.Pool
	acarsPool *bufio.Pool

	magnitude *dsp.Table
	detector  *modes.Detector
	decoder   *modes.Decoder
	registry  *registry.Registry

	scheduler *sched.Scheduler
	view      *status.View
	renderer  render.Renderer

	magOut []uint16
}

func run(noUI bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	entry := logging.Component(log, "main")

	d := &daemon{
		cfg:       cfg,
		log:       log,
		adsbPool:  bufio.NewPool(cfg.ADSBPoolCapacity),
		acarsPool: bufio.NewPool(cfg.AcarsPoolCapacity),
		magnitude: dsp.NewTable(),
		detector:  modes.NewDetector(),
		decoder:   modes.NewDecoder(),
		registry:  registry.New(cfg.AircraftTTL),
	}

	d.source, err = radio.Open(radio.Config{
		BinPath:     cfg.RadioBinPath,
		DeviceIndex: cfg.DeviceIndex,
		SampleRate:  cfg.SampleRate,
		MaxGain:     cfg.GainMode == "max",
	})
	if err != nil {
		entry.WithError(err).Error("radio: could not open device")
		return err
	}
	defer d.source.Close()

	if len(cfg.AcarsChannelsHz) > 0 {
		d.acars, err = acars.NewContext(cfg.AcarsChannelsHz, cfg.AcarsInputRate)
		if err != nil {
			entry.WithError(err).Warn("acars: channel placement failed, ACARS reads disabled")
		}
	}

	d.scheduler = sched.New(logging.Component(log, "sched"))
	d.registerServices()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d.scheduler.Start(ctx)
	defer d.scheduler.Stop()

	if err := d.openRenderer(); err != nil {
		entry.WithError(err).Warn("render: backend unavailable, map disabled")
	}
	if d.renderer != nil {
		defer d.renderer.Close()
		go d.runRenderer(ctx)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			entry.WithField("addr", cfg.MetricsAddr).Info("metrics: listening")
			mux := newMetricsMux()
			if err := serveMetrics(cfg.MetricsAddr, mux); err != nil {
				entry.WithError(err).Warn("metrics: listener stopped")
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if noUI {
		<-sigCh
		entry.Info("shutting down")
		d.registry.Print(os.Stdout)
		return nil
	}

	return d.runUI(ctx, cancel, sigCh)
}

func (d *daemon) runUI(ctx context.Context, cancel context.CancelFunc, sigCh <-chan os.Signal) error {
	view, err := status.New(status.Sources{Registry: d.registry, Scheduler: d.scheduler})
	if err != nil {
		return err
	}
	d.view = view
	defer view.Close()

	go func() {
		<-sigCh
		cancel()
	}()

	return view.Run(ctx)
}

// openRenderer constructs the configured map backend, if any. A "none"
// backend (the default) leaves d.renderer nil and is not an error.
func (d *daemon) openRenderer() error {
	switch d.cfg.RendererBackend {
	case "", "none":
		return nil
	case "sdl":
		r, err := render.NewSDLRenderer(render.DefaultBounds, d.cfg.MapWidth, d.cfg.MapHeight, "modesd")
		if err != nil {
			return err
		}
		d.renderer = r
		return nil
	default:
		return fmt.Errorf("render: unknown backend %q", d.cfg.RendererBackend)
	}
}

// runRenderer polls the registry and draws one frame per renderInterval.
// It runs on its own goroutine driven by a plain ticker, independent of
// the scheduler, exactly as the map front end is meant to operate.
func (d *daemon) runRenderer(ctx context.Context) {
	log := logging.Component(d.log, "render")
	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.renderer.Draw(d.registry.Snapshot()); err != nil {
				log.WithError(err).Warn("render: draw failed, stopping map updates")
				return
			}
		}
	}
}

// registerServices wires the periodic workloads this daemon runs: the
// shared-device reader, the ADS-B decode/registry pipeline, the ACARS
// pool drain (registered only when channel placement succeeded; it
// decodes no ACARS frames), and a registry sweep every 60000 ticks.
func (d *daemon) registerServices() {
	svcCfg := d.cfg.Services

	reader := svcCfg["reader"]
	d.scheduler.AddService("reader", reader.Affinity, reader.Priority, reader.Period, d.readerTick)

	adsb := svcCfg["processAdsb"]
	d.scheduler.AddService("processAdsb", adsb.Affinity, adsb.Priority, adsb.Period, d.processAdsbTick)

	if d.acars != nil {
		acarsSvc := svcCfg["processAcars"]
		d.scheduler.AddService("processAcars", acarsSvc.Affinity, acarsSvc.Priority, acarsSvc.Period, d.processAcarsTick)
	}

	d.scheduler.AddService("sweep", 0, 0, 60000, d.sweepTick)
}

// readerTick performs one blocking read per configured frequency,
// serialised through the single shared Source exactly as its
// documentation requires. A read error is logged and the current
// buffer is left unpublished; the scheduler keeps running.
func (d *daemon) readerTick(ctx context.Context) {
	log := logging.Component(d.log, "reader")

	if buf := d.adsbPool.AcquireHead(); buf != nil {
		n, err := d.source.Read(d.cfg.ADSBFreqHz, buf.Data[:])
		if err != nil {
			log.WithError(err).Warn("radio: ADS-B read failed")
			return
		}
		buf.Filled = n
		d.adsbPool.Publish()
	}

	if d.acars != nil {
		if buf := d.acarsPool.AcquireHead(); buf != nil {
			n, err := d.source.Read(d.acars.Centre, buf.Data[:])
			if err != nil {
				log.WithError(err).Warn("radio: ACARS read failed")
				return
			}
			buf.Filled = n
			d.acarsPool.Publish()
		}
	}
}

func (d *daemon) processAdsbTick(ctx context.Context) {
	buf := d.adsbPool.PeekTail()
	if buf == nil {
		return
	}
	defer d.adsbPool.Release()

	d.magOut = d.magnitude.Transform(buf.Data[:buf.Filled], d.magOut)

	for _, det := range d.detector.Scan(d.magOut) {
		var mm modes.Message
		d.decoder.Decode(&mm, det.Msg)
		mm.PhaseCorrected = det.PhaseCorrected
		d.registry.Upsert(&mm)
	}

	metrics.SetRegistrySize(d.registry.Count())
}

// processAcarsTick drains the ACARS pool without decoding frames: each
// call releases at most one filled buffer, unread, so the Reader can
// keep publishing ACARS samples.
func (d *daemon) processAcarsTick(ctx context.Context) {
	if buf := d.acarsPool.PeekTail(); buf != nil {
		d.acarsPool.Release()
	}
}

func (d *daemon) sweepTick(ctx context.Context) {
	d.registry.Sweep(time.Now())
}
