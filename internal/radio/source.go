// Package radio implements RadioSource: a thin façade over the SDR
// hardware boundary. This system's lineage never links librtlsdr
// directly from Go — every Go repo in its corpus instead drives an
// `rtl_*`-family executable as a subprocess — so Source does the same,
// translating the construction/tune/read contract into CLI flags and a
// stdout byte stream.
package radio

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// DefaultSampleRate is the acquisition rate requested when
// Config.SampleRate is zero: 2,000,000 samples/second.
const DefaultSampleRate = 2_000_000

// NoDevice is returned when the subprocess cannot be started, modelling
// a fatal device-open failure.
type NoDevice struct{ Err error }

func (e *NoDevice) Error() string { return fmt.Sprintf("radio: no device: %v", e.Err) }
func (e *NoDevice) Unwrap() error { return e.Err }

// Config describes how to invoke the backing SDR subprocess.
type Config struct {
	BinPath     string // path to an rtl_sdr-family executable
	DeviceIndex int
	SampleRate  uint32
	MaxGain     bool // true disables AGC and requests the tuner's maximum gain
}

// Source is a blocking, synchronous, single-shared-device radio
// reader. It is not safe for concurrent Tune/Read calls: the Reader
// service must serialise its ADS-B and ACARS reads through one Source.
type Source struct {
	cfg Config

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	reader  *bufio.Reader
	curFreq uint32
}

// Open spawns the backing subprocess at the device index in cfg and at
// cfg.SampleRate (DefaultSampleRate when zero), requesting maximum gain
// with AGC disabled only when cfg.MaxGain is set. Failure
// to start the subprocess is fatal (*NoDevice) — the scheduler has not
// started yet, so the caller should abort the process.
func Open(cfg Config) (*Source, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.BinPath == "" {
		cfg.BinPath = "rtl_sdr"
	}

	s := &Source{cfg: cfg}
	if err := s.spawn(0); err != nil {
		return nil, &NoDevice{Err: err}
	}
	return s, nil
}

func (s *Source) args(freqHz uint32) []string {
	args := []string{
		"-d", fmt.Sprint(s.cfg.DeviceIndex),
		"-s", fmt.Sprint(s.cfg.SampleRate),
		"-f", fmt.Sprint(freqHz),
	}
	if s.cfg.MaxGain {
		args = append(args, "-g", "max", "-a", "off")
	}
	args = append(args, "-") // stream raw samples to stdout
	return args
}

func (s *Source) spawn(freqHz uint32) error {
	cmd := exec.Command(s.cfg.BinPath, s.args(freqHz)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	s.cmd = cmd
	s.stdout = stdout
	s.reader = bufio.NewReaderSize(stdout, 1<<20)
	s.curFreq = freqHz
	return nil
}

// Tune retunes the device to freqHz. Because the subprocess boundary
// has no live retune control, retuning restarts the subprocess at the
// new centre frequency; this is still synchronous from the caller's
// perspective.
func (s *Source) Tune(freqHz uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.curFreq == freqHz {
		return nil
	}
	s.killLocked()
	return s.spawn(freqHz)
}

// Read performs one blocking synchronous read, tuning to freqHz first
// if it differs from the last tuned frequency, and returns the number
// of bytes read into dst or an error.
func (s *Source) Read(freqHz uint32, dst []byte) (int, error) {
	if err := s.Tune(freqHz); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := io.ReadFull(s.reader, dst)
	if err == io.ErrUnexpectedEOF {
		return n, nil
	}
	return n, err
}

func (s *Source) killLocked() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}
}

// Close terminates the backing subprocess.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.killLocked()
	return nil
}
