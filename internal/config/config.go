// Package config loads modesd's layered configuration: a TOML file
// found in the working directory or /etc/modesd, overridable by
// MODESD_-prefixed environment variables, following this system's
// lineage's viper-based loader. Command-line flags do not override it.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServiceConfig is one scheduler service's tunables.
type ServiceConfig struct {
	Affinity int
	Priority int
	Period   uint64
}

// Config carries every tunable this daemon exposes.
type Config struct {
	RadioBinPath    string
	DeviceIndex     int
	SampleRate      uint32
	GainMode        string // "max" (AGC off, max tuner gain) or "auto"
	ADSBFreqHz      uint32
	AcarsChannelsHz []uint32
	AcarsInputRate  uint32

	ADSBPoolCapacity  int
	AcarsPoolCapacity int

	AircraftTTL time.Duration

	// RendererBackend selects the map-rendering front end: "none"
	// (disabled) or "sdl". MapWidth/MapHeight size its window.
	RendererBackend     string
	MapWidth, MapHeight int32

	MetricsAddr string // empty disables the metrics listener

	LogLevel  string
	LogFormat string

	Services map[string]ServiceConfig
}

// Default returns the configuration this system falls back to when no
// config file is present, matching the defensive default pattern of
// this system's lineage's config loader.
func Default() Config {
	return Config{
		RadioBinPath:      "rtl_sdr",
		DeviceIndex:       0,
		SampleRate:        2_000_000,
		GainMode:          "max",
		ADSBFreqHz:        1_090_000_000,
		AcarsChannelsHz:   []uint32{131_475_000, 131_550_000, 131_725_000},
		AcarsInputRate:    12_500 * 160,
		ADSBPoolCapacity:  100,
		AcarsPoolCapacity: 100,
		AircraftTTL:       60 * time.Second,
		RendererBackend:   "none",
		MapWidth:          800,
		MapHeight:         600,
		MetricsAddr:       "",
		LogLevel:          "info",
		LogFormat:         "text",
		Services: map[string]ServiceConfig{
			"reader":      {Affinity: 2, Priority: 99, Period: 300},
			"processAdsb": {Affinity: 1, Priority: 99, Period: 140},
			"processAcars": {Affinity: 1, Priority: 98, Period: 150},
		},
	}
}

// Load reads modesd.toml from the working directory or /etc/modesd,
// layering MODESD_-prefixed environment variables on top, and returns
// Default() with any present scalar values overridden. AcarsChannelsHz
// and Services are not read from the file or the environment; they
// always keep their Default() values. A missing config file is not an
// error: Default() alone is a usable configuration.
func Load() (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("modesd")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/modesd")

	v.SetEnvPrefix("MODESD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
	}

	cfg.RadioBinPath = v.GetString("radio.bin_path")
	cfg.DeviceIndex = v.GetInt("radio.device_index")
	cfg.SampleRate = uint32(v.GetInt("radio.sample_rate"))
	cfg.GainMode = v.GetString("radio.gain_mode")
	cfg.ADSBFreqHz = uint32(v.GetInt("radio.adsb_freq_hz"))
	cfg.AcarsInputRate = uint32(v.GetInt("acars.input_rate"))
	cfg.ADSBPoolCapacity = v.GetInt("buffers.adsb_capacity")
	cfg.AcarsPoolCapacity = v.GetInt("buffers.acars_capacity")
	cfg.AircraftTTL = v.GetDuration("registry.ttl")
	cfg.RendererBackend = v.GetString("render.backend")
	cfg.MapWidth = int32(v.GetInt("map.width"))
	cfg.MapHeight = int32(v.GetInt("map.height"))
	cfg.MetricsAddr = v.GetString("metrics.addr")
	cfg.LogLevel = v.GetString("log.level")
	cfg.LogFormat = v.GetString("log.format")

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("radio.bin_path", cfg.RadioBinPath)
	v.SetDefault("radio.device_index", cfg.DeviceIndex)
	v.SetDefault("radio.sample_rate", cfg.SampleRate)
	v.SetDefault("radio.gain_mode", cfg.GainMode)
	v.SetDefault("radio.adsb_freq_hz", cfg.ADSBFreqHz)
	v.SetDefault("acars.input_rate", cfg.AcarsInputRate)
	v.SetDefault("buffers.adsb_capacity", cfg.ADSBPoolCapacity)
	v.SetDefault("buffers.acars_capacity", cfg.AcarsPoolCapacity)
	v.SetDefault("registry.ttl", cfg.AircraftTTL)
	v.SetDefault("render.backend", cfg.RendererBackend)
	v.SetDefault("map.width", cfg.MapWidth)
	v.SetDefault("map.height", cfg.MapHeight)
	v.SetDefault("metrics.addr", cfg.MetricsAddr)
	v.SetDefault("log.level", cfg.LogLevel)
	v.SetDefault("log.format", cfg.LogFormat)
}
