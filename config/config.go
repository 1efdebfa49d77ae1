package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// DirEnv overrides the config directory.
const DirEnv = "GROOVE_CONFIG_DIR"

// Backend selects where strikes go
type Backend string

const (
	BackendSynth Backend = "synth"
	BackendMIDI  Backend = "midi"
)

// AudioConfig tunes the internal synth and the scheduler timing
type AudioConfig struct {
	SampleRate  int     `json:"sampleRate,omitempty"`
	IntervalMS  int     `json:"intervalMs,omitempty"`  // scheduler wake-up
	LookaheadMS int     `json:"lookaheadMs,omitempty"` // scheduling window
	LeadMS      int     `json:"leadMs,omitempty"`      // delay before the first note
	Backend     Backend `json:"backend,omitempty"`
}

// MIDIConfig defines the external drum machine output
type MIDIConfig struct {
	PortName string `json:"portName,omitempty"`
	Kit      string `json:"kit,omitempty"`
	Channel  int    `json:"channel,omitempty"` // 1-16
}

// UIConfig stores UI preferences
type UIConfig struct {
	LastTempo   int    `json:"lastTempo,omitempty"`
	Loop        bool   `json:"loop"`
	Palette     string `json:"palette,omitempty"`
	LastPattern string `json:"lastPattern,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Audio    AudioConfig `json:"audio"`
	MIDI     MIDIConfig  `json:"midi,omitempty"`
	UI       UIConfig    `json:"ui"`
	Patterns []string    `json:"patterns,omitempty"` // extra pattern files
	Debug    bool        `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:  44100,
			IntervalMS:  25,
			LookaheadMS: 100,
			LeadMS:      100,
			Backend:     BackendSynth,
		},
		MIDI: MIDIConfig{
			Kit:     "gm",
			Channel: 10,
		},
		UI: UIConfig{
			LastTempo: 120,
			Loop:      true,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-groove"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file over the defaults. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fault.Wrap(err, fmsg.With("read config"))
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("parse %s", path)), ftag.With(ftag.InvalidArgument))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// write then rename so readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Validate rejects values the audio and MIDI layers cannot use.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fault.Wrap(fault.New("invalid config"),
			fmsg.With(fmt.Sprintf(format, args...)),
			ftag.With(ftag.InvalidArgument))
	}
	switch {
	case c.Audio.SampleRate < 0:
		return bad("sample rate %d", c.Audio.SampleRate)
	case c.Audio.IntervalMS < 0, c.Audio.LookaheadMS < 0, c.Audio.LeadMS < 0:
		return bad("negative timing (interval %d, lookahead %d, lead %d)",
			c.Audio.IntervalMS, c.Audio.LookaheadMS, c.Audio.LeadMS)
	case c.Audio.Backend != "" && c.Audio.Backend != BackendSynth && c.Audio.Backend != BackendMIDI:
		return bad("backend %q", c.Audio.Backend)
	case c.MIDI.Channel < 0 || c.MIDI.Channel > 16:
		return bad("midi channel %d", c.MIDI.Channel)
	case c.UI.LastTempo < 0:
		return bad("tempo %d", c.UI.LastTempo)
	}
	return nil
}

// Interval returns the scheduler wake-up period
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Audio.IntervalMS) * time.Millisecond
}

// Lookahead returns the scheduling window in seconds
func (c *Config) Lookahead() float64 {
	return float64(c.Audio.LookaheadMS) / 1000
}

// Lead returns the start delay in seconds
func (c *Config) Lead() float64 {
	return float64(c.Audio.LeadMS) / 1000
}

// MIDIChannel returns the zero-based output channel (GM drums by default)
func (c *Config) MIDIChannel() uint8 {
	if c.MIDI.Channel < 1 || c.MIDI.Channel > 16 {
		return 9
	}
	return uint8(c.MIDI.Channel - 1)
}

// UseMIDI reports whether strikes should go to an external port
func (c *Config) UseMIDI() bool {
	return c.Audio.Backend == BackendMIDI && c.MIDI.PortName != ""
}
