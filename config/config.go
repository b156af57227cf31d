package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go-clockwork/engine"
)

// MIDIConfig defines the MIDI collaborators
type MIDIConfig struct {
	OutputPort string `json:"outputPort,omitempty"` // clock/gate/CC destination
	InputPort  string `json:"inputPort,omitempty"`  // transport + CC source
	CVControl  int    `json:"cvControl,omitempty"`  // CC number sampled as the external voltage
}

// UIConfig stores terminal UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"` // path to a GPL palette file
}

// Config is the main configuration structure
type Config struct {
	MIDI  MIDIConfig `json:"midi,omitempty"`
	UI    UIConfig   `json:"ui,omitempty"`
	Debug bool       `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MIDI: MIDIConfig{CVControl: 1}, // mod wheel
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "clockwork"), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// statePath is where committed engine settings persist between runs
func statePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.json"), nil
}

// LoadState reads the persisted engine settings, or fresh defaults if
// none were saved yet. A corrupt file falls back to defaults rather than
// failing startup.
func LoadState() *engine.State {
	s := engine.NewState()

	path, err := statePath()
	if err != nil {
		return s
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, s); err != nil {
		return engine.NewState()
	}
	s.Clamp()
	return s
}

// SaveState persists the engine settings. Called after every committed
// menu edit.
func SaveState(s engine.State) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := statePath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(&s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
