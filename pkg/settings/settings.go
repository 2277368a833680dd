// Package settings manages persistent user settings for the evpngen CLIs.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Built-in fallbacks used when neither a flag nor a setting is given.
const (
	DefaultDataModel    = "bgp_evpn_data_model.yml"
	DefaultTemplatesDir = "templates"
)

// Settings holds persistent user preferences
type Settings struct {
	// DataModel is the data model file used when -d is not specified
	DataModel string `json:"data_model,omitempty"`

	// TemplatesDir is the template directory used when -t is not specified
	TemplatesDir string `json:"templates_dir,omitempty"`

	// OutputDir is the output directory used when -o is not specified
	OutputDir string `json:"output_dir,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "evpngen_settings.json"
	}
	return filepath.Join(home, ".evpngen", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetDataModel returns the data model path (with fallback)
func (s *Settings) GetDataModel() string {
	if s.DataModel != "" {
		return s.DataModel
	}
	return DefaultDataModel
}

// GetTemplatesDir returns the templates directory (with fallback)
func (s *Settings) GetTemplatesDir() string {
	if s.TemplatesDir != "" {
		return s.TemplatesDir
	}
	return DefaultTemplatesDir
}

// fields maps setting keys to their storage.
func (s *Settings) fields() map[string]*string {
	return map[string]*string{
		"data_model":    &s.DataModel,
		"templates_dir": &s.TemplatesDir,
		"output_dir":    &s.OutputDir,
	}
}

// Keys returns the setting keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, 3)
	for k := range (&Settings{}).fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value stored under key.
func (s *Settings) Get(key string) (string, error) {
	p, ok := s.fields()[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q (valid: %v)", key, Keys())
	}
	return *p, nil
}

// Set stores value under key. An empty value clears the setting.
func (s *Settings) Set(key, value string) error {
	p, ok := s.fields()[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (valid: %v)", key, Keys())
	}
	*p = value
	return nil
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
