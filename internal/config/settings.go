package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Settings holds the tunable input-pipeline parameters.
type Settings struct {
	Capture     CaptureSettings     `toml:"capture"`
	Focus       FocusSettings       `toml:"focus"`
	Pointer     PointerSettings     `toml:"pointer"`
	Composition CompositionSettings `toml:"composition"`
}

// CaptureSettings configures the pointer capture manager.
type CaptureSettings struct {
	// TimeoutMS is the capture age limit enforced by the expiry sweep, in
	// milliseconds. Zero disables expiry.
	TimeoutMS int `toml:"timeout_ms"`

	// NestedCapture allows re-capturing an already captured pointer.
	NestedCapture bool `toml:"nested_capture"`
}

// Timeout returns the capture timeout as a duration.
func (c CaptureSettings) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// FocusSettings configures tab navigation.
type FocusSettings struct {
	// TabWraps makes Tab from the last stop wrap to the first.
	TabWraps bool `toml:"tab_wraps"`
}

// PointerSettings configures pointer event interpretation.
type PointerSettings struct {
	// MultiPressIntervalMS is the window for double/triple press
	// detection, in milliseconds.
	MultiPressIntervalMS int `toml:"multi_press_interval_ms"`
}

// MultiPressInterval returns the multi-press window as a duration.
func (p PointerSettings) MultiPressInterval() time.Duration {
	return time.Duration(p.MultiPressIntervalMS) * time.Millisecond
}

// CompositionSettings configures the IME composition engine.
type CompositionSettings struct {
	// Enabled toggles composition support.
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Capture: CaptureSettings{
			TimeoutMS:     30000,
			NestedCapture: false,
		},
		Focus: FocusSettings{
			TabWraps: true,
		},
		Pointer: PointerSettings{
			MultiPressIntervalMS: 400,
		},
		Composition: CompositionSettings{
			Enabled: true,
		},
	}
}

// Validate checks the settings for out-of-range values.
func (s Settings) Validate() error {
	if s.Capture.TimeoutMS < 0 {
		return fmt.Errorf("capture.timeout_ms must be >= 0, got %d", s.Capture.TimeoutMS)
	}
	if s.Pointer.MultiPressIntervalMS < 0 {
		return fmt.Errorf("pointer.multi_press_interval_ms must be >= 0, got %d", s.Pointer.MultiPressIntervalMS)
	}
	return nil
}

// Load reads settings from a TOML file, applying the file's values over
// the defaults. A missing file is not an error; the defaults are returned.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes TOML data over the defaults. The source name is used in
// error messages only.
func Parse(source string, data []byte) (Settings, error) {
	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	if err := s.Validate(); err != nil {
		return Default(), &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return s, nil
}

// ParseError reports invalid configuration content.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
