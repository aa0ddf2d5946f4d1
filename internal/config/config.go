package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/elmterm/internal/app"
	"github.com/dshills/elmterm/internal/input"
	"github.com/dshills/elmterm/internal/renderer/backend"
)

// File holds the settings read from a configuration file.
type File struct {
	AltScreen        bool     `toml:"alt_screen" yaml:"alt_screen"`
	HideCursor       bool     `toml:"hide_cursor" yaml:"hide_cursor"`
	MouseMode        string   `toml:"mouse_mode" yaml:"mouse_mode"`
	FocusReporting   bool     `toml:"focus_reporting" yaml:"focus_reporting"`
	FPS              int      `toml:"fps" yaml:"fps"`
	QueueSize        int      `toml:"queue_size" yaml:"queue_size"`
	PollInterval     Duration `toml:"poll_interval" yaml:"poll_interval"`
	AmbiguityTimeout Duration `toml:"ambiguity_timeout" yaml:"ambiguity_timeout"`
	LogLevel         string   `toml:"log_level" yaml:"log_level"`
	LogFile          string   `toml:"log_file" yaml:"log_file"`
}

// Duration is a time.Duration written as a string such as "100ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in settings.
func Default() *File {
	return &File{
		MouseMode:        backend.MouseNone.String(),
		FPS:              60,
		QueueSize:        256,
		PollInterval:     Duration(100 * time.Millisecond),
		AmbiguityTimeout: Duration(input.DefaultAmbiguityTimeout),
		LogLevel:         "info",
	}
}

// Load reads path over the defaults and applies ELMTERM_* environment
// overrides. A missing file is not an error. An empty path skips the file.
func Load(path string) (*File, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(expandHome(path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := cfg.Decode(path, data); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode merges data into cfg. The format is chosen from the extension of
// path, which is also used in error messages.
func (cfg *File) Decode(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return decodeTOML(path, data, cfg)
	case ".yaml", ".yml":
		return decodeYAML(path, data, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func decodeTOML(path string, data []byte, cfg *File) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}

	perr := &ParseError{Path: path, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
	}
	return perr
}

func decodeYAML(path string, data []byte, cfg *File) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

// Validate checks every setting and returns all failures joined.
func (cfg *File) Validate() error {
	var errs []error

	if _, err := backend.ParseMouseMode(cfg.MouseMode); err != nil {
		errs = append(errs, &ValidationError{Key: "mouse_mode", Message: "expected none, normal, cell or all", Value: cfg.MouseMode})
	}
	if cfg.FPS < 0 {
		errs = append(errs, &ValidationError{Key: "fps", Message: "must not be negative", Value: cfg.FPS})
	}
	if cfg.QueueSize < 1 {
		errs = append(errs, &ValidationError{Key: "queue_size", Message: "must be at least 1", Value: cfg.QueueSize})
	}
	if cfg.PollInterval <= 0 {
		errs = append(errs, &ValidationError{Key: "poll_interval", Message: "must be positive", Value: time.Duration(cfg.PollInterval)})
	}
	if cfg.AmbiguityTimeout <= 0 {
		errs = append(errs, &ValidationError{Key: "ambiguity_timeout", Message: "must be positive", Value: time.Duration(cfg.AmbiguityTimeout)})
	}
	if !validLogLevel(cfg.LogLevel) {
		errs = append(errs, &ValidationError{Key: "log_level", Message: "expected debug, info, warn or error", Value: cfg.LogLevel})
	}

	return errors.Join(errs...)
}

func validLogLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Logger returns the logger settings.
func (cfg *File) Logger() app.LoggerConfig {
	return app.LoggerConfig{
		Level: app.ParseLogLevel(cfg.LogLevel),
		File:  expandHome(cfg.LogFile),
	}
}

// Options converts the settings to program options.
func (cfg *File) Options() ([]app.Option, error) {
	mouse, err := backend.ParseMouseMode(cfg.MouseMode)
	if err != nil {
		return nil, err
	}

	opts := []app.Option{
		app.WithMouseMode(mouse),
		app.WithFPS(cfg.FPS),
		app.WithQueueSize(cfg.QueueSize),
		app.WithPollInterval(time.Duration(cfg.PollInterval)),
		app.WithAmbiguityTimeout(time.Duration(cfg.AmbiguityTimeout)),
	}
	if cfg.AltScreen {
		opts = append(opts, app.WithAltScreen())
	}
	if cfg.HideCursor {
		opts = append(opts, app.WithHideCursor())
	}
	if cfg.FocusReporting {
		opts = append(opts, app.WithFocusReporting())
	}
	return opts, nil
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
