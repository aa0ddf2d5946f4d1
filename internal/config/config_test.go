package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/elmterm/internal/app"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, "none", cfg.MouseMode)
	assert.Equal(t, Duration(100*time.Millisecond), cfg.AmbiguityTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
alt_screen = true
mouse_mode = "cell"
fps = 30
poll_interval = "50ms"
log_level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.AltScreen)
	assert.Equal(t, "cell", cfg.MouseMode)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, Duration(50*time.Millisecond), cfg.PollInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched keys keep their defaults.
	assert.Equal(t, 256, cfg.QueueSize)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
hide_cursor: true
focus_reporting: true
mouse_mode: all
ambiguity_timeout: 25ms
queue_size: 64
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.HideCursor)
	assert.True(t, cfg.FocusReporting)
	assert.Equal(t, "all", cfg.MouseMode)
	assert.Equal(t, Duration(25*time.Millisecond), cfg.AmbiguityTimeout)
	assert.Equal(t, 64, cfg.QueueSize)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", "\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "unknown toml key",
			file:    "config.toml",
			content: "alt_scren = true\n",
			check: func(t *testing.T, err error) {
				var pe *ParseError
				assert.ErrorAs(t, err, &pe)
			},
		},
		{
			name:    "toml syntax",
			file:    "config.toml",
			content: "fps = = 3\n",
			check: func(t *testing.T, err error) {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, 1, pe.Line)
			},
		},
		{
			name:    "unknown yaml key",
			file:    "config.yaml",
			content: "mouse: all\n",
			check: func(t *testing.T, err error) {
				var pe *ParseError
				assert.ErrorAs(t, err, &pe)
			},
		},
		{
			name:    "bad duration",
			file:    "config.toml",
			content: `poll_interval = "soon"` + "\n",
			check: func(t *testing.T, err error) {
				var pe *ParseError
				assert.ErrorAs(t, err, &pe)
			},
		},
		{
			name:    "invalid values",
			file:    "config.toml",
			content: "fps = -1\nmouse_mode = \"wild\"\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidationFailed)
				assert.Contains(t, err.Error(), "fps")
				assert.Contains(t, err.Error(), "mouse_mode")
			},
		},
		{
			name:    "unsupported format",
			file:    "config.json",
			content: "{}",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*File)
		key    string
	}{
		{"queue size", func(c *File) { c.QueueSize = 0 }, "queue_size"},
		{"poll interval", func(c *File) { c.PollInterval = 0 }, "poll_interval"},
		{"ambiguity", func(c *File) { c.AmbiguityTimeout = -1 }, "ambiguity_timeout"},
		{"log level", func(c *File) { c.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.key, ve.Key)
		})
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.toml", "fps = 30\nalt_screen = false\n")
	t.Setenv("ELMTERM_FPS", "15")
	t.Setenv("ELMTERM_ALT_SCREEN", "yes")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.FPS)
	assert.True(t, cfg.AltScreen)
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("ELMTERM_QUEUE_SIZE", "lots")

	_, err := Load("")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "ELMTERM_QUEUE_SIZE", ve.Key)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.AltScreen = true
	cfg.HideCursor = true
	cfg.FocusReporting = true
	cfg.MouseMode = "normal"

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 8)

	cfg.MouseMode = "bogus"
	_, err = cfg.Options()
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	cfg.LogFile = "/tmp/elmterm.log"

	assert.Equal(t, app.LoggerConfig{Level: app.LogLevelWarn, File: "/tmp/elmterm.log"}, cfg.Logger())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, "x.toml"), expandHome("~/x.toml"))
	assert.Equal(t, "/abs/x.toml", expandHome("/abs/x.toml"))
}

func TestParseErrorMessage(t *testing.T) {
	inner := errors.New("boom")
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Line: 2, Column: 5, Message: "bad", Err: inner}, "a.toml:2:5: bad"},
		{&ParseError{Path: "a.toml", Line: 2, Message: "bad"}, "a.toml:2: bad"},
		{&ParseError{Path: "a.toml", Column: 5, Message: "bad"}, "a.toml: bad"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
	assert.ErrorIs(t, tests[0].err, inner)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Key: "fps", Message: "must not be negative", Value: -1}
	assert.Equal(t, "invalid fps -1: must not be negative", err.Error())
	assert.ErrorIs(t, err, ErrValidationFailed)
}
