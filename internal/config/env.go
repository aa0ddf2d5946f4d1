package config

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ELMTERM_"

// LookupFunc reports the value of an environment variable. os.LookupEnv
// satisfies it.
type LookupFunc func(key string) (string, bool)

// envSetters maps the setting key to its parser. ELMTERM_POLL_INTERVAL
// overrides poll_interval.
var envSetters = map[string]func(cfg *File, val string) error{
	"alt_screen":        boolSetter(func(c *File) *bool { return &c.AltScreen }),
	"hide_cursor":       boolSetter(func(c *File) *bool { return &c.HideCursor }),
	"focus_reporting":   boolSetter(func(c *File) *bool { return &c.FocusReporting }),
	"fps":               intSetter(func(c *File) *int { return &c.FPS }),
	"queue_size":        intSetter(func(c *File) *int { return &c.QueueSize }),
	"poll_interval":     durationSetter(func(c *File) *Duration { return &c.PollInterval }),
	"ambiguity_timeout": durationSetter(func(c *File) *Duration { return &c.AmbiguityTimeout }),
	"mouse_mode":        stringSetter(func(c *File) *string { return &c.MouseMode }),
	"log_level":         stringSetter(func(c *File) *string { return &c.LogLevel }),
	"log_file":          stringSetter(func(c *File) *string { return &c.LogFile }),
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// EnvVars lists every recognized override, sorted.
func EnvVars() []string {
	vars := make([]string, 0, len(envSetters))
	for key := range envSetters {
		vars = append(vars, EnvVar(key))
	}
	sort.Strings(vars)
	return vars
}

// ApplyEnv overrides settings from the environment.
// Note: an empty value is a valid value, not unset.
func (cfg *File) ApplyEnv(lookup LookupFunc) error {
	for key, set := range envSetters {
		val, ok := lookup(EnvVar(key))
		if !ok {
			continue
		}
		if err := set(cfg, val); err != nil {
			return &ValidationError{Key: EnvVar(key), Message: err.Error(), Value: val}
		}
	}
	return nil
}

func boolSetter(field func(*File) *bool) func(*File, string) error {
	return func(cfg *File, val string) error {
		b, err := parseBool(val)
		if err != nil {
			return err
		}
		*field(cfg) = b
		return nil
	}
}

func intSetter(field func(*File) *int) func(*File, string) error {
	return func(cfg *File, val string) error {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return errors.New("expected an integer")
		}
		*field(cfg) = n
		return nil
	}
}

func durationSetter(field func(*File) *Duration) func(*File, string) error {
	return func(cfg *File, val string) error {
		d, err := time.ParseDuration(strings.TrimSpace(val))
		if err != nil {
			return errors.New("expected a duration such as 100ms")
		}
		*field(cfg) = Duration(d)
		return nil
	}
}

func stringSetter(field func(*File) *string) func(*File, string) error {
	return func(cfg *File, val string) error {
		*field(cfg) = val
		return nil
	}
}

// parseBool accepts the usual spellings of a switch.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	default:
		return false, errors.New("expected a boolean")
	}
}
