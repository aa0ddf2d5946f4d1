package app

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/elmterm/internal/command"
	"github.com/dshills/elmterm/internal/event"
	"github.com/dshills/elmterm/internal/input"
	"github.com/dshills/elmterm/internal/input/keymap"
	"github.com/dshills/elmterm/internal/renderer"
	"github.com/dshills/elmterm/internal/renderer/backend"
)

// options holds the configuration of a Program.
type options struct {
	// Display
	altScreen  bool
	hideCursor bool
	mouse      backend.MouseMode
	focus      bool
	fps        int

	// I/O
	input    io.Reader
	output   io.Writer
	terminal backend.Terminal
	renderer renderer.Renderer

	// Loop
	queueSize    int
	pollInterval time.Duration
	ambiguity    time.Duration
	keymap       *keymap.Table

	// Faults
	recoverableFaults bool
	commandOpts       []command.Option

	logger *zap.Logger
}

func defaultOptions() options {
	return options{
		fps:          renderer.DefaultOptions().MaxFPS,
		queueSize:    event.DefaultCapacity,
		pollInterval: input.DefaultPollInterval,
		ambiguity:    input.DefaultAmbiguityTimeout,
		logger:       zap.NewNop(),
	}
}

// Option configures a Program.
type Option func(*options)

// WithAltScreen runs the program on the alternate screen.
func WithAltScreen() Option {
	return func(o *options) {
		o.altScreen = true
	}
}

// WithHideCursor hides the cursor while the program runs.
func WithHideCursor() Option {
	return func(o *options) {
		o.hideCursor = true
	}
}

// WithMouseMode enables mouse reporting.
func WithMouseMode(mode backend.MouseMode) Option {
	return func(o *options) {
		o.mouse = mode
	}
}

// WithFocusReporting delivers FocusMsg and BlurMsg.
func WithFocusReporting() Option {
	return func(o *options) {
		o.focus = true
	}
}

// WithFPS limits how often the default renderer writes frames. Zero
// writes every frame.
func WithFPS(fps int) Option {
	return func(o *options) {
		if fps >= 0 {
			o.fps = fps
		}
	}
}

// WithInput reads input from r instead of the terminal. The program does
// not put r into raw mode unless it is a terminal.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
	}
}

// WithOutput writes output to w instead of the terminal.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithTerminal sets the terminal directly. It takes precedence over
// WithInput and WithOutput.
func WithTerminal(t backend.Terminal) Option {
	return func(o *options) {
		o.terminal = t
	}
}

// WithRenderer replaces the default line renderer.
func WithRenderer(r renderer.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithQueueSize sets the message queue capacity.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithPollInterval bounds each wait for a message and each input read.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithAmbiguityTimeout sets how long a lone ESC waits for a continuation.
func WithAmbiguityTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ambiguity = d
		}
	}
}

// WithKeymap sets the escape-sequence table. By default it is loaded from
// the terminfo entry named by $TERM.
func WithKeymap(t *keymap.Table) Option {
	return func(o *options) {
		o.keymap = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecoverableFaults delivers ErrorMsg values caused by panicking
// commands to update instead of stopping the program.
func WithRecoverableFaults() Option {
	return func(o *options) {
		o.recoverableFaults = true
	}
}

// WithCommandOptions configures the command executor.
func WithCommandOptions(opts ...command.Option) Option {
	return func(o *options) {
		o.commandOpts = append(o.commandOpts, opts...)
	}
}
