// Package app runs model-update-view programs in the terminal.
//
// An application supplies a Model: an initial state, a transition function
// and a render function. The Program turns terminal input into messages,
// feeds them through Update one at a time, executes the returned commands
// and renders the View after each turn. All of this happens on the goroutine
// that called Run; input, resize notifications and commands are producers
// feeding a bounded queue.
package app

import (
	"context"
	"errors"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/elmterm/internal/command"
	"github.com/dshills/elmterm/internal/event"
	"github.com/dshills/elmterm/internal/input"
	"github.com/dshills/elmterm/internal/input/keymap"
	"github.com/dshills/elmterm/internal/renderer"
	"github.com/dshills/elmterm/internal/renderer/backend"
)

// Model is the application collaborator.
type Model[S any] struct {
	// Init returns the initial state and a command to run at startup.
	Init func() (S, command.Cmd)

	// Update returns the next state and a command for a message.
	Update func(S, event.Msg) (S, command.Cmd)

	// View renders a state.
	View func(S) string
}

// Constant returns an Init function yielding s and no command.
func Constant[S any](s S) func() (S, command.Cmd) {
	return func() (S, command.Cmd) {
		return s, nil
	}
}

// Program is a single run of a Model. A Program can be run once.
type Program[S any] struct {
	model Model[S]
	opts  options

	term     backend.Terminal
	renderer renderer.Renderer
	modes    *backend.Modes
	keys     *keymap.Table
	queue    *event.Queue
	exec     *command.Executor
	resize   *resizeWatcher

	logger       *zap.Logger
	metrics      *Metrics
	inputMetrics *input.Metrics

	// State
	started atomic.Bool
	running atomic.Bool
	halt    atomic.Bool
	done    chan struct{}
}

// New creates a program for model.
func New[S any](model Model[S], opts ...Option) (*Program[S], error) {
	if model.Init == nil || model.Update == nil || model.View == nil {
		return nil, &InitError{Component: "model", Err: errors.New("init, update and view are required")}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	term, err := openTerminal(o)
	if err != nil {
		return nil, &InitError{Component: "terminal", Err: err}
	}

	logger := o.logger.Named("program").With(zap.String("session", uuid.NewString()))

	p := &Program[S]{
		model:        model,
		opts:         o,
		term:         term,
		renderer:     o.renderer,
		modes:        backend.NewModes(term),
		keys:         o.keymap,
		queue:        event.NewQueue(event.WithCapacity(o.queueSize)),
		logger:       logger,
		metrics:      NewMetrics(),
		inputMetrics: input.NewMetrics(),
		done:         make(chan struct{}),
	}

	if p.renderer == nil {
		p.renderer = renderer.NewLineRenderer(term, renderer.Options{MaxFPS: o.fps})
	}
	if p.keys == nil {
		p.keys, err = keymap.Load("")
		if err != nil {
			logger.Debug("terminfo unavailable, using built-in key sequences", zap.Error(err))
		}
	}

	execOpts := append([]command.Option{command.WithLogger(logger.Named("command"))}, o.commandOpts...)
	p.exec = command.NewExecutor(p.queue, execOpts...)

	return p, nil
}

func openTerminal(o options) (backend.Terminal, error) {
	switch {
	case o.terminal != nil:
		return o.terminal, nil
	case o.input != nil || o.output != nil:
		in, out := o.input, o.output
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		return backend.NewStream(in, out, 80, 24), nil
	default:
		return backend.Default()
	}
}

// Send delivers msg to the program. It blocks while the queue is full and
// drops the message once the program has stopped.
func (p *Program[S]) Send(msg event.Msg) {
	if !p.queue.Post(context.Background(), msg) {
		p.metrics.recordDropped()
	}
}

// Quit asks the program to stop after the messages already queued.
func (p *Program[S]) Quit() {
	p.Send(event.QuitMsg{})
}

// Stop makes the running loop exit at the start of its next turn, without
// processing further messages.
func (p *Program[S]) Stop() {
	p.halt.Store(true)
}

// IsRunning returns true between terminal setup and cleanup.
func (p *Program[S]) IsRunning() bool {
	return p.running.Load()
}

// Done returns a channel closed when Run returns.
func (p *Program[S]) Done() <-chan struct{} {
	return p.done
}

// Metrics returns the program's metrics.
func (p *Program[S]) Metrics() *Metrics {
	return p.metrics
}

// InputMetrics returns the input decoding counters.
func (p *Program[S]) InputMetrics() *input.Metrics {
	return p.inputMetrics
}

// Handle controls a program running in the background.
type Handle[S any] struct {
	p     *Program[S]
	done  chan struct{}
	state S
	err   error
}

// Start runs the program on a new goroutine.
func (p *Program[S]) Start(ctx context.Context) *Handle[S] {
	h := &Handle[S]{p: p, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		h.state, h.err = p.Run(ctx)
	}()
	return h
}

// Stop requests the program to stop. See Program.Stop.
func (h *Handle[S]) Stop() {
	h.p.Stop()
}

// Done returns a channel closed when the program has stopped and cleaned
// up.
func (h *Handle[S]) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the program stops and returns Run's results.
func (h *Handle[S]) Wait() (S, error) {
	<-h.done
	return h.state, h.err
}
