// Package backend provides the terminal collaborator used by the runtime:
// raw-mode control, byte I/O, size queries and resize notification.
package backend

import (
	"bytes"
	"io"
	"sync"
)

// Terminal is the byte-level terminal the runtime drives.
type Terminal interface {
	io.Reader
	io.Writer

	// Start acquires the terminal and enters raw mode, saving the prior
	// attributes.
	Start() error

	// Stop restores the saved attributes and releases the terminal.
	Stop() error

	// Interrupt makes a pending Read return. Reads after Interrupt return
	// io.EOF.
	Interrupt() error

	// Size returns the current dimensions in cells.
	Size() (width, height int, err error)

	// NotifyResize registers fn to be called when the window size may
	// have changed. fn must not block.
	NotifyResize(fn func())
}

// NullBackend is an in-memory terminal for tests. Input is fed with Feed,
// output is recorded and available through Output.
type NullBackend struct {
	mu        sync.Mutex
	width     int
	height    int
	input     chan []byte
	interrupt chan struct{}
	intOnce   *sync.Once
	pending   []byte
	out       bytes.Buffer
	onResize  func()
	startErr  error
	sizeErr   error
	started   bool
	stopped   bool
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:     width,
		height:    height,
		input:     make(chan []byte, 64),
		interrupt: make(chan struct{}),
		intOnce:   &sync.Once{},
	}
}

// Start implements Terminal.
func (b *NullBackend) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.startErr != nil {
		return b.startErr
	}
	b.started = true
	b.stopped = false
	b.interrupt = make(chan struct{})
	b.intOnce = &sync.Once{}
	return nil
}

// Stop implements Terminal.
func (b *NullBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	return nil
}

// Read implements Terminal. It blocks until input is fed or Interrupt is
// called.
func (b *NullBackend) Read(p []byte) (int, error) {
	if len(b.pending) > 0 {
		n := copy(p, b.pending)
		b.pending = b.pending[n:]
		return n, nil
	}

	b.mu.Lock()
	interrupt := b.interrupt
	b.mu.Unlock()

	select {
	case <-interrupt:
		return 0, io.EOF
	default:
	}

	select {
	case chunk := <-b.input:
		n := copy(p, chunk)
		b.pending = chunk[n:]
		return n, nil
	case <-interrupt:
		return 0, io.EOF
	}
}

// Write implements Terminal.
func (b *NullBackend) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.out.Write(p)
}

// Interrupt implements Terminal.
func (b *NullBackend) Interrupt() error {
	b.mu.Lock()
	interrupt, once := b.interrupt, b.intOnce
	b.mu.Unlock()

	once.Do(func() { close(interrupt) })
	return nil
}

// Size implements Terminal.
func (b *NullBackend) Size() (int, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sizeErr != nil {
		return 0, 0, b.sizeErr
	}
	return b.width, b.height, nil
}

// NotifyResize implements Terminal.
func (b *NullBackend) NotifyResize(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.onResize = fn
}

// Feed queues s as terminal input.
func (b *NullBackend) Feed(s string) {
	b.input <- []byte(s)
}

// Resize simulates a terminal resize for testing.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width = width
	b.height = height
	fn := b.onResize
	b.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// FailStart makes the next Start return err.
func (b *NullBackend) FailStart(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.startErr = err
}

// FailSize makes Size return err.
func (b *NullBackend) FailSize(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sizeErr = err
}

// Output returns everything written so far.
func (b *NullBackend) Output() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.out.String()
}

// Started reports whether Start succeeded.
func (b *NullBackend) Started() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.started
}

// Stopped reports whether Stop was called after the last Start.
func (b *NullBackend) Stopped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.stopped
}
