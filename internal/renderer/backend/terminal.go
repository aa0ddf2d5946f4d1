package backend

import (
	"errors"
	"io"
	"os"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

// TTY implements Terminal over a tcell.Tty: the controlling terminal or a
// named device. A TTY cannot be restarted after Stop.
type TTY struct {
	tty         tcell.Tty
	interrupted atomic.Bool
}

// NewTTY opens the controlling terminal (/dev/tty).
func NewTTY() (*TTY, error) {
	t, err := tcell.NewDevTty()
	if err != nil {
		return nil, err
	}
	return &TTY{tty: t}, nil
}

// NewTTYFromDevice opens the terminal device at path.
func NewTTYFromDevice(path string) (*TTY, error) {
	t, err := tcell.NewDevTtyFromDev(path)
	if err != nil {
		return nil, err
	}
	return &TTY{tty: t}, nil
}

// NewStdioTTY uses stdin and stdout as the terminal.
func NewStdioTTY() (*TTY, error) {
	t, err := tcell.NewStdIoTty()
	if err != nil {
		return nil, err
	}
	return &TTY{tty: t}, nil
}

// Start implements Terminal.
func (t *TTY) Start() error {
	t.interrupted.Store(false)
	return t.tty.Start()
}

// Stop implements Terminal.
func (t *TTY) Stop() error {
	return errors.Join(t.tty.Stop(), t.tty.Close())
}

// Read implements Terminal.
func (t *TTY) Read(p []byte) (int, error) {
	n, err := t.tty.Read(p)
	if t.interrupted.Load() && (err != nil || n == 0) {
		return n, io.EOF
	}
	return n, err
}

// Write implements Terminal.
func (t *TTY) Write(p []byte) (int, error) {
	return t.tty.Write(p)
}

// Interrupt implements Terminal by draining the tty, which makes pending
// reads return.
func (t *TTY) Interrupt() error {
	t.interrupted.Store(true)
	return t.tty.Drain()
}

// Size implements Terminal.
func (t *TTY) Size() (int, int, error) {
	ws, err := t.tty.WindowSize()
	if err != nil {
		return 0, 0, err
	}
	return ws.Width, ws.Height, nil
}

// NotifyResize implements Terminal. tcell delivers SIGWINCH.
func (t *TTY) NotifyResize(fn func()) {
	t.tty.NotifyResize(fn)
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Default returns a TTY when stdin is a terminal and a Stream over
// stdin/stdout otherwise.
func Default() (Terminal, error) {
	if IsTerminal(os.Stdin) {
		return NewTTY()
	}
	return NewStream(os.Stdin, os.Stdout, 80, 24), nil
}
