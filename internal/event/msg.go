package event

import (
	"fmt"
	"strconv"

	"github.com/dshills/elmterm/internal/input/key"
	"github.com/dshills/elmterm/internal/input/mouse"
)

// Msg is any message delivered to the update function. The types in this
// package are produced by the runtime; any other value is an application
// payload.
type Msg any

// KeyMsg reports a decoded key press.
type KeyMsg struct {
	key.Event
}

// String returns the key description, e.g. "Ctrl+Down".
func (m KeyMsg) String() string {
	return m.Event.String()
}

// MouseMsg reports a decoded mouse event.
type MouseMsg struct {
	mouse.Event
}

// String returns the mouse event description.
func (m MouseMsg) String() string {
	return m.Event.String()
}

// WindowSizeMsg reports the terminal size in cells. One is delivered at
// startup and again whenever the size changes.
type WindowSizeMsg struct {
	Width  int
	Height int
}

func (m WindowSizeMsg) String() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// FocusMsg reports that the terminal gained focus.
type FocusMsg struct{}

// BlurMsg reports that the terminal lost focus.
type BlurMsg struct{}

// QuitMsg asks the program to stop after the current turn.
type QuitMsg struct{}

// ErrorMsg carries an error into the loop. Unless configured otherwise the
// program stops and returns Err.
type ErrorMsg struct {
	Err error
}

func (m ErrorMsg) Error() string {
	if m.Err == nil {
		return "<nil>"
	}
	return m.Err.Error()
}

// Unwrap returns the underlying error.
func (m ErrorMsg) Unwrap() error {
	return m.Err
}

// UnknownMsg carries the raw bytes of an input sequence that could not be
// decoded, including the leading ESC.
type UnknownMsg struct {
	Sequence string
}

// String returns the sequence with control bytes escaped.
func (m UnknownMsg) String() string {
	s := strconv.Quote(m.Sequence)
	return s[1 : len(s)-1]
}
