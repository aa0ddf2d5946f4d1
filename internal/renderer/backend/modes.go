package backend

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// MouseMode selects which mouse activity the terminal reports.
type MouseMode int

const (
	// MouseNone disables mouse reporting.
	MouseNone MouseMode = iota
	// MouseNormal reports presses, releases and the wheel.
	MouseNormal
	// MouseCell also reports motion while a button is held.
	MouseCell
	// MouseAll reports all motion.
	MouseAll
)

// String returns the configuration name of the mode.
func (m MouseMode) String() string {
	switch m {
	case MouseNormal:
		return "normal"
	case MouseCell:
		return "cell"
	case MouseAll:
		return "all"
	default:
		return "none"
	}
}

// ParseMouseMode parses a configuration name. The empty string, "none" and
// "off" disable the mouse.
func ParseMouseMode(s string) (MouseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return MouseNone, nil
	case "normal":
		return MouseNormal, nil
	case "cell":
		return MouseCell, nil
	case "all":
		return MouseAll, nil
	default:
		return MouseNone, fmt.Errorf("unknown mouse mode %q", s)
	}
}

func (m MouseMode) sequences() (set, reset string) {
	switch m {
	case MouseNormal:
		return ansi.SetNormalMouseMode, ansi.ResetNormalMouseMode
	case MouseCell:
		return ansi.SetButtonEventMouseMode, ansi.ResetButtonEventMouseMode
	case MouseAll:
		return ansi.SetAnyEventMouseMode, ansi.ResetAnyEventMouseMode
	default:
		return "", ""
	}
}

// Modes switches terminal modes and remembers what it enabled so Restore
// undoes exactly that.
type Modes struct {
	mu           sync.Mutex
	w            io.Writer
	altScreen    bool
	cursorHidden bool
	focus        bool
	mouse        MouseMode
}

// NewModes creates a mode controller writing to w.
func NewModes(w io.Writer) *Modes {
	return &Modes{w: w}
}

func (m *Modes) write(seq ...string) error {
	_, err := io.WriteString(m.w, strings.Join(seq, ""))
	return err
}

// EnterAltScreen switches to the alternate screen and clears it.
func (m *Modes) EnterAltScreen() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.altScreen {
		return nil
	}
	if err := m.write(ansi.SetAltScreenSaveCursorMode, ansi.EraseEntireScreen, ansi.CursorHomePosition); err != nil {
		return err
	}
	m.altScreen = true
	return nil
}

// HideCursor hides the text cursor.
func (m *Modes) HideCursor() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursorHidden {
		return nil
	}
	if err := m.write(ansi.HideCursor); err != nil {
		return err
	}
	m.cursorHidden = true
	return nil
}

// EnableMouse turns on reporting for mode with SGR extended coordinates.
// MouseNone disables reporting.
func (m *Modes) EnableMouse(mode MouseMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.disableMouse(); err != nil {
		return err
	}
	if mode == MouseNone {
		return nil
	}
	set, _ := mode.sequences()
	if err := m.write(set, ansi.SetSgrExtMouseMode); err != nil {
		return err
	}
	m.mouse = mode
	return nil
}

func (m *Modes) disableMouse() error {
	if m.mouse == MouseNone {
		return nil
	}
	_, reset := m.mouse.sequences()
	if err := m.write(reset, ansi.ResetSgrExtMouseMode); err != nil {
		return err
	}
	m.mouse = MouseNone
	return nil
}

// EnableFocusReporting asks the terminal to report focus changes.
func (m *Modes) EnableFocusReporting() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.focus {
		return nil
	}
	if err := m.write(ansi.SetFocusEventMode); err != nil {
		return err
	}
	m.focus = true
	return nil
}

// Restore disables mouse and focus reporting, leaves the alternate screen
// and shows the cursor, in that order, for whichever were enabled. Every
// step is attempted; failures are joined.
func (m *Modes) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	errs = append(errs, m.disableMouse())
	if m.focus {
		errs = append(errs, m.write(ansi.ResetFocusEventMode))
		m.focus = false
	}
	if m.altScreen {
		errs = append(errs, m.write(ansi.ResetAltScreenSaveCursorMode))
		m.altScreen = false
	}
	if m.cursorHidden {
		errs = append(errs, m.write(ansi.ShowCursor))
		m.cursorHidden = false
	}
	return errors.Join(errs...)
}

// State reports which modes are currently enabled.
func (m *Modes) State() ModeState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return ModeState{
		AltScreen:    m.altScreen,
		CursorHidden: m.cursorHidden,
		Focus:        m.focus,
		Mouse:        m.mouse,
	}
}

// ModeState is a snapshot of enabled terminal modes.
type ModeState struct {
	AltScreen    bool
	CursorHidden bool
	Focus        bool
	Mouse        MouseMode
}
