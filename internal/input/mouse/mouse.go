package mouse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/elmterm/internal/input/key"
)

// Decode errors
var (
	// ErrMalformed indicates a report whose parameters could not be parsed.
	ErrMalformed = errors.New("malformed mouse report")

	// ErrUnsupported indicates a well-formed report for a button outside
	// the reported set (horizontal wheel, extra buttons).
	ErrUnsupported = errors.New("unsupported mouse button")
)

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// Action represents the type of mouse action.
type Action uint8

const (
	// ActionPress indicates a button press.
	ActionPress Action = iota
	// ActionRelease indicates a button release.
	ActionRelease
	// ActionMotion indicates pointer movement, with or without a button held.
	ActionMotion
	// ActionWheelUp indicates one wheel step away from the user.
	ActionWheelUp
	// ActionWheelDown indicates one wheel step towards the user.
	ActionWheelDown
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMotion:
		return "motion"
	case ActionWheelUp:
		return "wheel-up"
	case ActionWheelDown:
		return "wheel-down"
	default:
		return fmt.Sprintf("Action(%d)", a)
	}
}

// IsWheel returns true for wheel actions.
func (a Action) IsWheel() bool {
	return a == ActionWheelUp || a == ActionWheelDown
}

// Position represents a 0-indexed screen cell.
type Position struct {
	X int
	Y int
}

// Distance returns the Manhattan distance (|dx| + |dy|) between two positions.
func (p Position) Distance(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Event represents a decoded mouse report.
type Event struct {
	Position

	// Button is the mouse button involved. Wheel events carry ButtonNone.
	Button Button

	// Action is the type of mouse action.
	Action Action

	// Modifiers are any keyboard modifiers held during the event.
	Modifiers key.Modifier
}

// String returns a compact description like "Ctrl+left press 9,4".
func (e Event) String() string {
	var b strings.Builder
	if !e.Modifiers.IsEmpty() {
		b.WriteString(e.Modifiers.String())
		b.WriteByte('+')
	}
	if e.Button != ButtonNone {
		b.WriteString(e.Button.String())
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%s %d,%d", e.Action, e.X, e.Y)
	return b.String()
}

// Button code bits shared by both wire formats.
const (
	bitsButton = 0x03
	bitShift   = 0x04
	bitAlt     = 0x08
	bitCtrl    = 0x10
	bitMotion  = 0x20
	bitWheel   = 0x40
	bitExtra   = 0x80
)

// x10Offset is added by the terminal to every byte of a legacy report.
const x10Offset = 32

// DecodeX10 decodes the three bytes that follow "ESC [ M" in a legacy
// report. Each byte carries an offset of 32 and coordinates are 1-indexed
// on the wire.
func DecodeX10(b [3]byte) (Event, error) {
	code := int(b[0]) - x10Offset
	if code < 0 {
		return Event{}, fmt.Errorf("%w: button byte %d", ErrMalformed, b[0])
	}
	ev, err := decodeButton(code, false)
	if err != nil {
		return Event{}, err
	}
	ev.X = toZeroIndex(int(b[1]) - x10Offset)
	ev.Y = toZeroIndex(int(b[2]) - x10Offset)
	return ev, nil
}

// DecodeSGR decodes the parameter string of an extended report
// "ESC [ < Cb ; Cx ; Cy M" (press or motion) or the same ending in 'm'
// (release). params excludes the leading '<' and the final byte.
func DecodeSGR(params string, final byte) (Event, error) {
	if final != 'M' && final != 'm' {
		return Event{}, fmt.Errorf("%w: final byte %q", ErrMalformed, final)
	}

	fields := strings.Split(params, ";")
	if len(fields) != 3 {
		return Event{}, fmt.Errorf("%w: %q", ErrMalformed, params)
	}

	var nums [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Event{}, fmt.Errorf("%w: %q", ErrMalformed, params)
		}
		nums[i] = n
	}

	ev, err := decodeButton(nums[0], final == 'm')
	if err != nil {
		return Event{}, err
	}
	ev.X = toZeroIndex(nums[1])
	ev.Y = toZeroIndex(nums[2])
	return ev, nil
}

// decodeButton maps a button code to button, action and modifiers. release
// is set for SGR reports ending in 'm'.
func decodeButton(code int, release bool) (Event, error) {
	if code&bitExtra != 0 {
		return Event{}, fmt.Errorf("%w: code %d", ErrUnsupported, code)
	}

	var ev Event
	if code&bitShift != 0 {
		ev.Modifiers = ev.Modifiers.With(key.ModShift)
	}
	if code&bitAlt != 0 {
		ev.Modifiers = ev.Modifiers.With(key.ModAlt)
	}
	if code&bitCtrl != 0 {
		ev.Modifiers = ev.Modifiers.With(key.ModCtrl)
	}

	low := code & bitsButton
	switch {
	case code&bitWheel != 0:
		switch low {
		case 0:
			ev.Action = ActionWheelUp
		case 1:
			ev.Action = ActionWheelDown
		default:
			return Event{}, fmt.Errorf("%w: code %d", ErrUnsupported, code)
		}
	case code&bitMotion != 0:
		ev.Action = ActionMotion
		ev.Button = lowButton(low)
	case release:
		ev.Action = ActionRelease
		ev.Button = lowButton(low)
	case low == 3:
		// Legacy reports do not say which button was released.
		ev.Action = ActionRelease
	default:
		ev.Action = ActionPress
		ev.Button = lowButton(low)
	}
	return ev, nil
}

func lowButton(low int) Button {
	switch low {
	case 0:
		return ButtonLeft
	case 1:
		return ButtonMiddle
	case 2:
		return ButtonRight
	default:
		return ButtonNone
	}
}

func toZeroIndex(n int) int {
	if n < 1 {
		return 0
	}
	return n - 1
}
