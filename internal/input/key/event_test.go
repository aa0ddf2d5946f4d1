package key

import (
	"testing"
)

func TestNewRuneEvent(t *testing.T) {
	e := NewRuneEvent('a', ModNone)
	if e.Key != KeyRune {
		t.Errorf("NewRuneEvent key = %v, want KeyRune", e.Key)
	}
	if e.Rune != 'a' {
		t.Errorf("NewRuneEvent rune = %q, want 'a'", e.Rune)
	}
}

func TestEventComparable(t *testing.T) {
	a := NewSpecialEvent(KeyDown, ModCtrl)
	b := Event{Key: KeyDown, Modifiers: ModCtrl}
	if a != b {
		t.Errorf("%#v != %#v", a, b)
	}
}

func TestEventIsChar(t *testing.T) {
	tests := []struct {
		event Event
		want  bool
	}{
		{NewRuneEvent('a', ModNone), true},
		{NewRuneEvent('A', ModShift), true},
		{NewRuneEvent('c', ModCtrl), false},
		{NewRuneEvent('\x01', ModNone), false},
		{NewSpecialEvent(KeyEnter, ModNone), false},
	}

	for _, tt := range tests {
		if got := tt.event.IsChar(); got != tt.want {
			t.Errorf("%#v.IsChar() = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{NewRuneEvent('a', ModNone), "a"},
		{NewRuneEvent('A', ModShift), "A"},
		{NewRuneEvent('c', ModCtrl), "Ctrl+c"},
		{NewRuneEvent('x', ModAlt), "Alt+x"},
		{NewRuneEvent(' ', ModNone), "Space"},
		{NewSpecialEvent(KeyDown, ModCtrl), "Ctrl+Down"},
		{NewSpecialEvent(KeyF5, ModShift), "Shift+F5"},
		{NewSpecialEvent(KeyEscape, ModNone), "Escape"},
	}

	for _, tt := range tests {
		if got := tt.event.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.event, got, tt.want)
		}
	}
}

func TestEventMatches(t *testing.T) {
	tests := []struct {
		event Event
		spec  string
		want  bool
	}{
		{NewRuneEvent('q', ModNone), "q", true},
		{NewRuneEvent('Q', ModNone), "Q", true},
		{NewRuneEvent('c', ModCtrl), "Ctrl+C", true},
		{NewRuneEvent('c', ModCtrl), "<C-c>", true},
		{NewSpecialEvent(KeyUp, ModNone), "up", true},
		{NewSpecialEvent(KeyUp, ModShift), "up", false},
		{NewSpecialEvent(KeyUp, ModShift), "Shift+Up", true},
		{NewRuneEvent('q', ModNone), "Ctrl+", false},
	}

	for _, tt := range tests {
		if got := tt.event.Matches(tt.spec); got != tt.want {
			t.Errorf("%#v.Matches(%q) = %v, want %v", tt.event, tt.spec, got, tt.want)
		}
	}
}
