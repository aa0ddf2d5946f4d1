package key

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Event
	}{
		{"a", NewRuneEvent('a', ModNone)},
		{"A", NewRuneEvent('A', ModShift)},
		{"+", NewRuneEvent('+', ModNone)},
		{"Ctrl++", NewRuneEvent('+', ModCtrl)},
		{"Enter", NewSpecialEvent(KeyEnter, ModNone)},
		{"space", NewRuneEvent(' ', ModNone)},
		{"Ctrl+S", NewRuneEvent('s', ModCtrl)},
		{"Alt+F4", NewSpecialEvent(KeyF4, ModAlt)},
		{"Ctrl+Shift+Up", NewSpecialEvent(KeyUp, ModCtrl|ModShift)},
		{"<C-s>", NewRuneEvent('s', ModCtrl)},
		{"<S-Tab>", NewSpecialEvent(KeyTab, ModShift)},
	}

	for _, tt := range tests {
		got, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.spec, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptySpec},
		{"   ", ErrEmptySpec},
		{"Hyper+x", ErrInvalidSpec},
		{"Ctrl+", ErrInvalidSpec},
		{"notakey", ErrInvalidSpec},
	}

	for _, tt := range tests {
		_, err := Parse(tt.spec)
		if !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.spec, err, tt.want)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid spec")
		}
	}()
	MustParse("Hyper+x")
}
