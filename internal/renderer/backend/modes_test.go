package backend

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestParseMouseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    MouseMode
		wantErr bool
	}{
		{"", MouseNone, false},
		{"none", MouseNone, false},
		{"Off", MouseNone, false},
		{"normal", MouseNormal, false},
		{"cell", MouseCell, false},
		{" ALL ", MouseAll, false},
		{"drag", MouseNone, true},
	}

	for _, tt := range tests {
		got, err := ParseMouseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMouseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMouseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMouseModeString(t *testing.T) {
	for _, m := range []MouseMode{MouseNone, MouseNormal, MouseCell, MouseAll} {
		got, err := ParseMouseMode(m.String())
		if err != nil || got != m {
			t.Errorf("round trip of %v gave %v, %v", m, got, err)
		}
	}
}

func TestModesEnableAndRestore(t *testing.T) {
	var buf bytes.Buffer
	m := NewModes(&buf)

	m.EnterAltScreen()
	m.HideCursor()
	m.EnableMouse(MouseCell)
	m.EnableFocusReporting()

	want := ansi.SetAltScreenSaveCursorMode + ansi.EraseEntireScreen + ansi.CursorHomePosition +
		ansi.HideCursor +
		ansi.SetButtonEventMouseMode + ansi.SetSgrExtMouseMode +
		ansi.SetFocusEventMode
	if buf.String() != want {
		t.Errorf("enable sequences = %q, want %q", buf.String(), want)
	}

	state := m.State()
	if !state.AltScreen || !state.CursorHidden || !state.Focus || state.Mouse != MouseCell {
		t.Errorf("unexpected state %+v", state)
	}

	buf.Reset()
	if err := m.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	want = ansi.ResetButtonEventMouseMode + ansi.ResetSgrExtMouseMode +
		ansi.ResetFocusEventMode +
		ansi.ResetAltScreenSaveCursorMode +
		ansi.ShowCursor
	if buf.String() != want {
		t.Errorf("restore sequences = %q, want %q", buf.String(), want)
	}
	if m.State() != (ModeState{}) {
		t.Errorf("state after restore = %+v", m.State())
	}
}

func TestModesRestoreOnlyWhatWasEnabled(t *testing.T) {
	var buf bytes.Buffer
	m := NewModes(&buf)

	m.EnableMouse(MouseAll)
	buf.Reset()
	m.Restore()

	want := ansi.ResetAnyEventMouseMode + ansi.ResetSgrExtMouseMode
	if buf.String() != want {
		t.Errorf("restore sequences = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	m.Restore()
	if buf.Len() != 0 {
		t.Errorf("second restore wrote %q", buf.String())
	}
}

func TestModesSwitchMouseMode(t *testing.T) {
	var buf bytes.Buffer
	m := NewModes(&buf)

	m.EnableMouse(MouseNormal)
	buf.Reset()
	m.EnableMouse(MouseAll)

	want := ansi.ResetNormalMouseMode + ansi.ResetSgrExtMouseMode +
		ansi.SetAnyEventMouseMode + ansi.SetSgrExtMouseMode
	if buf.String() != want {
		t.Errorf("switch sequences = %q, want %q", buf.String(), want)
	}
}

func TestModesIdempotent(t *testing.T) {
	var buf bytes.Buffer
	m := NewModes(&buf)

	m.HideCursor()
	n := buf.Len()
	m.HideCursor()
	if buf.Len() != n {
		t.Error("second HideCursor should not write")
	}
}
