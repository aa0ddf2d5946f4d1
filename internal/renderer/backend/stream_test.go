package backend

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestStreamReadWrite(t *testing.T) {
	var out bytes.Buffer
	s := NewStream(strings.NewReader("abc"), &out, 80, 24)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	buf := make([]byte, 8)
	n, err := s.Read(buf)
	if err != nil || string(buf[:n]) != "abc" {
		t.Fatalf("read = %q, %v", buf[:n], err)
	}

	s.Write([]byte("xyz"))
	if out.String() != "xyz" {
		t.Errorf("expected output %q, got %q", "xyz", out.String())
	}
}

func TestStreamInterrupt(t *testing.T) {
	s := NewStream(strings.NewReader("abc"), io.Discard, 80, 24)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	s.Interrupt()
	if _, err := s.Read(make([]byte, 8)); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after Interrupt, got %v", err)
	}
}

func TestStreamSize(t *testing.T) {
	s := NewStream(strings.NewReader(""), io.Discard, 80, 24)

	calls := 0
	s.NotifyResize(func() { calls++ })

	w, h, err := s.Size()
	if err != nil || w != 80 || h != 24 {
		t.Fatalf("expected (80, 24), got (%d, %d, %v)", w, h, err)
	}

	s.SetSize(120, 50)
	w, h, _ = s.Size()
	if w != 120 || h != 50 {
		t.Errorf("expected (120, 50), got (%d, %d)", w, h)
	}
	if calls != 1 {
		t.Errorf("expected 1 resize notification, got %d", calls)
	}
}

func TestIsTerminalNil(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("nil file is not a terminal")
	}
}
