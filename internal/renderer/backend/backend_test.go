package backend

import (
	"errors"
	"io"
	"testing"
	"time"
)

func TestNullBackendSize(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	w, h, err := b.Size()
	if err != nil || w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d, %v)", w, h, err)
	}
}

func TestNullBackendFeedRead(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Start()
	b.Feed("hello")

	buf := make([]byte, 3)
	n, err := b.Read(buf)
	if err != nil || string(buf[:n]) != "hel" {
		t.Fatalf("first read = %q, %v", buf[:n], err)
	}
	n, err = b.Read(buf)
	if err != nil || string(buf[:n]) != "lo" {
		t.Fatalf("second read = %q, %v", buf[:n], err)
	}
}

func TestNullBackendInterrupt(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Start()

	done := make(chan error, 1)
	go func() {
		_, err := b.Read(make([]byte, 8))
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	if err := b.Interrupt(); err != nil {
		t.Fatalf("Interrupt failed: %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, io.EOF) {
			t.Errorf("expected io.EOF, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Read did not return after Interrupt")
	}

	// Interrupt is idempotent.
	if err := b.Interrupt(); err != nil {
		t.Errorf("second Interrupt failed: %v", err)
	}
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(80, 24)

	calls := 0
	b.NotifyResize(func() { calls++ })
	b.Resize(100, 40)

	if calls != 1 {
		t.Errorf("expected 1 resize notification, got %d", calls)
	}
	w, h, _ := b.Size()
	if w != 100 || h != 40 {
		t.Errorf("expected size (100, 40), got (%d, %d)", w, h)
	}
}

func TestNullBackendFailures(t *testing.T) {
	b := NewNullBackend(80, 24)
	boom := errors.New("boom")

	b.FailStart(boom)
	if err := b.Start(); !errors.Is(err, boom) {
		t.Errorf("expected start error, got %v", err)
	}
	if b.Started() {
		t.Error("backend should not report started")
	}

	b.FailSize(boom)
	if _, _, err := b.Size(); !errors.Is(err, boom) {
		t.Errorf("expected size error, got %v", err)
	}
}

func TestNullBackendOutput(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Write([]byte("abc"))
	b.Write([]byte("def"))

	if got := b.Output(); got != "abcdef" {
		t.Errorf("expected %q, got %q", "abcdef", got)
	}
}
