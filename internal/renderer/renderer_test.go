package renderer

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// syncBuffer is a bytes.Buffer safe for use from the pacing timer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func TestFirstFrameIsFull(t *testing.T) {
	var out syncBuffer
	r := NewLineRenderer(&out, Options{})
	r.Resize(80, 24)
	r.Render("one\ntwo")

	want := ansi.CursorHomePosition +
		"one" + ansi.EraseLineRight + "\r\n" +
		"two" + ansi.EraseLineRight + "\r\n" +
		ansi.EraseScreenBelow
	if got := out.String(); got != want {
		t.Errorf("first frame = %q, want %q", got, want)
	}
	if r.FrameCount() != 1 {
		t.Errorf("expected 1 frame, got %d", r.FrameCount())
	}
}

func TestFullHeightFrameDoesNotScroll(t *testing.T) {
	var out syncBuffer
	r := NewLineRenderer(&out, Options{})
	r.Resize(10, 2)
	r.Render("one\ntwo")

	want := ansi.CursorHomePosition +
		"one" + ansi.EraseLineRight + "\r\n" +
		"two" + ansi.EraseLineRight
	if got := out.String(); got != want {
		t.Errorf("full-height frame = %q, want %q", got, want)
	}
}

func TestOnlyChangedLinesRepainted(t *testing.T) {
	var out syncBuffer
	r := NewLineRenderer(&out, Options{})
	r.Resize(80, 24)
	r.Render("A1\nB1\nC1")
	out.Reset()

	r.Render("A1\nB2\nC1")

	want := ansi.CursorPosition(1, 2) + "B2" + ansi.EraseLineRight
	if got := out.String(); got != want {
		t.Errorf("incremental frame = %q, want %q", got, want)
	}
}

func TestUnchangedFrameWritesNothing(t *testing.T) {
	var out syncBuffer
	r := NewLineRenderer(&out, Options{})
	r.Render("same")
	out.Reset()

	r.Render("same")
	if out.String() != "" {
		t.Errorf("unchanged frame wrote %q", out.String())
	}
	if r.FrameCount() != 1 {
		t.Errorf("expected 1 frame, got %d", r.FrameCount())
	}
}

func TestShrinkingFrameErasesBelow(t *testing.T) {
	var out syncBuffer
	r := NewLineRenderer(&out, Options{})
	r.Render("a\nb\nc")
	out.Reset()

	r.Render("a")
	want := ansi.CursorPosition(1, 2) + ansi.EraseScreenBelow
	if got := out.String(); got != want {
		t.Errorf("shrink frame = %q, want %q", got, want)
	}
}

func TestLinesClippedToSize(t *testing.T) {
	var out syncBuffer
	r := NewLineRenderer(&out, Options{})
	r.Resize(4, 2)
	r.Render("abcdefgh\n世界世界\nthird")

	got := out.String()
	if !strings.Contains(got, "abcd"+ansi.EraseLineRight) {
		t.Errorf("first line not truncated: %q", got)
	}
	if !strings.Contains(got, "世界"+ansi.EraseLineRight) {
		t.Errorf("wide line not truncated by cell width: %q", got)
	}
	if strings.Contains(got, "third") {
		t.Errorf("line beyond height was written: %q", got)
	}
}

func TestResizeForcesFullRedraw(t *testing.T) {
	var out syncBuffer
	r := NewLineRenderer(&out, Options{})
	r.Render("x")
	out.Reset()

	r.Resize(40, 10)
	r.Render("x")
	if !strings.HasPrefix(out.String(), ansi.CursorHomePosition) {
		t.Errorf("expected full redraw after resize, got %q", out.String())
	}
}

func TestPacedFramesCoalesce(t *testing.T) {
	var out syncBuffer
	r := NewLineRenderer(&out, Options{MaxFPS: 10})

	r.Render("first")
	r.Render("second")
	r.Render("third")

	if r.FrameCount() != 1 {
		t.Fatalf("expected only the first frame immediately, got %d", r.FrameCount())
	}

	deadline := time.Now().Add(time.Second)
	for r.FrameCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	got := out.String()
	if !strings.Contains(got, "third") {
		t.Errorf("latest pending frame not written: %q", got)
	}
	if strings.Contains(got, "second") {
		t.Errorf("superseded frame was written: %q", got)
	}
	r.Stop()
}

func TestStopFlushesPendingFrame(t *testing.T) {
	var out syncBuffer
	r := NewLineRenderer(&out, Options{MaxFPS: 1})

	r.Render("first")
	r.Render("last")
	r.Stop()

	if !strings.Contains(out.String(), "last") {
		t.Errorf("Stop did not flush pending frame: %q", out.String())
	}

	out.Reset()
	r.Render("after stop")
	if out.String() != "" {
		t.Errorf("render after Stop wrote %q", out.String())
	}
}
