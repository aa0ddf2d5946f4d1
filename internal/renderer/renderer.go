package renderer

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// Renderer is the render boundary used by the runtime loop.
type Renderer interface {
	// Render submits a frame.
	Render(view string)

	// Resize tells the renderer the terminal dimensions changed.
	Resize(width, height int)

	// Stop writes any pending frame and releases resources.
	Stop()
}

// Options configures a LineRenderer.
type Options struct {
	// MaxFPS limits frames written per second. Zero writes every frame
	// immediately.
	MaxFPS int
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{MaxFPS: 60}
}

// LineRenderer repaints changed lines of a frame.
type LineRenderer struct {
	mu  sync.Mutex
	out io.Writer

	width  int
	height int

	lastLines  []string
	fullRedraw bool

	pending    string
	hasPending bool
	timer      *time.Timer

	lastFrame    time.Time
	minFrameTime time.Duration
	frameCount   uint64
	stopped      bool
	err          error
}

// NewLineRenderer creates a renderer writing to out.
func NewLineRenderer(out io.Writer, opts Options) *LineRenderer {
	r := &LineRenderer{
		out:        out,
		fullRedraw: true,
	}
	if opts.MaxFPS > 0 {
		r.minFrameTime = time.Second / time.Duration(opts.MaxFPS)
	}
	return r
}

// Render implements Renderer. Respects frame rate limiting.
func (r *LineRenderer) Render(view string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.pending = view
	r.hasPending = true

	if r.minFrameTime == 0 {
		r.flush()
		return
	}

	wait := r.minFrameTime - time.Since(r.lastFrame)
	if wait <= 0 {
		r.flush()
		return
	}
	if r.timer == nil {
		r.timer = time.AfterFunc(wait, r.flushPending)
	}
}

// flushPending runs on the pacing timer.
func (r *LineRenderer) flushPending() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.timer = nil
	if r.stopped {
		return
	}
	r.flush()
}

// Resize implements Renderer. The next frame is painted in full.
func (r *LineRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width = width
	r.height = height
	r.fullRedraw = true
}

// Stop implements Renderer.
func (r *LineRenderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.flush()
	r.stopped = true
}

// flush writes the pending frame (must hold lock).
func (r *LineRenderer) flush() {
	if !r.hasPending {
		return
	}
	r.hasPending = false

	lines := r.layout(r.pending)
	var b strings.Builder

	if r.fullRedraw {
		b.WriteString(ansi.CursorHomePosition)
		for i, line := range lines {
			if i > 0 {
				b.WriteString("\r\n")
			}
			b.WriteString(line)
			b.WriteString(ansi.EraseLineRight)
		}
		// A newline on the last row would scroll the screen.
		if r.height == 0 || len(lines) < r.height {
			b.WriteString("\r\n")
			b.WriteString(ansi.EraseScreenBelow)
		}
	} else {
		for i, line := range lines {
			if i < len(r.lastLines) && r.lastLines[i] == line {
				continue
			}
			b.WriteString(ansi.CursorPosition(1, i+1))
			b.WriteString(line)
			b.WriteString(ansi.EraseLineRight)
		}
		if len(lines) < len(r.lastLines) {
			b.WriteString(ansi.CursorPosition(1, len(lines)+1))
			b.WriteString(ansi.EraseScreenBelow)
		}
	}

	r.lastLines = lines
	r.fullRedraw = false
	r.lastFrame = time.Now()

	if b.Len() == 0 {
		return
	}
	r.frameCount++
	if _, err := io.WriteString(r.out, b.String()); err != nil && r.err == nil {
		r.err = err
	}
}

// layout splits a view into screen lines, clipped to the terminal size
// when it is known.
func (r *LineRenderer) layout(view string) []string {
	lines := strings.Split(strings.ReplaceAll(view, "\r\n", "\n"), "\n")
	if r.height > 0 && len(lines) > r.height {
		lines = lines[:r.height]
	}
	if r.width > 0 {
		for i, line := range lines {
			if ansi.StringWidth(line) > r.width {
				lines[i] = ansi.Truncate(line, r.width, "")
			}
		}
	}
	return lines
}

// FrameCount returns the number of frames written.
func (r *LineRenderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// Size returns the dimensions the renderer clips to.
func (r *LineRenderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Err returns the first write error, if any.
func (r *LineRenderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
