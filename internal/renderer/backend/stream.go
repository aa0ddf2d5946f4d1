package backend

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// Stream implements Terminal over an arbitrary reader and writer. When the
// input is a terminal file it is put into raw mode on Start; otherwise no
// terminal attributes are touched.
//
// Pending reads are only interruptible when the input is a file the
// platform can poll; other readers stop at their next Read.
type Stream struct {
	in  io.Reader
	out io.Writer

	mu       sync.Mutex
	width    int
	height   int
	cr       cancelreader.CancelReader
	rawState *term.State
	onResize func()
}

// NewStream creates a stream terminal. width and height are reported by
// Size unless the output is a terminal whose size can be queried.
func NewStream(in io.Reader, out io.Writer, width, height int) *Stream {
	return &Stream{
		in:     in,
		out:    out,
		width:  width,
		height: height,
	}
}

// Start implements Terminal.
func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cr, err := cancelreader.NewReader(s.in)
	if err != nil {
		return err
	}
	s.cr = cr

	if f, ok := s.in.(*os.File); ok && IsTerminal(f) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			_ = cr.Close()
			return err
		}
		s.rawState = state
	}
	return nil
}

// Stop implements Terminal.
func (s *Stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.rawState != nil {
		if f, ok := s.in.(*os.File); ok {
			errs = append(errs, term.Restore(int(f.Fd()), s.rawState))
		}
		s.rawState = nil
	}
	if s.cr != nil {
		errs = append(errs, s.cr.Close())
		s.cr = nil
	}
	return errors.Join(errs...)
}

// Read implements Terminal.
func (s *Stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	cr := s.cr
	s.mu.Unlock()

	if cr == nil {
		return s.in.Read(p)
	}
	n, err := cr.Read(p)
	if errors.Is(err, cancelreader.ErrCanceled) {
		return n, io.EOF
	}
	return n, err
}

// Write implements Terminal.
func (s *Stream) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// Interrupt implements Terminal.
func (s *Stream) Interrupt() error {
	s.mu.Lock()
	cr := s.cr
	s.mu.Unlock()

	if cr != nil {
		cr.Cancel()
	}
	return nil
}

// Size implements Terminal.
func (s *Stream) Size() (int, int, error) {
	if f, ok := s.out.(*os.File); ok && IsTerminal(f) {
		return term.GetSize(int(f.Fd()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height, nil
}

// NotifyResize implements Terminal. Streams only change size through
// SetSize.
func (s *Stream) NotifyResize(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onResize = fn
}

// SetSize changes the reported size and notifies the resize callback.
func (s *Stream) SetSize(width, height int) {
	s.mu.Lock()
	s.width = width
	s.height = height
	fn := s.onResize
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}
