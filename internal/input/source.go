package input

import (
	"errors"
	"io"
	"sync"
	"time"
)

// ErrTimeout is returned by ByteSource.NextByte when no byte arrived
// within the timeout.
var ErrTimeout = errors.New("input read timed out")

// ByteSource yields input one byte at a time.
type ByteSource interface {
	// NextByte returns the next byte, waiting at most timeout. It returns
	// ErrTimeout if nothing arrived and io.EOF once input is exhausted.
	// A timeout of zero or less only returns already-buffered bytes.
	NextByte(timeout time.Duration) (byte, error)
}

const pumpChunk = 256

// Pump reads an io.Reader on a background goroutine and serves its bytes
// through NextByte. NextByte must be called from one goroutine at a time.
//
// The goroutine exits when the reader returns an error (interrupting a
// terminal read makes it return io.EOF) or after Close once the pending
// Read returns.
type Pump struct {
	chunks chan []byte
	done   chan struct{}
	once   sync.Once

	// err is written before chunks is closed.
	err error
	buf []byte
}

// NewPump starts reading r.
func NewPump(r io.Reader) *Pump {
	p := &Pump{
		chunks: make(chan []byte, 16),
		done:   make(chan struct{}),
	}
	go p.run(r)
	return p
}

func (p *Pump) run(r io.Reader) {
	defer close(p.chunks)
	for {
		buf := make([]byte, pumpChunk)
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case p.chunks <- buf[:n]:
			case <-p.done:
				p.err = io.EOF
				return
			}
		}
		if err != nil {
			p.err = err
			return
		}
	}
}

// NextByte implements ByteSource.
func (p *Pump) NextByte(timeout time.Duration) (byte, error) {
	if len(p.buf) > 0 {
		return p.pop(), nil
	}

	if timeout <= 0 {
		select {
		case chunk, ok := <-p.chunks:
			return p.receive(chunk, ok)
		default:
			return 0, ErrTimeout
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case chunk, ok := <-p.chunks:
		return p.receive(chunk, ok)
	case <-timer.C:
		return 0, ErrTimeout
	}
}

func (p *Pump) receive(chunk []byte, ok bool) (byte, error) {
	if !ok {
		if p.err == nil || errors.Is(p.err, io.EOF) {
			return 0, io.EOF
		}
		return 0, p.err
	}
	p.buf = chunk
	return p.pop(), nil
}

func (p *Pump) pop() byte {
	b := p.buf[0]
	p.buf = p.buf[1:]
	return b
}

// Close stops delivering input. A Read already in progress on the
// underlying reader is not interrupted.
func (p *Pump) Close() {
	p.once.Do(func() { close(p.done) })
}
