package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/elmterm/internal/event"
)

// DefaultPollInterval bounds each read so the reader notices cancellation.
const DefaultPollInterval = 100 * time.Millisecond

// Sink receives decoded messages. *event.Queue implements it.
type Sink interface {
	Post(ctx context.Context, msg event.Msg) bool
}

// Reader is the background input loop.
type Reader struct {
	asm    *Assembler
	poll   time.Duration
	logger *zap.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithPollInterval sets the longest single wait for input.
func WithPollInterval(d time.Duration) ReaderOption {
	return func(r *Reader) {
		if d > 0 {
			r.poll = d
		}
	}
}

// WithReaderLogger sets the logger.
func WithReaderLogger(l *zap.Logger) ReaderOption {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewReader creates a reader over asm.
func NewReader(asm *Assembler, opts ...ReaderOption) *Reader {
	r := &Reader{
		asm:    asm,
		poll:   DefaultPollInterval,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run decodes input and posts it to sink until ctx ends, the sink stops
// accepting messages, or input reaches EOF. Those exits return nil; any
// other read failure is returned.
func (r *Reader) Run(ctx context.Context, sink Sink) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		msg, err := r.asm.ReadEvent(r.poll)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				r.logger.Debug("input reader stopped", zap.Error(err))
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if msg == nil {
			continue
		}

		if u, ok := msg.(event.UnknownMsg); ok {
			r.logger.Debug("unknown input sequence", zap.String("seq", u.String()))
		}
		if !sink.Post(ctx, msg) {
			return nil
		}
	}
}
