package app

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/elmterm/internal/event"
	"github.com/dshills/elmterm/internal/input"
	"github.com/dshills/elmterm/internal/renderer/backend"
)

// resizeWatcher turns resize notifications into WindowSizeMsg values, at
// most one per distinct size.
type resizeWatcher struct {
	ctx    context.Context
	term   backend.Terminal
	sink   input.Sink
	logger *zap.Logger

	// last is the last known size, width in the high 32 bits.
	last atomic.Uint64
}

func newResizeWatcher(ctx context.Context, term backend.Terminal, sink input.Sink, logger *zap.Logger) *resizeWatcher {
	return &resizeWatcher{
		ctx:    ctx,
		term:   term,
		sink:   sink,
		logger: logger,
	}
}

func packSize(w, h int) uint64 {
	return uint64(uint32(w))<<32 | uint64(uint32(h))
}

// prime records the initial size and posts it unconditionally.
func (r *resizeWatcher) prime(w, h int) {
	r.last.Store(packSize(w, h))
	r.sink.Post(r.ctx, event.WindowSizeMsg{Width: w, Height: h})
}

// check queries the terminal and posts its size if it changed.
func (r *resizeWatcher) check() {
	w, h, err := r.term.Size()
	if err != nil {
		r.logger.Debug("size query failed", zap.Error(err))
		return
	}

	next := packSize(w, h)
	if r.last.Swap(next) == next {
		return
	}
	r.logger.Debug("window resized", zap.Int("width", w), zap.Int("height", h))
	r.sink.Post(r.ctx, event.WindowSizeMsg{Width: w, Height: h})
}
