package input

import (
	"sync/atomic"

	"github.com/dshills/elmterm/internal/event"
)

// Metrics counts decoded input.
type Metrics struct {
	keys              atomic.Uint64
	mouse             atomic.Uint64
	focus             atomic.Uint64
	unknown           atomic.Uint64
	ambiguityTimeouts atomic.Uint64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) record(msg event.Msg) {
	switch msg.(type) {
	case event.KeyMsg:
		m.keys.Add(1)
	case event.MouseMsg:
		m.mouse.Add(1)
	case event.FocusMsg, event.BlurMsg:
		m.focus.Add(1)
	case event.UnknownMsg:
		m.unknown.Add(1)
	}
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Keys:              m.keys.Load(),
		Mouse:             m.mouse.Load(),
		Focus:             m.focus.Load(),
		Unknown:           m.unknown.Load(),
		AmbiguityTimeouts: m.ambiguityTimeouts.Load(),
	}
}

// MetricsSnapshot is a copy of the input counters.
type MetricsSnapshot struct {
	Keys    uint64
	Mouse   uint64
	Focus   uint64
	Unknown uint64

	// AmbiguityTimeouts counts continuation waits that expired, including
	// every bare Escape.
	AmbiguityTimeouts uint64
}
