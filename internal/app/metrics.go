package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks runtime loop counters and render timing.
type Metrics struct {
	// Messages
	messages      atomic.Uint64
	updates       atomic.Uint64
	bursts        atomic.Uint64
	burstMessages atomic.Uint64
	resizes       atomic.Uint64
	droppedSends  atomic.Uint64

	// Render timing
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64
	renderMinNs   atomic.Int64
	renderMaxNs   atomic.Int64

	// Start time for uptime calculation
	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// Initialize min to max int64 so the first render will be smaller
	m.renderMinNs.Store(1<<63 - 1)
	return m
}

func (m *Metrics) recordMessage() { m.messages.Add(1) }
func (m *Metrics) recordUpdate()  { m.updates.Add(1) }
func (m *Metrics) recordResize()  { m.resizes.Add(1) }
func (m *Metrics) recordDropped() { m.droppedSends.Add(1) }

// recordBurst records a turn that consumed n messages.
func (m *Metrics) recordBurst(n int) {
	if n > 1 {
		m.bursts.Add(1)
		m.burstMessages.Add(uint64(n))
	}
}

// recordRender records render timing.
func (m *Metrics) recordRender(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.renderCount.Add(1)
	m.renderTotalNs.Add(ns)

	// Update min (atomic compare-and-swap loop)
	for {
		old := m.renderMinNs.Load()
		if ns >= old {
			break
		}
		if m.renderMinNs.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.renderMaxNs.Load()
		if ns <= old {
			break
		}
		if m.renderMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	renderCount := m.renderCount.Load()

	var avgRenderNs int64
	if renderCount > 0 {
		avgRenderNs = m.renderTotalNs.Load() / int64(renderCount)
	}

	minRenderNs := m.renderMinNs.Load()
	if minRenderNs == 1<<63-1 {
		minRenderNs = 0
	}

	return MetricsSnapshot{
		Uptime:        time.Since(m.startTime),
		Messages:      m.messages.Load(),
		Updates:       m.updates.Load(),
		Bursts:        m.bursts.Load(),
		BurstMessages: m.burstMessages.Load(),
		Resizes:       m.resizes.Load(),
		DroppedSends:  m.droppedSends.Load(),
		RenderCount:   renderCount,
		AvgRenderNs:   avgRenderNs,
		MinRenderNs:   minRenderNs,
		MaxRenderNs:   m.renderMaxNs.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	Messages      uint64
	Updates       uint64
	Bursts        uint64
	BurstMessages uint64
	Resizes       uint64
	DroppedSends  uint64
	RenderCount   uint64
	AvgRenderNs   int64
	MinRenderNs   int64
	MaxRenderNs   int64
}

// AvgBurst returns the mean number of messages per multi-message turn.
func (s MetricsSnapshot) AvgBurst() float64 {
	if s.Bursts == 0 {
		return 0
	}
	return float64(s.BurstMessages) / float64(s.Bursts)
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
