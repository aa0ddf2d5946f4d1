package app

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsRender(t *testing.T) {
	m := NewMetrics()

	m.recordRender(2 * time.Millisecond)
	m.recordRender(6 * time.Millisecond)
	m.recordRender(4 * time.Millisecond)

	s := m.Snapshot()
	if s.RenderCount != 3 {
		t.Errorf("RenderCount = %d, want 3", s.RenderCount)
	}
	if s.MinRenderNs != int64(2*time.Millisecond) {
		t.Errorf("MinRenderNs = %d", s.MinRenderNs)
	}
	if s.MaxRenderNs != int64(6*time.Millisecond) {
		t.Errorf("MaxRenderNs = %d", s.MaxRenderNs)
	}
	if s.AvgRenderNs != int64(4*time.Millisecond) {
		t.Errorf("AvgRenderNs = %d", s.AvgRenderNs)
	}
}

func TestMetricsEmpty(t *testing.T) {
	s := NewMetrics().Snapshot()
	if s.MinRenderNs != 0 || s.AvgRenderNs != 0 {
		t.Errorf("empty snapshot has render timings: %+v", s)
	}
	if s.AvgBurst() != 0 {
		t.Errorf("AvgBurst() = %v, want 0", s.AvgBurst())
	}
}

func TestMetricsBursts(t *testing.T) {
	m := NewMetrics()
	m.recordBurst(1)
	m.recordBurst(3)
	m.recordBurst(5)

	s := m.Snapshot()
	if s.Bursts != 2 {
		t.Errorf("Bursts = %d, want 2", s.Bursts)
	}
	if s.BurstMessages != 8 {
		t.Errorf("BurstMessages = %d, want 8", s.BurstMessages)
	}
	if s.AvgBurst() != 4 {
		t.Errorf("AvgBurst() = %v, want 4", s.AvgBurst())
	}
}

func TestMetricsConcurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.recordMessage()
				m.recordUpdate()
				m.recordRender(time.Duration(j) * time.Microsecond)
			}
		}()
	}
	wg.Wait()

	s := m.Snapshot()
	if s.Messages != 800 || s.Updates != 800 || s.RenderCount != 800 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.MaxRenderNs != int64(99*time.Microsecond) {
		t.Errorf("MaxRenderNs = %d", s.MaxRenderNs)
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)
	if timer.Elapsed() < time.Millisecond {
		t.Error("Elapsed() shorter than the sleep")
	}
}
