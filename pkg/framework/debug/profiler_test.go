package debug

import (
	"strings"
	"testing"
	"time"
)

func TestProfiler(t *testing.T) {
	t.Run("BasicProfiling", func(t *testing.T) {
		p := NewProfiler(100)

		stop := p.Start("test")
		time.Sleep(10 * time.Millisecond)
		stop()

		m, exists := p.GetMeasurement("test")
		if !exists {
			t.Fatal("Measurement not found")
		}
		if m.Count() != 1 {
			t.Errorf("Expected count 1, got %d", m.Count())
		}
		if m.Last() < 10*time.Millisecond {
			t.Error("Timing seems too short")
		}
		if m.Name() != "test" {
			t.Errorf("Name() = %s", m.Name())
		}
	})

	t.Run("Statistics", func(t *testing.T) {
		p := NewProfiler(100)
		for _, ms := range []int{5, 1, 3, 2, 4} {
			p.Record("stats", time.Duration(ms)*time.Millisecond)
		}

		m, _ := p.GetMeasurement("stats")
		if m.Count() != 5 {
			t.Errorf("Expected count 5, got %d", m.Count())
		}
		if m.Min() != time.Millisecond || m.Max() != 5*time.Millisecond {
			t.Errorf("min/max = %v/%v", m.Min(), m.Max())
		}
		if m.Average() != 3*time.Millisecond {
			t.Errorf("Average() = %v, want 3ms", m.Average())
		}
		if m.Total() != 15*time.Millisecond {
			t.Errorf("Total() = %v, want 15ms", m.Total())
		}
		if m.Percentile(50) != 3*time.Millisecond {
			t.Errorf("P50 = %v, want 3ms", m.Percentile(50))
		}
		if m.Percentile(100) != 5*time.Millisecond || m.Percentile(0) != time.Millisecond {
			t.Errorf("P0/P100 = %v/%v", m.Percentile(0), m.Percentile(100))
		}
	})

	t.Run("RingWraps", func(t *testing.T) {
		p := NewProfiler(2)
		p.Record("ring", time.Second)
		p.Record("ring", 2*time.Millisecond)
		p.Record("ring", 4*time.Millisecond)

		m, _ := p.GetMeasurement("ring")
		if m.Percentile(100) != 4*time.Millisecond {
			t.Errorf("old sample retained: P100 = %v", m.Percentile(100))
		}
		if m.Max() != time.Second {
			t.Errorf("Max() = %v, want 1s", m.Max())
		}
	})

	t.Run("TimeFunction", func(t *testing.T) {
		p := NewProfiler(100)

		called := false
		p.Time("function", func() {
			called = true
		})

		if !called {
			t.Error("Function not called")
		}
		if m, exists := p.GetMeasurement("function"); !exists || m.Count() != 1 {
			t.Error("Expected one measurement")
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		p := NewProfiler(100)
		p.SetEnabled(false)

		p.Start("disabled")()
		p.Record("disabled", time.Millisecond)

		if _, exists := p.GetMeasurement("disabled"); exists {
			t.Error("Measurement should not exist when disabled")
		}
		if p.IsEnabled() {
			t.Error("IsEnabled() = true")
		}
	})

	t.Run("Reset", func(t *testing.T) {
		p := NewProfiler(100)
		p.Record("reset", time.Millisecond)
		p.Reset()

		if len(p.GetAllMeasurements()) != 0 {
			t.Error("Measurements not cleared")
		}
		if p.Report() != "No measurements recorded" {
			t.Errorf("empty report = %q", p.Report())
		}
	})

	t.Run("Report", func(t *testing.T) {
		p := NewProfiler(100)
		p.Record("task2", 2*time.Millisecond)
		p.Record("task1", time.Millisecond)

		report := p.Report()
		if !strings.Contains(report, "Performance Report") {
			t.Error("Missing report header")
		}
		i1, i2 := strings.Index(report, "task1"), strings.Index(report, "task2")
		if i1 < 0 || i2 < 0 || i1 > i2 {
			t.Errorf("sections missing or unsorted:\n%s", report)
		}
	})
}

func TestBlockProfiler(t *testing.T) {
	b := NewBlockProfiler(48000)

	if b.Budget(480) != 10*time.Millisecond {
		t.Fatalf("Budget(480) = %v, want 10ms", b.Budget(480))
	}

	if b.RecordBlock(480, 2*time.Millisecond) {
		t.Error("2ms block reported as overrun")
	}
	if !b.RecordBlock(480, 12*time.Millisecond) {
		t.Error("12ms block not reported as overrun")
	}

	if b.Overruns() != 1 {
		t.Errorf("Overruns() = %d, want 1", b.Overruns())
	}
	// 14ms of work for 20ms of audio
	if load := b.Load(); load < 69.9 || load > 70.1 {
		t.Errorf("Load() = %f, want 70", load)
	}

	m, ok := b.GetMeasurement(BlockSection)
	if !ok || m.Count() != 2 {
		t.Errorf("block measurement = %v, %t", m.Count(), ok)
	}

	report := b.AudioReport()
	for _, want := range []string{"Sample Rate:  48000 Hz", "Samples:      960", "Overruns:     1"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	if NewBlockProfiler(0).Load() != 0 {
		t.Error("zero-rate profiler reported load")
	}
}
