package debug

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Profiler collects timing statistics for named sections.
type Profiler struct {
	mu           sync.RWMutex
	measurements map[string]*Measurement
	enabled      atomic.Bool
	maxSamples   int
}

// Measurement holds timing statistics for a profiled section.
type Measurement struct {
	name        string
	count       uint64
	totalTime   time.Duration
	minTime     time.Duration
	maxTime     time.Duration
	lastTime    time.Duration
	samples     []time.Duration
	sampleIndex int
}

// NewProfiler creates a new profiler keeping the last maxSamples timings
// of each section for percentiles.
func NewProfiler(maxSamples int) *Profiler {
	if maxSamples < 1 {
		maxSamples = 1
	}
	p := &Profiler{
		measurements: make(map[string]*Measurement),
		maxSamples:   maxSamples,
	}
	p.enabled.Store(true)
	return p
}

// SetEnabled enables or disables profiling.
func (p *Profiler) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// IsEnabled returns whether profiling is enabled.
func (p *Profiler) IsEnabled() bool {
	return p.enabled.Load()
}

// Start begins timing a named section. Call the returned func to stop.
func (p *Profiler) Start(name string) func() {
	if !p.enabled.Load() {
		return func() {} // No-op
	}

	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Time measures the execution time of a function.
func (p *Profiler) Time(name string, fn func()) {
	stop := p.Start(name)
	defer stop()
	fn()
}

// Record stores a timing measurement.
func (p *Profiler) Record(name string, elapsed time.Duration) {
	if !p.enabled.Load() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		m = &Measurement{
			name:    name,
			minTime: elapsed,
			maxTime: elapsed,
			samples: make([]time.Duration, p.maxSamples),
		}
		p.measurements[name] = m
	}

	m.count++
	m.totalTime += elapsed
	m.lastTime = elapsed

	if elapsed < m.minTime {
		m.minTime = elapsed
	}
	if elapsed > m.maxTime {
		m.maxTime = elapsed
	}

	m.samples[m.sampleIndex] = elapsed
	m.sampleIndex = (m.sampleIndex + 1) % len(m.samples)
}

// GetMeasurement returns a copy of the measurement for a named section.
func (p *Profiler) GetMeasurement(name string) (Measurement, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, exists := p.measurements[name]
	if !exists {
		return Measurement{}, false
	}
	return m.clone(), true
}

// GetAllMeasurements returns copies of all measurements.
func (p *Profiler) GetAllMeasurements() map[string]Measurement {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make(map[string]Measurement, len(p.measurements))
	for k, v := range p.measurements {
		result[k] = v.clone()
	}
	return result
}

// Reset clears all measurements.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.measurements = make(map[string]*Measurement)
}

// Report generates a performance report, sections sorted by name.
func (p *Profiler) Report() string {
	measurements := p.GetAllMeasurements()
	if len(measurements) == 0 {
		return "No measurements recorded"
	}

	names := make([]string, 0, len(measurements))
	for name := range measurements {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Performance Report:\n")
	sb.WriteString("==================\n\n")

	for _, name := range names {
		m := measurements[name]
		fmt.Fprintf(&sb, "%s:\n", name)
		fmt.Fprintf(&sb, "  Count:   %d\n", m.count)
		fmt.Fprintf(&sb, "  Total:   %v\n", m.totalTime)
		fmt.Fprintf(&sb, "  Average: %v\n", m.Average())
		fmt.Fprintf(&sb, "  Min:     %v\n", m.minTime)
		fmt.Fprintf(&sb, "  Max:     %v\n", m.maxTime)
		fmt.Fprintf(&sb, "  P99:     %v\n", m.Percentile(99))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m *Measurement) clone() Measurement {
	c := *m
	c.samples = append([]time.Duration(nil), m.samples...)
	return c
}

// Measurement methods

// Name returns the section name.
func (m Measurement) Name() string { return m.name }

// Count returns how many timings were recorded.
func (m Measurement) Count() uint64 { return m.count }

// Total returns the summed time.
func (m Measurement) Total() time.Duration { return m.totalTime }

// Min returns the shortest timing.
func (m Measurement) Min() time.Duration { return m.minTime }

// Max returns the longest timing.
func (m Measurement) Max() time.Duration { return m.maxTime }

// Last returns the most recent timing.
func (m Measurement) Last() time.Duration { return m.lastTime }

// Average returns the average time for this measurement.
func (m Measurement) Average() time.Duration {
	if m.count == 0 {
		return 0
	}
	return m.totalTime / time.Duration(m.count)
}

// Percentile returns the given percentile (0-100) of the retained samples.
func (m Measurement) Percentile(p float64) time.Duration {
	n := int(m.count)
	if n > len(m.samples) {
		n = len(m.samples)
	}
	if n == 0 {
		return 0
	}

	sorted := append([]time.Duration(nil), m.samples[:n]...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	index := int(float64(n-1) * p / 100.0)
	return sorted[index]
}

// BlockSection is the measurement name used by BlockProfiler.
const BlockSection = "block"

// BlockProfiler times audio blocks against their real-time budget: a block
// of n samples at rate sr must finish within n/sr seconds.
type BlockProfiler struct {
	*Profiler
	sampleRate float64

	samples  atomic.Uint64
	busy     atomic.Int64 // nanoseconds
	overruns atomic.Uint64
}

// NewBlockProfiler creates a profiler for blocks rendered at sampleRate.
func NewBlockProfiler(sampleRate float64) *BlockProfiler {
	return &BlockProfiler{
		Profiler:   NewProfiler(1000),
		sampleRate: sampleRate,
	}
}

// Budget returns the real-time duration of n samples.
func (b *BlockProfiler) Budget(n int) time.Duration {
	if b.sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(n) / b.sampleRate * float64(time.Second))
}

// RecordBlock stores the time taken to render n samples and reports whether
// it overran the block's budget.
func (b *BlockProfiler) RecordBlock(n int, elapsed time.Duration) bool {
	b.Record(BlockSection, elapsed)
	b.samples.Add(uint64(n))
	b.busy.Add(int64(elapsed))

	if elapsed > b.Budget(n) {
		b.overruns.Add(1)
		return true
	}
	return false
}

// Overruns returns how many blocks missed their budget.
func (b *BlockProfiler) Overruns() uint64 {
	return b.overruns.Load()
}

// Load returns processing time as a percentage of the audio time rendered.
func (b *BlockProfiler) Load() float64 {
	audio := b.Budget(int(b.samples.Load()))
	if audio <= 0 {
		return 0
	}
	return float64(b.busy.Load()) / float64(audio) * 100.0
}

// AudioReport generates the block report.
func (b *BlockProfiler) AudioReport() string {
	var sb strings.Builder
	sb.WriteString(b.Report())
	sb.WriteString("\nAudio Processing Stats:\n")
	fmt.Fprintf(&sb, "  Sample Rate:  %.0f Hz\n", b.sampleRate)
	fmt.Fprintf(&sb, "  Samples:      %d\n", b.samples.Load())
	fmt.Fprintf(&sb, "  CPU Load:     %.2f%%\n", b.Load())
	fmt.Fprintf(&sb, "  Overruns:     %d\n", b.Overruns())
	return sb.String()
}
