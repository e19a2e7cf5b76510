package analysis

import (
	"math"
	"sync"
)

// CorrelationMeter measures the Pearson correlation between two channels.
// The synth fans one signal out to every channel, so a healthy render reads
// +1 on every pair.
type CorrelationMeter struct {
	mu                  sync.Mutex
	sumL, sumR          float64
	sumLL, sumRR, sumLR float64
	count               int
}

// NewCorrelationMeter creates an empty meter.
func NewCorrelationMeter() *CorrelationMeter {
	return &CorrelationMeter{}
}

// Process accumulates a block of paired samples. Extra samples in the
// longer slice are ignored.
func (cm *CorrelationMeter) Process(samplesL, samplesR []float32) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	n := min(len(samplesL), len(samplesR))
	for i := 0; i < n; i++ {
		l, r := float64(samplesL[i]), float64(samplesR[i])
		cm.sumL += l
		cm.sumR += r
		cm.sumLL += l * l
		cm.sumRR += r * r
		cm.sumLR += l * r
	}
	cm.count += n
}

// GetCorrelation returns -1..1. Silent or constant input reads 0.
func (cm *CorrelationMeter) GetCorrelation() float64 {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.count == 0 {
		return 0
	}

	n := float64(cm.count)
	cov := cm.sumLR - cm.sumL*cm.sumR/n
	varL := cm.sumLL - cm.sumL*cm.sumL/n
	varR := cm.sumRR - cm.sumR*cm.sumR/n

	denom := math.Sqrt(varL * varR)
	if denom < 1e-12 {
		return 0
	}
	return math.Max(-1, math.Min(1, cov/denom))
}

// GetMonoCompatibility maps correlation to 0..1, 1 being fully mono safe.
func (cm *CorrelationMeter) GetMonoCompatibility() float64 {
	return (cm.GetCorrelation() + 1) / 2
}

// Reset clears the accumulated sums.
func (cm *CorrelationMeter) Reset() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.sumL, cm.sumR = 0, 0
	cm.sumLL, cm.sumRR, cm.sumLR = 0, 0, 0
	cm.count = 0
}
