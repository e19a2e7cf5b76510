package debug

import (
	"fmt"
	"math"
)

// AudioAnalyzer inspects rendered buffers for level and sanity problems.
type AudioAnalyzer struct {
	clippingThreshold float32
	dcThreshold       float32
	silenceThreshold  float32
}

// NewAudioAnalyzer creates a new audio analyzer with default settings.
func NewAudioAnalyzer() *AudioAnalyzer {
	return &AudioAnalyzer{
		clippingThreshold: 0.99,
		dcThreshold:       0.01,
		silenceThreshold:  0.0001,
	}
}

// SetThresholds overrides the clipping, DC and silence thresholds.
func (a *AudioAnalyzer) SetThresholds(clipping, dc, silence float32) {
	a.clippingThreshold = clipping
	a.dcThreshold = dc
	a.silenceThreshold = silence
}

// AnalysisResult contains the results of audio buffer analysis.
type AnalysisResult struct {
	Samples        int
	Peak           float32
	RMS            float32
	DC             float32
	Clipping       bool
	ClippedSamples int
	Silent         bool
	HasNaN         bool
	NaNCount       int // NaN and Inf samples
	ZeroCrossings  int
}

// Analyze measures a mono buffer. Non-finite samples are counted and
// otherwise skipped.
func (a *AudioAnalyzer) Analyze(buffer []float32) AnalysisResult {
	result := AnalysisResult{Samples: len(buffer)}

	if len(buffer) == 0 {
		return result
	}

	var sum, sumSquares float64
	var lastSample float32
	finite := 0

	for _, sample := range buffer {
		s := float64(sample)
		if math.IsNaN(s) || math.IsInf(s, 0) {
			result.HasNaN = true
			result.NaNCount++
			continue
		}

		absSample := float32(math.Abs(s))
		if absSample > result.Peak {
			result.Peak = absSample
		}

		if absSample >= a.clippingThreshold {
			result.Clipping = true
			result.ClippedSamples++
		}

		sum += s
		sumSquares += s * s

		if finite > 0 && (lastSample < 0) != (sample < 0) {
			result.ZeroCrossings++
		}
		lastSample = sample
		finite++
	}

	if finite > 0 {
		result.RMS = float32(math.Sqrt(sumSquares / float64(finite)))
		result.DC = float32(sum / float64(finite))
	}

	result.Silent = result.RMS < a.silenceThreshold

	return result
}

// AnalyzeChannels analyzes each channel of a planar buffer.
func (a *AudioAnalyzer) AnalyzeChannels(channels [][]float32) []AnalysisResult {
	results := make([]AnalysisResult, len(channels))
	for ch, buf := range channels {
		results[ch] = a.Analyze(buf)
	}
	return results
}

// Check returns a description of every problem found in the buffer.
func (a *AudioAnalyzer) Check(buffer []float32, name string) []string {
	var issues []string

	result := a.Analyze(buffer)

	if result.HasNaN {
		issues = append(issues, fmt.Sprintf("%s: Contains %d NaN values", name, result.NaNCount))
	}

	if result.Clipping {
		issues = append(issues, fmt.Sprintf("%s: Clipping detected (%d samples)", name, result.ClippedSamples))
	}

	if math.Abs(float64(result.DC)) > float64(a.dcThreshold) {
		issues = append(issues, fmt.Sprintf("%s: DC offset detected (%.3f)", name, result.DC))
	}

	if result.Peak > 1.0 {
		issues = append(issues, fmt.Sprintf("%s: Peak exceeds 1.0 (%.3f)", name, result.Peak))
	}

	return issues
}

// CompareBuffers compares two audio buffers and reports differences.
func CompareBuffers(a, b []float32, tolerance float32) string {
	if len(a) != len(b) {
		return fmt.Sprintf("Buffer length mismatch: %d vs %d", len(a), len(b))
	}

	var maxDiff float32
	var maxDiffIndex int
	var totalDiff float64
	var diffCount int

	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}

		if diff > tolerance {
			diffCount++
			totalDiff += float64(diff)

			if diff > maxDiff {
				maxDiff = diff
				maxDiffIndex = i
			}
		}
	}

	if diffCount == 0 {
		return "Buffers are identical within tolerance"
	}

	avgDiff := totalDiff / float64(diffCount)

	return fmt.Sprintf("Buffer differences:\n"+
		"  Samples different: %d / %d (%.1f%%)\n"+
		"  Max difference: %.6f at sample %d\n"+
		"  Average difference: %.6f\n"+
		"  Tolerance: %.6f",
		diffCount, len(a), float64(diffCount)/float64(len(a))*100,
		maxDiff, maxDiffIndex,
		avgDiff,
		tolerance)
}

var defaultAnalyzer = NewAudioAnalyzer()

// AnalyzeBuffer performs analysis on a buffer using the default analyzer.
func AnalyzeBuffer(buffer []float32) AnalysisResult {
	return defaultAnalyzer.Analyze(buffer)
}

// CheckBuffer performs sanity checks using the default analyzer.
func CheckBuffer(buffer []float32, name string) []string {
	return defaultAnalyzer.Check(buffer, name)
}

// CheckAudioBuffer logs every issue CheckBuffer finds as a warning.
func CheckAudioBuffer(l *Logger, buffer []float32, name string) int {
	issues := CheckBuffer(buffer, name)
	for _, issue := range issues {
		l.Warn("%s", issue)
	}
	return len(issues)
}

// LogBufferStats logs statistics about an audio buffer.
func LogBufferStats(l *Logger, buffer []float32, name string) {
	result := defaultAnalyzer.Analyze(buffer)

	l.Info("buffer '%s': %d samples, peak %.3f, rms %.3f, dc %.6f, %d zero crossings",
		name, result.Samples, result.Peak, result.RMS, result.DC, result.ZeroCrossings)

	if result.Clipping {
		l.Warn("buffer '%s': clipping in %d samples", name, result.ClippedSamples)
	}
	if result.Silent {
		l.Info("buffer '%s': silent", name)
	}
	if result.HasNaN {
		l.Error("buffer '%s': %d non-finite samples", name, result.NaNCount)
	}
}
