package main

import (
	"fmt"

	"github.com/justyntemme/monosynth/pkg/dsp/analysis"
	"github.com/justyntemme/monosynth/pkg/framework/debug"
)

// report is the analysis of a finished render.
type report struct {
	PeakFreq    float64
	PeakLevel   float64
	Centroid    float64
	PeakDB      float64
	RMSDB       float64
	Correlation []float64 // channel 0 against each other channel
	Issues      int
}

func analyzeRender(logger *debug.Logger, out [][]float32, sampleRate float64, blockSize int) (report, error) {
	var r report
	if len(out) == 0 || len(out[0]) == 0 {
		return r, fmt.Errorf("analyze: %w", analysis.ErrEmptyInput)
	}

	for ch, buf := range out {
		name := fmt.Sprintf("channel %d", ch)
		debug.LogBufferStats(logger, buf, name)
		r.Issues += debug.CheckAudioBuffer(logger, buf, name)
	}

	spectrum, err := analysis.NewSpectrum(out[0], sampleRate, analysis.HannWindow)
	if err != nil {
		return r, fmt.Errorf("analyze: %w", err)
	}
	r.PeakFreq, r.PeakLevel = spectrum.PeakFrequency(20, sampleRate/2)
	r.Centroid = spectrum.Centroid()
	logger.Info("spectrum: peak %.1f Hz at %.1f dB, centroid %.1f Hz",
		r.PeakFreq, analysis.ToDB(r.PeakLevel), r.Centroid)

	// Meter the render the way a live meter would, block by block
	peak := analysis.NewPeakMeter(sampleRate)
	rms := analysis.NewRMSMeter(int(0.3 * sampleRate))
	for pos := 0; pos < len(out[0]); pos += blockSize {
		block := out[0][pos:min(pos+blockSize, len(out[0]))]
		peak.Process(block)
		rms.Process(block)
	}
	r.PeakDB = peak.GetHoldDB()
	r.RMSDB = rms.GetRMSDB()
	logger.Info("meters: peak hold %.1f dBFS, rms (last 300ms) %.1f dBFS", r.PeakDB, r.RMSDB)

	for ch := 1; ch < len(out); ch++ {
		cm := analysis.NewCorrelationMeter()
		cm.Process(out[0], out[ch])
		c := cm.GetCorrelation()
		r.Correlation = append(r.Correlation, c)
		logger.Info("correlation channel 0/%d: %+.3f", ch, c)
	}

	return r, nil
}
