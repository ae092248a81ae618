// Package analysis measures rendered synth output.
package analysis

import "math"

// Levels summarizes the amplitude of a signal.
type Levels struct {
	Frames   int     `json:"frames"`
	Peak     float64 `json:"peak"`
	RMS      float64 `json:"rms"`
	PeakDBFS float64 `json:"peak_dbfs"`
	RMSDBFS  float64 `json:"rms_dbfs"`
	Clipped  int     `json:"clipped"` // samples with |x| > 1
}

// Measure returns peak and RMS levels of samples.
func Measure(samples []float32) Levels {
	l := Levels{Frames: len(samples)}
	if len(samples) == 0 {
		l.PeakDBFS = math.Inf(-1)
		l.RMSDBFS = math.Inf(-1)
		return l
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		a := math.Abs(v)
		if a > l.Peak {
			l.Peak = a
		}
		if a > 1 {
			l.Clipped++
		}
		sum += v * v
	}
	l.RMS = math.Sqrt(sum / float64(len(samples)))
	l.PeakDBFS = linToDB(l.Peak)
	l.RMSDBFS = linToDB(l.RMS)
	return l
}

func linToDB(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(x)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
