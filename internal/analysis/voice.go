// Package analysis derives stress, anxiety and depression proxies from raw
// voice samples. The measures are screening proxies, not clinical metrics:
// pitch instability (jitter) drives stress, speech burstiness drives anxiety,
// and low spectral brightness drives depression.
package analysis

import (
	"context"
	"math"

	"github.com/KanwarHamza/emotion-detection/internal/assessment"

	"go.uber.org/zap"
)

const (
	pitchMinHz = 100
	pitchMaxHz = 400

	frameSize = 1024
	hopSize   = 512

	// Frames quieter than this (relative to the loudest frame) are treated
	// as silence when segmenting speech.
	silenceFloorDB = -25.0

	// A frame must correlate at least this well with its shifted self to
	// count as voiced.
	minPitchCorrelation = 0.5
)

// Analyzer implements assessment.VoiceAnalyzer over PCM float samples.
type Analyzer struct {
	log *zap.Logger
}

func NewAnalyzer(log *zap.Logger) *Analyzer {
	return &Analyzer{log: log}
}

// Analyze computes the three signal proxies. An absent sample yields
// all-zero metrics and no error; the scoring step must never stall on a
// missing recording.
func (a *Analyzer) Analyze(ctx context.Context, samples []float64, sampleRate int) (assessment.VoiceMetrics, error) {
	if len(samples) == 0 || sampleRate <= 0 {
		return assessment.VoiceMetrics{}, nil
	}

	pitches := pitchTrack(samples, sampleRate)
	jitter := relativeJitter(pitches)
	stress := math.Min(jitter*8, 1.0)

	anxiety := float64(voicedSegments(samples)) / 10.0

	centroid := brightness(samples, sampleRate)
	depression := clamp(1.0-centroid/500.0, 0.0, 1.0)

	if a.log != nil {
		a.log.Debug("voice sample analyzed",
			zap.Int("samples", len(samples)),
			zap.Int("pitch_frames", len(pitches)),
			zap.Float64("jitter", jitter),
			zap.Float64("centroid_hz", centroid),
		)
	}

	return assessment.VoiceMetrics{
		Stress:     stress,
		Anxiety:    anxiety,
		Depression: depression,
	}, nil
}

// pitchTrack estimates a fundamental frequency per voiced frame using
// normalized autocorrelation bounded to the speaking range.
func pitchTrack(samples []float64, sampleRate int) []float64 {
	minLag := sampleRate / pitchMaxHz
	maxLag := sampleRate / pitchMinHz
	if minLag < 1 {
		minLag = 1
	}

	var pitches []float64
	for start := 0; start+frameSize <= len(samples); start += hopSize {
		frame := samples[start : start+frameSize]
		if maxLag >= len(frame) {
			break
		}

		energy := 0.0
		for _, s := range frame {
			energy += s * s
		}
		if energy == 0 {
			continue
		}

		bestLag, bestCorr := 0, 0.0
		for lag := minLag; lag <= maxLag; lag++ {
			corr := 0.0
			for i := 0; i < len(frame)-lag; i++ {
				corr += frame[i] * frame[i+lag]
			}
			corr /= energy
			if corr > bestCorr {
				bestCorr = corr
				bestLag = lag
			}
		}

		if bestLag > 0 && bestCorr >= minPitchCorrelation {
			pitches = append(pitches, float64(sampleRate)/float64(bestLag))
		}
	}
	return pitches
}

// relativeJitter is the mean absolute frame-to-frame pitch change,
// normalized by the mean pitch so deep and high voices measure alike.
func relativeJitter(pitches []float64) float64 {
	if len(pitches) < 2 {
		return 0
	}

	sum, diffSum := 0.0, 0.0
	for i, p := range pitches {
		sum += p
		if i > 0 {
			diffSum += math.Abs(p - pitches[i-1])
		}
	}
	meanPitch := sum / float64(len(pitches))
	if meanPitch == 0 {
		return 0
	}
	return (diffSum / float64(len(pitches)-1)) / meanPitch
}

// voicedSegments counts contiguous runs of frames louder than the silence
// floor, i.e. distinct bursts of speech in the sample.
func voicedSegments(samples []float64) int {
	var rms []float64
	peak := 0.0
	for start := 0; start+frameSize <= len(samples); start += hopSize {
		frame := samples[start : start+frameSize]
		sum := 0.0
		for _, s := range frame {
			sum += s * s
		}
		r := math.Sqrt(sum / float64(len(frame)))
		rms = append(rms, r)
		if r > peak {
			peak = r
		}
	}
	if peak == 0 {
		return 0
	}

	threshold := peak * math.Pow(10, silenceFloorDB/20)
	segments := 0
	inSegment := false
	for _, r := range rms {
		if r >= threshold {
			if !inSegment {
				segments++
				inSegment = true
			}
		} else {
			inSegment = false
		}
	}
	return segments
}

// brightness approximates the spectral centroid from the zero-crossing rate;
// a pure tone at f Hz crosses zero 2f times per second.
func brightness(samples []float64, sampleRate int) float64 {
	if len(samples) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	perSecond := float64(crossings) * float64(sampleRate) / float64(len(samples))
	return perSecond / 2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
