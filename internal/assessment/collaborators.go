package assessment

import "context"

// The machine never talks to capture or analysis services directly; it
// consumes them through these interfaces so a failed or absent collaborator
// degrades to a defined default instead of blocking the session.

// VoiceAnalyzer derives stress/anxiety/depression proxies from a voice
// sample.
type VoiceAnalyzer interface {
	Analyze(ctx context.Context, samples []float64, sampleRate int) (VoiceMetrics, error)
}

// Transcriber converts a voice sample to text.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float64, sampleRate int) (string, error)
}

// EmotionClassifier labels a face image with one of a fixed emotion set.
type EmotionClassifier interface {
	Classify(ctx context.Context, image []byte) (string, error)
}
