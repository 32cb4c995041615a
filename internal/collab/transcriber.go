// Package collab holds the HTTP clients for the external analysis
// collaborators: speech-to-text and facial-emotion classification. Every
// call is bounded by a timeout, and any failure, timeout included, surfaces
// as an assessment.CollaboratorError so the session flow can fall back to
// its defined defaults instead of stalling.
package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/KanwarHamza/emotion-detection/internal/assessment"
	"github.com/KanwarHamza/emotion-detection/internal/audio"

	"go.uber.org/zap"
)

// WhisperClient transcribes voice samples through a Whisper-style HTTP
// service exposing POST /transcribe accepting a WAV body and returning
// {"text": "..."}.
type WhisperClient struct {
	log     *zap.Logger
	baseURL string
	client  *http.Client
}

func NewWhisperClient(log *zap.Logger, baseURL string, timeout time.Duration) *WhisperClient {
	return &WhisperClient{
		log:     log,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Transcribe implements assessment.Transcriber.
func (c *WhisperClient) Transcribe(ctx context.Context, samples []float64, sampleRate int) (string, error) {
	if c.baseURL == "" {
		return "", &assessment.CollaboratorError{Name: "transcriber", Err: fmt.Errorf("no endpoint configured")}
	}

	wav := audio.Encode(samples, sampleRate)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", bytes.NewReader(wav))
	if err != nil {
		return "", &assessment.CollaboratorError{Name: "transcriber", Err: err}
	}
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &assessment.CollaboratorError{Name: "transcriber", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &assessment.CollaboratorError{Name: "transcriber", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &assessment.CollaboratorError{Name: "transcriber", Err: err}
	}

	c.log.Debug("transcription received", zap.Int("chars", len(body.Text)))
	return body.Text, nil
}
