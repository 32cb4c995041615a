package collab

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KanwarHamza/emotion-detection/internal/assessment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWhisperClientTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transcribe", r.URL.Path)
		assert.Equal(t, "audio/wav", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"text": "no ifs ands or buts"}`))
	}))
	defer server.Close()

	client := NewWhisperClient(zap.NewNop(), server.URL, 5*time.Second)
	text, err := client.Transcribe(context.Background(), []float64{0.1, 0.2}, 16000)
	require.NoError(t, err)
	assert.Equal(t, "no ifs ands or buts", text)
}

func TestWhisperClientFailuresAreCollaboratorErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) *WhisperClient
	}{
		{
			name: "no endpoint configured",
			setup: func(t *testing.T) *WhisperClient {
				return NewWhisperClient(zap.NewNop(), "", time.Second)
			},
		},
		{
			name: "server error status",
			setup: func(t *testing.T) *WhisperClient {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusInternalServerError)
				}))
				t.Cleanup(server.Close)
				return NewWhisperClient(zap.NewNop(), server.URL, time.Second)
			},
		},
		{
			name: "malformed body",
			setup: func(t *testing.T) *WhisperClient {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte("not json"))
				}))
				t.Cleanup(server.Close)
				return NewWhisperClient(zap.NewNop(), server.URL, time.Second)
			},
		},
		{
			name: "timeout",
			setup: func(t *testing.T) *WhisperClient {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					time.Sleep(200 * time.Millisecond)
				}))
				t.Cleanup(server.Close)
				return NewWhisperClient(zap.NewNop(), server.URL, 20*time.Millisecond)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := tt.setup(t)
			_, err := client.Transcribe(context.Background(), []float64{0.1}, 16000)

			var cErr *assessment.CollaboratorError
			require.True(t, errors.As(err, &cErr), "want CollaboratorError, got %v", err)
			assert.Equal(t, "transcriber", cErr.Name)
		})
	}
}

func TestEmotionClientClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/classify", r.URL.Path)
		w.Write([]byte(`{"emotion": "happy"}`))
	}))
	defer server.Close()

	client := NewEmotionClient(zap.NewNop(), server.URL, 5*time.Second)
	label, err := client.Classify(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "happy", label)
}

func TestEmotionClientCoercesUnknownLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"emotion": "bewildered"}`))
	}))
	defer server.Close()

	client := NewEmotionClient(zap.NewNop(), server.URL, 5*time.Second)
	label, err := client.Classify(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "neutral", label)
}

func TestEmotionClientFailure(t *testing.T) {
	client := NewEmotionClient(zap.NewNop(), "", time.Second)
	_, err := client.Classify(context.Background(), []byte("jpeg"))

	var cErr *assessment.CollaboratorError
	require.True(t, errors.As(err, &cErr))
	assert.Equal(t, "emotion_classifier", cErr.Name)
}
