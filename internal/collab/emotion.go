package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/KanwarHamza/emotion-detection/internal/assessment"

	"go.uber.org/zap"
)

// FaceEmotions is the fixed label set the classifier may return. Anything
// outside it is coerced to neutral.
var FaceEmotions = []string{"angry", "disgust", "fear", "happy", "neutral", "sad", "surprise"}

// EmotionClient labels face images through an HTTP classification service
// exposing POST /classify accepting an image body and returning
// {"emotion": "..."}.
type EmotionClient struct {
	log     *zap.Logger
	baseURL string
	client  *http.Client
}

func NewEmotionClient(log *zap.Logger, baseURL string, timeout time.Duration) *EmotionClient {
	return &EmotionClient{
		log:     log,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Classify implements assessment.EmotionClassifier.
func (c *EmotionClient) Classify(ctx context.Context, image []byte) (string, error) {
	if c.baseURL == "" {
		return "", &assessment.CollaboratorError{Name: "emotion_classifier", Err: fmt.Errorf("no endpoint configured")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(image))
	if err != nil {
		return "", &assessment.CollaboratorError{Name: "emotion_classifier", Err: err}
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &assessment.CollaboratorError{Name: "emotion_classifier", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &assessment.CollaboratorError{Name: "emotion_classifier", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body struct {
		Emotion string `json:"emotion"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &assessment.CollaboratorError{Name: "emotion_classifier", Err: err}
	}

	for _, label := range FaceEmotions {
		if body.Emotion == label {
			return label, nil
		}
	}
	c.log.Warn("classifier returned unknown label, coercing to neutral", zap.String("label", body.Emotion))
	return "neutral", nil
}
