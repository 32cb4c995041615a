package assessment

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotEmptySession(t *testing.T) {
	summary := Snapshot(newSessionState(), 11)

	assert.Zero(t, summary.TotalScore)
	assert.Equal(t, 11, summary.MaxScore)
	assert.Zero(t, summary.CompletedTasks)
	assert.True(t, math.IsNaN(summary.MeanStress))
	assert.True(t, math.IsNaN(summary.MeanAnxiety))
	assert.True(t, math.IsNaN(summary.MeanDepression))
	assert.Empty(t, summary.TaskPerformance)
	assert.Empty(t, summary.EmotionSet)
}

func TestSnapshotMeans(t *testing.T) {
	session := newSessionState()
	session.StressHistory = []float64{0.2, 0.4, 0.6}
	session.AnxietyHistory = []float64{0.1, 0.1, 0.1}
	session.DepressionHistory = []float64{0.0, 0.5, 1.0}
	session.EmotionTimeline = []string{"happy", "neutral", "happy"}
	session.TaskPerformance = map[string]TaskResult{
		"q1": {Score: 1, Max: 1},
		"q2": {Score: 0, Max: 1},
		"q3": {Score: 3, Max: 3},
	}
	session.TotalScore = 4

	summary := Snapshot(session, 11)
	assert.InDelta(t, 0.4, summary.MeanStress, 1e-9)
	assert.InDelta(t, 0.1, summary.MeanAnxiety, 1e-9)
	assert.InDelta(t, 0.5, summary.MeanDepression, 1e-9)
	assert.Equal(t, []string{"happy", "neutral"}, summary.EmotionSet)
	assert.Equal(t, 4, summary.TotalScore)
}

func TestSnapshotIdempotent(t *testing.T) {
	m, _ := newTestMachine("2024", "summer", "apple")
	advanceToBattery(t, m)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := m.SubmitResponse(ctx, Submission{Audio: sampleAudio(), SampleRate: 16000})
		require.NoError(t, err)
	}

	first := m.Snapshot()
	second := m.Snapshot()
	assert.Equal(t, first, second)
}

func TestSnapshotIsACopy(t *testing.T) {
	m, _ := newTestMachine("2024")
	advanceToBattery(t, m)

	_, err := m.SubmitResponse(context.Background(), Submission{Audio: sampleAudio(), SampleRate: 16000})
	require.NoError(t, err)

	summary := m.Snapshot()
	for q := range summary.TaskPerformance {
		summary.TaskPerformance[q] = TaskResult{Score: 999, Max: 999}
	}

	// Mutating the snapshot must not reach back into the session.
	fresh := m.Snapshot()
	for _, perf := range fresh.TaskPerformance {
		assert.NotEqual(t, 999, perf.Score)
	}
}
