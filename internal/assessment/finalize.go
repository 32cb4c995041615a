package assessment

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

// Summary is the immutable view of a session handed to the report and
// persistence layers. Means over empty histories are NaN, never an error.
type Summary struct {
	ParticipantName string                `json:"participant_name"`
	ParticipantAge  int                   `json:"participant_age"`
	TotalScore      int                   `json:"total_score"`
	MaxScore        int                   `json:"max_score"`
	CompletedTasks  int                   `json:"completed_tasks"`
	MeanStress      float64               `json:"mean_stress"`
	MeanAnxiety     float64               `json:"mean_anxiety"`
	MeanDepression  float64               `json:"mean_depression"`
	TaskPerformance map[string]TaskResult `json:"task_performance"`
	EmotionSet      []string              `json:"emotion_set"`
	StartedAt       time.Time             `json:"started_at"`
	CompletedAt     time.Time             `json:"completed_at,omitempty"`
}

// Snapshot builds a Summary from a session aggregate. Pure: it copies
// everything it exposes, so repeated calls without an intervening transition
// are identical and the caller cannot reach back into the session.
func Snapshot(session *SessionState, maxScore int) Summary {
	perf := make(map[string]TaskResult, len(session.TaskPerformance))
	for q, r := range session.TaskPerformance {
		perf[q] = r
	}

	return Summary{
		ParticipantName: session.ParticipantName,
		ParticipantAge:  session.ParticipantAge,
		TotalScore:      session.TotalScore,
		MaxScore:        maxScore,
		CompletedTasks:  session.CompletedTasks(),
		MeanStress:      mean(session.StressHistory),
		MeanAnxiety:     mean(session.AnxietyHistory),
		MeanDepression:  mean(session.DepressionHistory),
		TaskPerformance: perf,
		EmotionSet:      uniqueLabels(session.EmotionTimeline),
		StartedAt:       session.StartedAt,
		CompletedAt:     session.CompletedAt,
	}
}

func mean(history []float64) float64 {
	m, err := stats.Mean(history)
	if err != nil {
		return math.NaN()
	}
	return m
}

// uniqueLabels keeps first-seen order and drops empty entries.
func uniqueLabels(timeline []string) []string {
	seen := make(map[string]bool, len(timeline))
	out := make([]string, 0, len(timeline))
	for _, label := range timeline {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}
