package assessment

import "time"

// Stage is the current position in the assessment flow. Transitions move
// forward only; the single backward edge is the explicit restart from
// StageResults, which discards the session outright.
type Stage string

const (
	StageConsent     Stage = "consent"
	StageUserInfo    Stage = "user_info"
	StageBaseline    Stage = "baseline"
	StageTaskBattery Stage = "task_battery"
	StageResults     Stage = "results"
)

// VoiceMetrics are the per-response signal proxies produced by voice
// analysis. Stress, anxiety and depression are nominally in [0,1].
type VoiceMetrics struct {
	Stress     float64 `json:"stress"`
	Anxiety    float64 `json:"anxiety"`
	Depression float64 `json:"depression"`
}

// TaskResult records how one task was scored.
type TaskResult struct {
	Score   int    `json:"score"`
	Max     int    `json:"max"`
	Emotion string `json:"emotion,omitempty"`
}

// SessionState is the aggregate accumulated across one assessment session.
// It is mutated only by the machine's scoring step; every history gets
// exactly one append per completed task, so all four stay the same length.
type SessionState struct {
	ParticipantName string
	ParticipantAge  int

	TotalScore        int
	StressHistory     []float64
	AnxietyHistory    []float64
	DepressionHistory []float64
	EmotionTimeline   []string
	TaskPerformance   map[string]TaskResult

	StartedAt   time.Time
	CompletedAt time.Time
}

func newSessionState() *SessionState {
	return &SessionState{
		TaskPerformance: make(map[string]TaskResult),
		StartedAt:       time.Now().UTC(),
	}
}

// CompletedTasks is the number of scored responses so far.
func (s *SessionState) CompletedTasks() int {
	return len(s.StressHistory)
}

// clone deep-copies the state so a response step can be applied to a scratch
// copy and committed only when the whole step succeeds.
func (s *SessionState) clone() *SessionState {
	out := *s
	out.StressHistory = append([]float64(nil), s.StressHistory...)
	out.AnxietyHistory = append([]float64(nil), s.AnxietyHistory...)
	out.DepressionHistory = append([]float64(nil), s.DepressionHistory...)
	out.EmotionTimeline = append([]string(nil), s.EmotionTimeline...)
	out.TaskPerformance = make(map[string]TaskResult, len(s.TaskPerformance))
	for q, r := range s.TaskPerformance {
		out.TaskPerformance[q] = r
	}
	return &out
}
