package assessment

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/KanwarHamza/emotion-detection/internal/models"

	"go.uber.org/zap"
)

// ScoringMode selects how a response earns its points.
type ScoringMode string

const (
	// ScoreByTranscript matches the transcription against the task's
	// answer key. This is the canonical mode.
	ScoreByTranscript ScoringMode = "transcript"
	// ScoreByVerification trusts an explicit confirmation flag on the
	// submission instead of transcribing. Lower fidelity, kept for
	// deployments without a transcription service.
	ScoreByVerification ScoringMode = "verify"
)

// cursor is the transient task-battery traversal state. It exists only while
// the stage is StageTaskBattery and is never persisted.
type cursor struct {
	categoryIndex   int
	remaining       []models.Task
	currentQuestion string
}

func (c *cursor) clone() *cursor {
	out := *c
	out.remaining = append([]models.Task(nil), c.remaining...)
	return &out
}

// Submission is one response to the current task.
type Submission struct {
	Audio      []float64
	SampleRate int
	Image      []byte
	// Verified is consulted only in ScoreByVerification mode.
	Verified bool
}

// StepResult describes what one completed response step did.
type StepResult struct {
	Question   string       `json:"question"`
	Category   string       `json:"category"`
	Score      int          `json:"score"`
	Max        int          `json:"max"`
	Transcript string       `json:"transcript,omitempty"`
	Emotion    string       `json:"emotion,omitempty"`
	Metrics    VoiceMetrics `json:"metrics"`
	// Stage after the step; NextQuestion is empty once it is StageResults.
	Stage        Stage  `json:"stage"`
	NextQuestion string `json:"next_question,omitempty"`
}

// BaselineStatus reports which neutral reference samples are held.
type BaselineStatus struct {
	FaceCaptured  bool `json:"face_captured"`
	VoiceCaptured bool `json:"voice_captured"`
	// Ready is true once both samples are held and the stage has advanced.
	Ready bool `json:"ready"`
}

// Machine drives one assessment session: consent, enrollment, baseline
// capture, the task battery, and results. Its only mutable fields are the
// stage, the cursor and the session aggregate; collaborators and the catalog
// are fixed at construction. All transitions are serialized by an internal
// mutex, so one machine handles one trigger at a time.
type Machine struct {
	log         *zap.Logger
	catalog     *models.Catalog
	voice       VoiceAnalyzer
	transcriber Transcriber
	emotions    EmotionClassifier
	mode        ScoringMode

	mu      sync.Mutex
	stage   Stage
	cur     *cursor
	session *SessionState

	baselineFace  []byte
	baselineVoice []float64
	baselineRate  int
}

// NewMachine creates a session machine at the consent stage. Any collaborator
// may be nil; a nil collaborator behaves like a permanently unavailable one.
func NewMachine(log *zap.Logger, catalog *models.Catalog, voice VoiceAnalyzer, transcriber Transcriber, emotions EmotionClassifier, mode ScoringMode) *Machine {
	if mode != ScoreByVerification {
		mode = ScoreByTranscript
	}
	return &Machine{
		log:         log,
		catalog:     catalog,
		voice:       voice,
		transcriber: transcriber,
		emotions:    emotions,
		mode:        mode,
		stage:       StageConsent,
		session:     newSessionState(),
	}
}

// Stage returns the current stage.
func (m *Machine) Stage() Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage
}

// CurrentQuestion returns the question being asked. The second return is
// false outside the task-battery stage.
func (m *Machine) CurrentQuestion() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StageTaskBattery || m.cur == nil {
		return "", false
	}
	return m.cur.currentQuestion, true
}

// Current returns the question being asked and its category name. The last
// return is false outside the task-battery stage.
func (m *Machine) Current() (question, category string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StageTaskBattery || m.cur == nil {
		return "", "", false
	}
	return m.cur.currentQuestion, m.catalog.Categories[m.cur.categoryIndex].Name, true
}

// Progress returns completed and total task counts.
func (m *Machine) Progress() (done, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.CompletedTasks(), m.catalog.TaskCount()
}

// GiveConsent moves Consent -> UserInfo. No session data is touched.
func (m *Machine) GiveConsent() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StageConsent {
		return &WrongStageError{Op: "consent", Stage: m.stage}
	}
	m.stage = StageUserInfo
	return nil
}

// ProvideIdentity moves UserInfo -> Baseline after validating the
// participant's name and age. On validation failure the stage is unchanged
// and the caller re-prompts.
func (m *Machine) ProvideIdentity(name string, age int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StageUserInfo {
		return &WrongStageError{Op: "identity", Stage: m.stage}
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if age < 18 || age > 120 {
		return &ValidationError{Field: "age", Reason: "must be between 18 and 120"}
	}
	m.session.ParticipantName = trimmed
	m.session.ParticipantAge = age
	m.stage = StageBaseline
	return nil
}

// RecordBaseline stores whichever neutral reference samples the call carries.
// The stage advances to the task battery only once both a face image and a
// voice sample are held; until then the call is a no-op on the stage.
// Baseline samples are reference context only and are never scored or
// appended to the signal histories.
func (m *Machine) RecordBaseline(face []byte, voice []float64, sampleRate int) (BaselineStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StageBaseline {
		return BaselineStatus{}, &WrongStageError{Op: "baseline", Stage: m.stage}
	}
	if len(face) > 0 {
		m.baselineFace = face
	}
	if len(voice) > 0 {
		m.baselineVoice = voice
		m.baselineRate = sampleRate
	}

	status := BaselineStatus{
		FaceCaptured:  len(m.baselineFace) > 0,
		VoiceCaptured: len(m.baselineVoice) > 0,
	}
	if status.FaceCaptured && status.VoiceCaptured {
		m.enterTaskBattery()
		status.Ready = true
	}
	return status, nil
}

func (m *Machine) enterTaskBattery() {
	first := m.catalog.Categories[0]
	m.cur = &cursor{
		categoryIndex:   0,
		remaining:       append([]models.Task(nil), first.Tasks...),
		currentQuestion: first.Tasks[0].Question,
	}
	m.stage = StageTaskBattery
}

// SubmitResponse scores one response against the current task and advances
// the battery. Collaborator failures degrade to defaults and never block the
// step; the session aggregate is updated atomically, so a returned error
// means nothing was recorded. The only error that can escape besides a
// wrong-stage call is a StateConsistencyError.
func (m *Machine) SubmitResponse(ctx context.Context, sub Submission) (*StepResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StageTaskBattery {
		return nil, &WrongStageError{Op: "response", Stage: m.stage}
	}

	// Work on scratch copies; commit only after the whole step succeeds.
	sess := m.session.clone()
	cur := m.cur.clone()

	if len(cur.remaining) == 0 {
		return nil, &StateConsistencyError{Expected: cur.currentQuestion, Got: "(empty cursor)"}
	}
	task := cur.remaining[0]
	if task.Question != cur.currentQuestion {
		return nil, &StateConsistencyError{Expected: cur.currentQuestion, Got: task.Question}
	}
	cur.remaining = cur.remaining[1:]
	category := m.catalog.Categories[cur.categoryIndex].Name

	metrics := m.analyzeVoice(ctx, sub)
	transcript := m.transcribe(ctx, sub)
	emotion := m.classifyEmotion(ctx, sub)

	score := 0
	switch m.mode {
	case ScoreByVerification:
		if sub.Verified {
			score = task.Points
		}
	default:
		if task.Answer.Matches(transcript) {
			score = task.Points
		}
	}

	sess.TotalScore += score
	sess.StressHistory = append(sess.StressHistory, metrics.Stress)
	sess.AnxietyHistory = append(sess.AnxietyHistory, metrics.Anxiety)
	sess.DepressionHistory = append(sess.DepressionHistory, metrics.Depression)

	// The timeline carries the facial label when a frame was classified,
	// otherwise the transcription stands in for it.
	timelineEntry := emotion
	if timelineEntry == "" {
		timelineEntry = transcript
	}
	sess.EmotionTimeline = append(sess.EmotionTimeline, timelineEntry)
	sess.TaskPerformance[task.Question] = TaskResult{Score: score, Max: task.Points, Emotion: emotion}

	stage := StageTaskBattery
	if len(cur.remaining) == 0 {
		cur.categoryIndex++
		if cur.categoryIndex >= len(m.catalog.Categories) {
			stage = StageResults
			sess.CompletedAt = time.Now().UTC()
			cur = nil
		} else {
			next := m.catalog.Categories[cur.categoryIndex]
			cur.remaining = append([]models.Task(nil), next.Tasks...)
			cur.currentQuestion = cur.remaining[0].Question
		}
	} else {
		cur.currentQuestion = cur.remaining[0].Question
	}

	m.session = sess
	m.cur = cur
	m.stage = stage

	result := &StepResult{
		Question:   task.Question,
		Category:   category,
		Score:      score,
		Max:        task.Points,
		Transcript: transcript,
		Emotion:    emotion,
		Metrics:    metrics,
		Stage:      stage,
	}
	if cur != nil {
		result.NextQuestion = cur.currentQuestion
	}
	return result, nil
}

func (m *Machine) analyzeVoice(ctx context.Context, sub Submission) VoiceMetrics {
	if len(sub.Audio) == 0 || m.voice == nil {
		return VoiceMetrics{}
	}
	metrics, err := m.voice.Analyze(ctx, sub.Audio, sub.SampleRate)
	if err != nil {
		m.warnCollaborator("voice_analyzer", err)
		return VoiceMetrics{}
	}
	return metrics
}

func (m *Machine) transcribe(ctx context.Context, sub Submission) string {
	if m.mode != ScoreByTranscript || len(sub.Audio) == 0 || m.transcriber == nil {
		return ""
	}
	text, err := m.transcriber.Transcribe(ctx, sub.Audio, sub.SampleRate)
	if err != nil {
		m.warnCollaborator("transcriber", err)
		return ""
	}
	return text
}

func (m *Machine) classifyEmotion(ctx context.Context, sub Submission) string {
	if len(sub.Image) == 0 || m.emotions == nil {
		return ""
	}
	label, err := m.emotions.Classify(ctx, sub.Image)
	if err != nil {
		m.warnCollaborator("emotion_classifier", err)
		return "neutral"
	}
	return label
}

func (m *Machine) warnCollaborator(name string, err error) {
	if m.log != nil {
		cerr := &CollaboratorError{Name: name, Err: err}
		m.log.Warn("collaborator failed, using default", zap.String("collaborator", name), zap.Error(cerr))
	}
}

// Restart moves Results -> Consent, discarding the session and baseline
// samples. A fresh aggregate replaces the old one; nothing is partially
// reset.
func (m *Machine) Restart() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StageResults {
		return &WrongStageError{Op: "restart", Stage: m.stage}
	}
	m.session = newSessionState()
	m.cur = nil
	m.baselineFace = nil
	m.baselineVoice = nil
	m.baselineRate = 0
	m.stage = StageConsent
	return nil
}

// Snapshot produces the read-only summary of the current session. Safe to
// call at any stage and repeatedly; it never mutates the session.
func (m *Machine) Snapshot() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot(m.session, m.catalog.MaxScore())
}

// Session returns a deep copy of the aggregate, for persistence at the
// results stage.
func (m *Machine) Session() *SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.clone()
}
