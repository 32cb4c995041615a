package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/KanwarHamza/emotion-detection/internal/assessment"
	"github.com/KanwarHamza/emotion-detection/internal/audio"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionIDKey = "assessmentID"

// SaveFunc persists a finished session; wired to the repository in main and
// left nil in tests or when running without a database.
type SaveFunc func(session *assessment.SessionState, summary assessment.Summary) (string, error)

type SessionHandler struct {
	log     *zap.Logger
	manager *assessment.Manager
	save    SaveFunc
}

func NewSessionHandler(log *zap.Logger, manager *assessment.Manager, save SaveFunc) *SessionHandler {
	return &SessionHandler{log: log, manager: manager, save: save}
}

// Start allocates a session machine and binds it to the browser session.
// Hitting it with a live session returns the existing one untouched.
func (h *SessionHandler) Start(c *gin.Context) {
	browserSession := sessions.Default(c)
	if id, ok := browserSession.Get(sessionIDKey).(string); ok {
		if machine, found := h.manager.Get(id); found {
			c.JSON(http.StatusOK, gin.H{"session_id": id, "stage": machine.Stage(), "resumed": true})
			return
		}
	}

	id, machine := h.manager.Create()
	browserSession.Set(sessionIDKey, id)
	if err := browserSession.Save(); err != nil {
		h.log.Error("Failed to save browser session", zap.Error(err))
		h.manager.Remove(id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
		return
	}

	h.log.Info("Assessment session started", zap.String("session_id", id))
	c.JSON(http.StatusCreated, gin.H{"session_id": id, "stage": machine.Stage()})
}

// Consent records consent and advances to the enrollment stage.
func (h *SessionHandler) Consent(c *gin.Context) {
	machine, ok := h.machineFor(c)
	if !ok {
		return
	}
	if err := machine.GiveConsent(); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stage": machine.Stage()})
}

// Info captures the participant's name and age.
func (h *SessionHandler) Info(c *gin.Context) {
	machine, ok := h.machineFor(c)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := machine.ProvideIdentity(body.Name, body.Age); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stage": machine.Stage()})
}

// Baseline accepts the neutral face and/or voice samples as multipart parts
// named "face" and "voice". The stage advances once both have been received.
func (h *SessionHandler) Baseline(c *gin.Context) {
	machine, ok := h.machineFor(c)
	if !ok {
		return
	}

	face := h.readFilePart(c, "face")

	var voiceSamples []float64
	var sampleRate int
	if wav := h.readFilePart(c, "voice"); wav != nil {
		var err error
		voiceSamples, sampleRate, err = audio.Decode(wav)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "voice part is not a valid 16-bit PCM WAV file"})
			return
		}
	}

	status, err := machine.RecordBaseline(face, voiceSamples, sampleRate)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stage":    machine.Stage(),
		"baseline": status,
	})
}

// Question returns the current task prompt and battery progress.
func (h *SessionHandler) Question(c *gin.Context) {
	machine, ok := h.machineFor(c)
	if !ok {
		return
	}

	question, category, active := machine.Current()
	if !active {
		c.JSON(http.StatusConflict, gin.H{"error": "no question outside the task battery", "stage": machine.Stage()})
		return
	}

	done, total := machine.Progress()
	c.JSON(http.StatusOK, gin.H{
		"question": question,
		"category": category,
		"progress": gin.H{"completed": done, "total": total},
	})
}

// Respond scores one spoken response. Multipart parts: "audio" (WAV,
// optional), "image" (optional), form field "verified" (verify mode only).
func (h *SessionHandler) Respond(c *gin.Context) {
	machine, ok := h.machineFor(c)
	if !ok {
		return
	}

	sub := assessment.Submission{
		Image:    h.readFilePart(c, "image"),
		Verified: c.PostForm("verified") == "true",
	}
	if wav := h.readFilePart(c, "audio"); wav != nil {
		samples, rate, err := audio.Decode(wav)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "audio part is not a valid 16-bit PCM WAV file"})
			return
		}
		sub.Audio = samples
		sub.SampleRate = rate
	}

	result, err := machine.SubmitResponse(c.Request.Context(), sub)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if result.Stage == assessment.StageResults {
		h.persist(c, machine)
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"done":   result.Stage == assessment.StageResults,
	})
}

func (h *SessionHandler) persist(c *gin.Context, machine *assessment.Machine) {
	if h.save == nil {
		return
	}
	recordID, err := h.save(machine.Session(), machine.Snapshot())
	if err != nil {
		// Persistence failure must not take the results away from the user.
		h.log.Error("Failed to persist session record", zap.Error(err))
		return
	}
	h.log.Info("Session record saved", zap.String("record_id", recordID))
}

// Results returns the finalized session summary.
func (h *SessionHandler) Results(c *gin.Context) {
	machine, ok := h.machineFor(c)
	if !ok {
		return
	}
	if machine.Stage() != assessment.StageResults {
		c.JSON(http.StatusConflict, gin.H{"error": "results are not ready", "stage": machine.Stage()})
		return
	}
	c.JSON(http.StatusOK, machine.Snapshot())
}

// Restart discards the finished session and returns to consent.
func (h *SessionHandler) Restart(c *gin.Context) {
	machine, ok := h.machineFor(c)
	if !ok {
		return
	}
	if err := machine.Restart(); err != nil {
		h.renderError(c, err)
		return
	}
	h.log.Info("Assessment session restarted")
	c.JSON(http.StatusOK, gin.H{"stage": machine.Stage()})
}

func (h *SessionHandler) machineFor(c *gin.Context) (*assessment.Machine, bool) {
	browserSession := sessions.Default(c)
	id, ok := browserSession.Get(sessionIDKey).(string)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active assessment session"})
		return nil, false
	}
	machine, found := h.manager.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active assessment session"})
		return nil, false
	}
	return machine, true
}

// readFilePart returns the bytes of a multipart file part, or nil when the
// part is absent. Absent media is a supported case, not an error.
func (h *SessionHandler) readFilePart(c *gin.Context, name string) []byte {
	header, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	file, err := header.Open()
	if err != nil {
		h.log.Warn("Failed to open uploaded part", zap.String("part", name), zap.Error(err))
		return nil
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Warn("Failed to read uploaded part", zap.String("part", name), zap.Error(err))
		return nil
	}
	return data
}

func (h *SessionHandler) renderError(c *gin.Context, err error) {
	var vErr *assessment.ValidationError
	var wErr *assessment.WrongStageError
	var sErr *assessment.StateConsistencyError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Error(), "field": vErr.Field})
	case errors.As(err, &wErr):
		c.JSON(http.StatusConflict, gin.H{"error": wErr.Error(), "stage": wErr.Stage})
	case errors.As(err, &sErr):
		// Fatal: the session can no longer be trusted. Tear it down rather
		// than keep scoring against a corrupted cursor.
		h.log.Error("Session state inconsistency, aborting session", zap.Error(err))
		browserSession := sessions.Default(c)
		if id, ok := browserSession.Get(sessionIDKey).(string); ok {
			h.manager.Remove(id)
		}
		browserSession.Delete(sessionIDKey)
		_ = browserSession.Save()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session aborted due to internal inconsistency"})
	default:
		h.log.Error("Unexpected handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
