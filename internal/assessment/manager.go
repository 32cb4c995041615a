package assessment

import (
	"sync"

	"github.com/KanwarHamza/emotion-detection/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager owns one Machine per active browser session. Machines share the
// catalog and collaborators but nothing mutable, so concurrent sessions are
// fully isolated from each other.
type Manager struct {
	log         *zap.Logger
	catalog     *models.Catalog
	voice       VoiceAnalyzer
	transcriber Transcriber
	emotions    EmotionClassifier
	mode        ScoringMode

	mu       sync.RWMutex
	machines map[string]*Machine
}

func NewManager(log *zap.Logger, catalog *models.Catalog, voice VoiceAnalyzer, transcriber Transcriber, emotions EmotionClassifier, mode ScoringMode) *Manager {
	return &Manager{
		log:         log,
		catalog:     catalog,
		voice:       voice,
		transcriber: transcriber,
		emotions:    emotions,
		mode:        mode,
		machines:    make(map[string]*Machine),
	}
}

// Create allocates a fresh session machine and returns its id.
func (mgr *Manager) Create() (string, *Machine) {
	id := uuid.NewString()
	machine := NewMachine(mgr.log, mgr.catalog, mgr.voice, mgr.transcriber, mgr.emotions, mgr.mode)

	mgr.mu.Lock()
	mgr.machines[id] = machine
	mgr.mu.Unlock()

	return id, machine
}

// Get returns the machine for a session id, if it exists.
func (mgr *Manager) Get(id string) (*Machine, bool) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	machine, ok := mgr.machines[id]
	return machine, ok
}

// Remove drops a session machine entirely.
func (mgr *Manager) Remove(id string) {
	mgr.mu.Lock()
	delete(mgr.machines, id)
	mgr.mu.Unlock()
}

// Count reports the number of live sessions.
func (mgr *Manager) Count() int {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return len(mgr.machines)
}
