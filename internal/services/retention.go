package services

import (
	"time"

	"github.com/KanwarHamza/emotion-detection/internal/repository"

	"go.uber.org/zap"
)

// RetentionSweeper periodically deletes finished session records older than
// the configured retention window.
type RetentionSweeper struct {
	log           *zap.Logger
	retentionDays int
}

func NewRetentionSweeper(log *zap.Logger, retentionDays int) *RetentionSweeper {
	return &RetentionSweeper{log: log, retentionDays: retentionDays}
}

// Start runs the sweeper in a goroutine.
func (s *RetentionSweeper) Start() {
	if s.retentionDays <= 0 {
		s.log.Info("Record retention disabled")
		return
	}
	s.log.Info("Starting record retention sweeper...", zap.Int("retention_days", s.retentionDays))
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			<-ticker.C
			s.sweep()
		}
	}()
}

func (s *RetentionSweeper) sweep() {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	purged, err := repository.PurgeRecordsBefore(cutoff)
	if err != nil {
		s.log.Error("Failed to purge expired session records", zap.Error(err))
		return
	}
	if purged > 0 {
		s.log.Info("Purged expired session records", zap.Int64("count", purged), zap.Time("cutoff", cutoff))
	}
}
