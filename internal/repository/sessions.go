package repository

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/KanwarHamza/emotion-detection/internal/assessment"
	"github.com/KanwarHamza/emotion-detection/internal/database"
	"github.com/KanwarHamza/emotion-detection/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SaveSessionRecord persists the summary of a finished session and returns
// the record id. Called exactly once, when a session reaches results.
func SaveSessionRecord(session *assessment.SessionState, summary assessment.Summary) (string, error) {
	perf, err := json.Marshal(summary.TaskPerformance)
	if err != nil {
		return "", fmt.Errorf("failed to encode task performance: %w", err)
	}

	record := &models.SessionRecord{
		ID:                uuid.NewString(),
		ParticipantName:   summary.ParticipantName,
		ParticipantAge:    summary.ParticipantAge,
		TotalScore:        summary.TotalScore,
		MaxScore:          summary.MaxScore,
		MeanStress:        storableMean(summary.MeanStress),
		MeanAnxiety:       storableMean(summary.MeanAnxiety),
		MeanDepression:    storableMean(summary.MeanDepression),
		StressHistory:     pq.Float64Array(session.StressHistory),
		AnxietyHistory:    pq.Float64Array(session.AnxietyHistory),
		DepressionHistory: pq.Float64Array(session.DepressionHistory),
		EmotionTimeline:   pq.StringArray(session.EmotionTimeline),
		TaskPerformance:   perf,
		StartedAt:         session.StartedAt,
		CreatedAt:         time.Now().UTC(),
	}

	if err := database.DB.Create(record).Error; err != nil {
		return "", fmt.Errorf("failed to save session record: %w", err)
	}
	return record.ID, nil
}

// Postgres has no NaN-friendly aggregate consumers downstream; an empty
// session stores zero means.
func storableMean(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// ListRecentRecords returns the newest session records, most recent first.
func ListRecentRecords(limit int) ([]models.SessionRecord, error) {
	var records []models.SessionRecord
	err := database.DB.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

// PurgeRecordsBefore deletes session records older than the cutoff and
// reports how many rows went.
func PurgeRecordsBefore(cutoff time.Time) (int64, error) {
	result := database.DB.Where("created_at < ?", cutoff).Delete(&models.SessionRecord{})
	return result.RowsAffected, result.Error
}
