package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// SessionRecord is the persisted summary of one finished assessment session.
// One row is written when a session reaches the results stage; in-flight
// session state never touches the database.
type SessionRecord struct {
	ID                string `gorm:"primaryKey;type:uuid"`
	ParticipantName   string
	ParticipantAge    int
	TotalScore        int
	MaxScore          int
	MeanStress        float64
	MeanAnxiety       float64
	MeanDepression    float64
	StressHistory     pq.Float64Array `gorm:"type:float8[]"`
	AnxietyHistory    pq.Float64Array `gorm:"type:float8[]"`
	DepressionHistory pq.Float64Array `gorm:"type:float8[]"`
	EmotionTimeline   pq.StringArray  `gorm:"type:text[]"`
	TaskPerformance   json.RawMessage `gorm:"type:jsonb"`
	StartedAt         time.Time
	CreatedAt         time.Time
}
