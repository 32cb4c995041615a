package report

import (
	"bytes"
	"math"
	"testing"

	"github.com/KanwarHamza/emotion-detection/internal/assessment"
)

func sampleSummary() assessment.Summary {
	return assessment.Summary{
		ParticipantName: "Kim",
		ParticipantAge:  44,
		TotalScore:      9,
		MaxScore:        11,
		CompletedTasks:  5,
		MeanStress:      0.35,
		MeanAnxiety:     0.2,
		MeanDepression:  0.1,
		TaskPerformance: map[string]assessment.TaskResult{
			"What year is it?": {Score: 1, Max: 1},
			"Current season?":  {Score: 0, Max: 1},
		},
		EmotionSet: []string{"neutral", "happy"},
	}
}

func TestGenerateProducesPDF(t *testing.T) {
	data, err := Generate(sampleSummary())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestGenerateHandlesEmptySession(t *testing.T) {
	summary := assessment.Summary{
		MeanStress:      math.NaN(),
		MeanAnxiety:     math.NaN(),
		MeanDepression:  math.NaN(),
		TaskPerformance: map[string]assessment.TaskResult{},
	}
	if _, err := Generate(summary); err != nil {
		t.Fatalf("Generate on empty session: %v", err)
	}
}

func TestSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		summary assessment.Summary
		want    int
	}{
		{
			name:    "low score and high stress",
			summary: assessment.Summary{TotalScore: 10, MeanStress: 0.9},
			want:    2,
		},
		{
			name:    "low score only",
			summary: assessment.Summary{TotalScore: 10, MeanStress: 0.1},
			want:    1,
		},
		{
			name:    "healthy",
			summary: assessment.Summary{TotalScore: 28, MeanStress: 0.1},
			want:    0,
		},
		{
			name:    "nan stress never suggests breathing",
			summary: assessment.Summary{TotalScore: 28, MeanStress: math.NaN()},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(buildSuggestions(tt.summary)); got != tt.want {
				t.Errorf("suggestions = %d, want %d", got, tt.want)
			}
		})
	}
}
