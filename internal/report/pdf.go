// Package report renders a finished session summary as a compact A5 PDF.
package report

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/KanwarHamza/emotion-detection/internal/assessment"

	"github.com/jung-kurt/gofpdf"
)

const (
	// Clinical MMSE scale; the shipped battery covers a subset of it.
	clinicalMaxScore = 30

	screeningThreshold  = 24
	highStressThreshold = 0.7
)

// Generate renders the report PDF and returns its bytes.
func Generate(summary assessment.Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "NeuroMind Report", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	if summary.ParticipantName != "" {
		pdf.CellFormat(0, 10, fmt.Sprintf("Participant: %s (%d)", summary.ParticipantName, summary.ParticipantAge), "", 1, "", false, 0, "")
	}
	pdf.CellFormat(0, 10, fmt.Sprintf("MMSE Score: %d/%d", summary.TotalScore, clinicalMaxScore), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Stress Level: %.2f/1.0", zeroIfNaN(summary.MeanStress)), "", 1, "", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Task Performance:", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, question := range sortedQuestions(summary.TaskPerformance) {
		perf := summary.TaskPerformance[question]
		pdf.CellFormat(0, 8, fmt.Sprintf("- %s: %d/%d", question, perf.Score, perf.Max), "", 1, "", false, 0, "")
	}
	pdf.Ln(5)

	suggestions := buildSuggestions(summary)
	if len(suggestions) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, "Suggestions:", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, s := range suggestions {
			pdf.MultiCell(0, 8, s, "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func buildSuggestions(summary assessment.Summary) []string {
	var out []string
	if summary.TotalScore < screeningThreshold {
		out = append(out, "Consider cognitive screening with a specialist")
	}
	if !math.IsNaN(summary.MeanStress) && summary.MeanStress > highStressThreshold {
		out = append(out, "Try breathing exercises for stress")
	}
	return out
}

func sortedQuestions(perf map[string]assessment.TaskResult) []string {
	out := make([]string, 0, len(perf))
	for q := range perf {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
