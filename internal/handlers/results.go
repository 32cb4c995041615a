package handlers

import (
	"fmt"
	"net/http"

	"github.com/KanwarHamza/emotion-detection/internal/assessment"
	"github.com/KanwarHamza/emotion-detection/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
)

// Chart renders the three signal histories as an HTML line chart.
func (h *SessionHandler) Chart(c *gin.Context) {
	machine, ok := h.machineFor(c)
	if !ok {
		return
	}
	if machine.Stage() != assessment.StageResults {
		c.JSON(http.StatusConflict, gin.H{"error": "results are not ready", "stage": machine.Stage()})
		return
	}

	session := machine.Session()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Signal timeline",
			Subtitle: "Per-task stress, anxiety and depression proxies",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	labels := make([]string, len(session.StressHistory))
	for i := range labels {
		labels[i] = fmt.Sprintf("task %d", i+1)
	}

	line.SetXAxis(labels).
		AddSeries("stress", toLineData(session.StressHistory)).
		AddSeries("anxiety", toLineData(session.AnxietyHistory)).
		AddSeries("depression", toLineData(session.DepressionHistory))

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(c.Writer); err != nil {
		h.log.Error("Failed to render signal chart", zap.Error(err))
	}
}

// Report streams the session summary as a PDF download.
func (h *SessionHandler) Report(c *gin.Context) {
	machine, ok := h.machineFor(c)
	if !ok {
		return
	}
	if machine.Stage() != assessment.StageResults {
		c.JSON(http.StatusConflict, gin.H{"error": "results are not ready", "stage": machine.Stage()})
		return
	}

	pdf, err := report.Generate(machine.Snapshot())
	if err != nil {
		h.log.Error("Failed to generate report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="NeuroMind_Report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func toLineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}
	return out
}
