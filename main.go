package main

import (
	"time"

	"github.com/KanwarHamza/emotion-detection/internal/analysis"
	"github.com/KanwarHamza/emotion-detection/internal/assessment"
	"github.com/KanwarHamza/emotion-detection/internal/collab"
	"github.com/KanwarHamza/emotion-detection/internal/config"
	"github.com/KanwarHamza/emotion-detection/internal/database"
	"github.com/KanwarHamza/emotion-detection/internal/logging"
	"github.com/KanwarHamza/emotion-detection/internal/models"
	"github.com/KanwarHamza/emotion-detection/internal/repository"
	"github.com/KanwarHamza/emotion-detection/internal/router"
	"github.com/KanwarHamza/emotion-detection/internal/services"

	"go.uber.org/zap"
)

func main() {
	log, err := logging.Init("logs")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if err := database.Init(log); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	assessConf := config.Conf.Assessment
	catalog, err := models.LoadCatalog(assessConf.CatalogPath)
	if err != nil {
		log.Fatal("Failed to load task catalog", zap.Error(err))
	}
	log.Info("Task catalog loaded",
		zap.Int("categories", len(catalog.Categories)),
		zap.Int("tasks", catalog.TaskCount()),
		zap.Int("max_score", catalog.MaxScore()),
	)

	timeout := time.Duration(assessConf.CollaboratorTimeoutSeconds) * time.Second
	manager := assessment.NewManager(
		log,
		catalog,
		analysis.NewAnalyzer(log),
		collab.NewWhisperClient(log, assessConf.TranscriberURL, timeout),
		collab.NewEmotionClient(log, assessConf.EmotionURL, timeout),
		assessment.ScoringMode(assessConf.ScoringMode),
	)

	sweeper := services.NewRetentionSweeper(log, assessConf.RetentionDays)
	sweeper.Start()

	r := router.Setup(log, manager, repository.SaveSessionRecord)

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
