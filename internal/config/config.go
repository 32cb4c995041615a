package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config is the top-level configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Assessment AssessmentConfig `mapstructure:"assessment"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory string `mapstructure:"directory"`
}

// AssessmentConfig drives the session flow: where the task catalog lives, how
// responses are scored, and how the external analysis collaborators are
// reached.
type AssessmentConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`
	// ScoringMode selects the response scoring strategy: "transcript"
	// matches the expected answer against the transcription, "verify"
	// trusts an explicit confirmation flag on the submission.
	ScoringMode string `mapstructure:"scoring_mode"`
	// Base URLs of the transcription and facial-emotion services. Empty
	// means the collaborator is unavailable and its defined default is used.
	TranscriberURL string `mapstructure:"transcriber_url"`
	EmotionURL     string `mapstructure:"emotion_url"`
	// CollaboratorTimeoutSeconds bounds every outbound collaborator call.
	// A timeout counts as a collaborator failure, never a session failure.
	CollaboratorTimeoutSeconds int `mapstructure:"collaborator_timeout_seconds"`
	// RetentionDays is how long finished session records are kept.
	RetentionDays int `mapstructure:"retention_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.session_secret", "change-me-in-production")

	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "neuromind")

	v.SetDefault("logging.directory", "logs")

	v.SetDefault("assessment.catalog_path", "config/questions.yaml")
	v.SetDefault("assessment.scoring_mode", "transcript")
	v.SetDefault("assessment.transcriber_url", "")
	v.SetDefault("assessment.emotion_url", "")
	v.SetDefault("assessment.collaborator_timeout_seconds", 15)
	v.SetDefault("assessment.retention_days", 90)
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	setDefaults(v)

	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("NEUROMIND") // e.g. NEUROMIND_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing config file is fine; defaults and env vars carry it.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
