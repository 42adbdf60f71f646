package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/levpartflip/internal/logging"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var once sync.Once

// ConfigureLogging applies the configured level and format to log and
// returns the application logger wrapping it.
func ConfigureLogging(log *logrus.Logger, config *Config) logging.Logger {
	logging.Configure(log, config.Log.Level, config.Log.Format)
	return logging.NewLogrusAdapterFromLogger(log)
}

// LoadEnv loads environment variables from a .env file in the working
// directory or its parent, once per process. Variables already set win.
func LoadEnv(logger logging.Logger) {
	once.Do(func() {
		loadEnvFile(logger, ".env", filepath.Join("..", ".env"))
	})
}

func loadEnvFile(logger logging.Logger, candidates ...string) string {
	if logger == nil {
		logger = logging.Discard()
	}
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file")
			return ""
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldInputFile, envFile))
		return envFile
	}
	logger.Debug("No .env file found, using environment variables")
	return ""
}
