package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// GetLogger returns the process logger
func GetLogger() *logrus.Logger {
	return logg
}

// ConfigureLogger switches to JSON output in production
func ConfigureLogger(cfg *Config) {
	if cfg.IsProd() {
		logg.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		logg.SetLevel(lvl)
	}
}

// LogError writes a structured error entry
func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
