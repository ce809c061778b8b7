package logging

import (
	"github.com/neuronsfund/matchedfunding/internal/config"
	"go.uber.org/zap"
)

var globalLogger *zap.SugaredLogger

// Configure builds the global logger from the current config's logging
// level. Call it once after config.Load; GetLogger will lazily call it with
// default settings if it hasn't run yet.
func Configure() {
	cfg := config.GetConfig()
	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level
	logger, err := zapCfg.Build()
	if err != nil {
		// Fall back to zap's example logger rather than leaving
		// globalLogger nil.
		logger = zap.NewExample()
	}
	globalLogger = logger.Sugar().With("component", "fundengine")
}

// GetLogger returns the global logger, configuring it with defaults if
// Configure hasn't been called yet.
func GetLogger() *zap.SugaredLogger {
	if globalLogger == nil {
		Configure()
	}
	return globalLogger
}
