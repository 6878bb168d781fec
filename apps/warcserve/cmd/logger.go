package cmd

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/restoredcdc/warcserve/apps/warcserve/utils"
)

// newLogger builds the process logger: human-readable output in
// development, JSON in production, level taken from configuration.
func newLogger(level string) (*zap.Logger, error) {
	var config zap.Config
	if utils.IsDev() {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	return config.Build()
}
