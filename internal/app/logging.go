package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kk-code-lab/pathnav/internal/config"
)

// NewLogger builds the file logger described by cfg. The terminal owns
// stdout and stderr, so with no file configured it returns a no-op logger.
// The returned level can be changed at runtime.
func NewLogger(cfg config.LogConfig) (*zap.Logger, *zap.AtomicLevel, error) {
	level := zap.NewAtomicLevelAt(cfg.ZapLevel())
	if cfg.File == "" {
		return zap.NewNop(), &level, nil
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	zcfg.Sampling = nil
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{cfg.File}
	zcfg.ErrorOutputPaths = []string{cfg.File}

	logger, err := zcfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, nil, err
	}
	return logger.Named("pathnav"), &level, nil
}
