package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 全局日志实例，InitLogger 之前为空操作日志
var Logger = zap.NewNop()

func InitLogger(logLevel string) {
	config := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	config.Level.SetLevel(level)
	logger, err := config.Build()
	if err != nil {
		return
	}
	Logger = logger
	zap.ReplaceGlobals(logger)
}
