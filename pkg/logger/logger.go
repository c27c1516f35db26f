// Package logger 提供整個後端共用的 zap logger
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 建立 logger，isProd 決定輸出格式 (JSON / 彩色開發格式)
func New(isProd bool) (*zap.Logger, func() error) {
	var zapLogger *zap.Logger

	if isProd {
		zapLogger = zap.Must(zap.NewProduction())
	} else {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapLogger = zap.Must(config.Build())
	}

	return zapLogger, zapLogger.Sync
}
