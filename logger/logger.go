package logger

import (
	"crimewatch/config"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger. Console output always goes to stderr;
// when file logging is enabled a JSON copy is written through a rotating lumberjack file.
func New(cfg config.LogConfig) *zap.SugaredLogger {
	var zapConfig = zap.NewProductionEncoderConfig()
	var level = zap.InfoLevel
	if cfg.Debug {
		level = zap.DebugLevel
	}

	zapConfig.ConsoleSeparator = " "
	zapConfig.EncodeTime = zapcore.TimeEncoderOfLayout("02 Jan 15:04:05")
	zapConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(zapConfig)

	var core zapcore.Core
	if cfg.File {
		fileConfig := zap.NewProductionEncoderConfig()
		fileConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		fileConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		fileEncoder := zapcore.NewJSONEncoder(fileConfig)

		core = zapcore.NewTee(
			zapcore.NewCore(fileEncoder, zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.Filename,
				MaxSize:    cfg.MaxSize,
				MaxAge:     cfg.MaxAge,
				MaxBackups: cfg.MaxBackups,
				LocalTime:  false,
				Compress:   cfg.Compress,
			}), level),
			zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stderr), level),
		)
	} else {
		core = zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stderr), level)
	}

	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything; used by tests and tools.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
