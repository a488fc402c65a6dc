package logger

import (
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"rpcrank/internal/config"
)

// NewLogger creates and configures a new zap logger based on the provided
// configuration. Console output goes to stderr so stdout stays clean for
// the rendered report. When cfg.Dir is set, a rotating JSON log file is
// added alongside.
func NewLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(cfg.Level)); err != nil {
		logLevel.SetLevel(zap.InfoLevel)
		log.Printf("Warning: Failed to parse log level '%s', defaulting to 'info'. Error: %v\n", cfg.Level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), logLevel)

	if cfg.Dir != "" {
		fileCore, err := newFileCore(cfg.Dir, logLevel)
		if err != nil {
			return nil, err
		}
		core = zapcore.NewTee(core, fileCore)
	}

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func newFileCore(dir string, level zap.AtomicLevel) (zapcore.Core, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, "rpcrank.log"),
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	})

	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, level), nil
}
