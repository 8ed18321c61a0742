// internal/observability/logger.go
package observability

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/quiltline/stitch-cli/internal/config"
)

var (
	globalLogger atomic.Pointer[zap.Logger]
	initOnce     sync.Once
)

func init() {
	globalLogger.Store(zap.NewNop())
}

// Initialize configures the global logger exactly once. An optional writer
// overrides the configured destination, which tests use to capture output.
func Initialize(cfg config.LoggerConfig, writer io.Writer) {
	initOnce.Do(func() {
		globalLogger.Store(buildLogger(cfg, writer))
	})
}

// InitializeLogger is a convenience wrapper used by the CLI bootstrap.
func InitializeLogger(cfg config.LoggerConfig) {
	Initialize(cfg, nil)
}

// GetLogger returns the process-wide logger. Before Initialize it is a no-op
// logger, so early callers never nil-panic.
func GetLogger() *zap.Logger {
	return globalLogger.Load()
}

// Sync flushes any buffered log entries.
func Sync() error {
	return globalLogger.Load().Sync()
}

// ResetForTest clears the singleton so each test can install its own logger.
func ResetForTest() {
	initOnce = sync.Once{}
	globalLogger.Store(zap.NewNop())
}

func buildLogger(cfg config.LoggerConfig, writer io.Writer) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	var sink zapcore.WriteSyncer
	switch {
	case writer != nil:
		sink = zapcore.AddSync(writer)
	case cfg.LogFile != "":
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(encoder, sink, level)

	opts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if cfg.AddSource {
		opts = append(opts, zap.AddCaller())
	}

	logger := zap.New(core, opts...)
	if cfg.ServiceName != "" {
		logger = logger.With(zap.String("service", cfg.ServiceName))
	}
	return logger
}
