// Package logger builds the zap logger shared by every command.
//
// Log level, encoding (console or json), sampling and caller/stacktrace
// annotations come from config.LogConfig. Components take a *zap.Logger and
// log with structured fields:
//
//	log.Info("feed published",
//	    zap.String("key", key),
//	    zap.Int("events", n),
//	)
package logger

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pfrederiksen/football-ical/internal/config"
)

// New builds a logger writing to stdout, with errors from zap itself on stderr
func New(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:       cfg.Development,
		Encoding:          encoding(cfg.Encoding),
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		Sampling:          nil,
		EncoderConfig:     encoderConfig(cfg.Encoding),
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}

	if cfg.Sampling {
		zc.Sampling = &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		}
	}

	return zc.Build()
}

// NewWithWriter builds a logger that writes to w, used by tests and by
// commands whose stdout is reserved for output
func NewWithWriter(cfg config.LogConfig, w io.Writer) *zap.Logger {
	enc := encoderConfig(cfg.Encoding)
	var encoder zapcore.Encoder
	if encoding(cfg.Encoding) == "console" {
		encoder = zapcore.NewConsoleEncoder(enc)
	} else {
		encoder = zapcore.NewJSONEncoder(enc)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), parseLevel(cfg.Level))
	var opts []zap.Option
	if !cfg.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...)
}

// parseLevel falls back to info for empty or unknown levels
func parseLevel(s string) zapcore.Level {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func encoding(s string) string {
	if s == "json" {
		return "json"
	}
	return "console"
}

func encoderConfig(enc string) zapcore.EncoderConfig {
	if encoding(enc) == "console" {
		return zap.NewDevelopmentEncoderConfig()
	}
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.RFC3339TimeEncoder
	return ec
}
