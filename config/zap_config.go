package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapConfig lives in config rather than logging so that config has no
// dependency on logging, letting logging depend on config without a cycle.
type ZapConfig struct {
	Level         string `mapstructure:"level" json:"level" yaml:"level"`
	Prefix        string `mapstructure:"prefix" json:"prefix" yaml:"prefix"`
	Format        string `mapstructure:"format" json:"format" yaml:"format"`
	Director      string `mapstructure:"director" json:"director"  yaml:"director"`
	EncodeLevel   string `mapstructure:"encode-level" json:"encode-level" yaml:"encode-level"`
	StacktraceKey string `mapstructure:"stacktrace-key" json:"stacktrace-key" yaml:"stacktrace-key"`

	MaxAge       int  `mapstructure:"max-age" json:"max-age" yaml:"max-age"`
	ShowLine     bool `mapstructure:"show-line" json:"show-line" yaml:"show-line"`
	LogInConsole bool `mapstructure:"log-in-console" json:"log-in-console" yaml:"log-in-console"`
}

func DefaultZapConfig() *ZapConfig {
	return &ZapConfig{
		Level:         "info",
		Prefix:        "[rlog]",
		Format:        "console",
		Director:      "logs",
		EncodeLevel:   "LowercaseColorLevelEncoder",
		StacktraceKey: "stacktrace",
		MaxAge:        7,
		ShowLine:      true,
		LogInConsole:  true,
	}
}

// ZapEncodeLevel returns the zapcore.LevelEncoder named by EncodeLevel.
func (z *ZapConfig) ZapEncodeLevel() zapcore.LevelEncoder {
	switch z.EncodeLevel {
	case "LowercaseLevelEncoder":
		return zapcore.LowercaseLevelEncoder
	case "LowercaseColorLevelEncoder":
		return zapcore.LowercaseColorLevelEncoder
	case "CapitalLevelEncoder":
		return zapcore.CapitalLevelEncoder
	case "CapitalColorLevelEncoder":
		return zapcore.CapitalColorLevelEncoder
	default:
		return zapcore.LowercaseLevelEncoder
	}
}

// TransportLevel parses Level into a zapcore.Level, defaulting to Debug.
func (z *ZapConfig) TransportLevel() zapcore.Level {
	switch strings.ToLower(z.Level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.DebugLevel
	}
}

// GetLevelPriority returns a zap.LevelEnablerFunc that fires for exactly level.
func (z *ZapConfig) GetLevelPriority(level zapcore.Level) zap.LevelEnablerFunc {
	return func(l zapcore.Level) bool { return l == level }
}
