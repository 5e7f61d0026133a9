package logging

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/coldtoo/rlogcore/config"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func getEncoder(cfg *config.ZapConfig) zapcore.Encoder {
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  cfg.StacktraceKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    cfg.ZapEncodeLevel(),
		EncodeTime:     customTimeEncoder(cfg.Prefix),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.FullCallerEncoder,
	}
	if cfg.Format == "json" {
		return zapcore.NewJSONEncoder(encoderCfg)
	}
	return zapcore.NewConsoleEncoder(encoderCfg)
}

func customTimeEncoder(prefix string) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(prefix + t.Format("2006/01/02 - 15:04:05.000"))
	}
}

// getWriteSyncer builds a rotating file sink for a single level, tee'd to
// stdout when LogInConsole is set.
func getWriteSyncer(cfg *config.ZapConfig, level string) (zapcore.WriteSyncer, error) {
	fileWriter, err := rotatelogs.New(
		path.Join(cfg.Director, "%Y-%m-%d", level+".log"),
		rotatelogs.WithClock(rotatelogs.Local),
		rotatelogs.WithMaxAge(time.Duration(cfg.MaxAge)*24*time.Hour),
		rotatelogs.WithRotationTime(time.Hour*24),
	)
	if err != nil {
		return nil, fmt.Errorf("build rotating writer for level %s: %w", level, err)
	}
	if cfg.LogInConsole {
		return zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), zapcore.AddSync(fileWriter)), nil
	}
	return zapcore.AddSync(fileWriter), nil
}

func getEncoderCore(cfg *config.ZapConfig, level zapcore.Level, enabler zap.LevelEnablerFunc) zapcore.Core {
	writer, err := getWriteSyncer(cfg, level.String())
	if err != nil {
		Errorf("build log core for level %s: %v", level.String(), err)
		return zapcore.NewNopCore()
	}
	return zapcore.NewCore(getEncoder(cfg), writer, enabler)
}

func getZapCores(cfg *config.ZapConfig) []zapcore.Core {
	cores := make([]zapcore.Core, 0, 7)
	for level := cfg.TransportLevel(); level <= zapcore.FatalLevel; level++ {
		cores = append(cores, getEncoderCore(cfg, level, cfg.GetLevelPriority(level)))
	}
	return cores
}
