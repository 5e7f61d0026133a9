// Package logging wraps go.uber.org/zap behind a chained Fields builder, so
// call sites read as
// logging.Warn("stale term commit").Uint64("index", i).Record() instead of
// threading a *zap.Logger through every function signature.
package logging

import (
	"fmt"
	"os"

	"github.com/coldtoo/rlogcore/config"
	"github.com/coldtoo/rlogcore/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Init builds the package logger from cfg. It must be called once before
// any of Debug/Info/Warn/Error/Panic/Fatal are used; callers that never
// call Init get a no-op logger instead of a nil-pointer panic.
func Init(cfg *config.ZapConfig) {
	if cfg == nil {
		cfg = config.DefaultZapConfig()
	}

	if !utils.PathExists(cfg.Director) {
		_ = os.MkdirAll(cfg.Director, os.ModePerm)
	}

	cores := getZapCores(cfg)
	log = zap.New(zapcore.NewTee(cores...))

	if cfg.ShowLine {
		log = log.WithOptions(zap.AddCaller())
	}
}

func init() {
	// a usable default so packages that log before Init (e.g. in tests)
	// don't crash; Init still replaces this once configuration is loaded.
	log = zap.NewNop()
}

func Debug(msg string) *Fields { return newFields(msg, zapcore.DebugLevel) }
func Info(msg string) *Fields  { return newFields(msg, zapcore.InfoLevel) }
func Warn(msg string) *Fields  { return newFields(msg, zapcore.WarnLevel) }
func Error(msg string) *Fields { return newFields(msg, zapcore.ErrorLevel) }
func Panic(msg string) *Fields { return newFields(msg, zapcore.PanicLevel) }
func Fatal(msg string) *Fields { return newFields(msg, zapcore.FatalLevel) }

func Debugf(format string, args ...any) { Debug(fmt.Sprintf(format, args...)).Record() }
func Infof(format string, args ...any)  { Info(fmt.Sprintf(format, args...)).Record() }
func Warnf(format string, args ...any)  { Warn(fmt.Sprintf(format, args...)).Record() }
func Errorf(format string, args ...any) { Error(fmt.Sprintf(format, args...)).Record() }
