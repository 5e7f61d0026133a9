package logging

import "go.uber.org/zap/zapcore"

// Fields is a chained builder around a single log call, matching the
// teacher's log.Fields shape: level and message are fixed at creation,
// fields accumulate via the chain, and Record() emits exactly once.
type Fields struct {
	level  zapcore.Level
	msg    string
	fields []zapcore.Field
	skip   bool
}

func newFields(msg string, level zapcore.Level) *Fields {
	if log == nil || !log.Core().Enabled(level) {
		return &Fields{skip: true}
	}
	return &Fields{msg: msg, level: level}
}

func (f *Fields) Str(key, val string) *Fields {
	if f.skip {
		return f
	}
	f.fields = append(f.fields, zapcore.Field{Key: key, Type: zapcore.StringType, String: val})
	return f
}

func (f *Fields) Strs(key string, val []string) *Fields {
	if f.skip {
		return f
	}
	f.fields = append(f.fields, zapcore.Field{Key: key, Type: zapcore.ReflectType, Interface: val})
	return f
}

func (f *Fields) Int(key string, val int) *Fields {
	if f.skip {
		return f
	}
	f.fields = append(f.fields, zapcore.Field{Key: key, Type: zapcore.Int64Type, Integer: int64(val)})
	return f
}

func (f *Fields) Uint64(key string, val uint64) *Fields {
	if f.skip {
		return f
	}
	f.fields = append(f.fields, zapcore.Field{Key: key, Type: zapcore.Uint64Type, Integer: int64(val)})
	return f
}

func (f *Fields) Err(key string, err error) *Fields {
	if err == nil || f.skip {
		return f
	}
	f.fields = append(f.fields, zapcore.Field{Key: key, Type: zapcore.ErrorType, Interface: err})
	return f
}

func (f *Fields) Bool(key string, val bool) *Fields {
	if f.skip {
		return f
	}
	var ival int64
	if val {
		ival = 1
	}
	f.fields = append(f.fields, zapcore.Field{Key: key, Type: zapcore.BoolType, Integer: ival})
	return f
}

func (f *Fields) Record() {
	if f.skip {
		return
	}
	switch f.level {
	case zapcore.DebugLevel:
		log.Debug(f.msg, f.fields...)
	case zapcore.InfoLevel:
		log.Info(f.msg, f.fields...)
	case zapcore.WarnLevel:
		log.Warn(f.msg, f.fields...)
	case zapcore.ErrorLevel:
		log.Error(f.msg, f.fields...)
	case zapcore.PanicLevel:
		log.Panic(f.msg, f.fields...)
	case zapcore.FatalLevel:
		log.Fatal(f.msg, f.fields...)
	}
}
