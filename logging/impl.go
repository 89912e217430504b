package logging

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the leveled, structured logger handed to every component at construction.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	SetLevel(level Level)
	GetLevel() Level
	Sublogger(subname string) Logger
	AddAppender(appender Appender)
	Sync() error
}

// msgStyle selects how the variadic arguments of a log call become a message and fields.
type msgStyle int

const (
	styleSprint msgStyle = iota
	styleSprintf
	styleKeyed
)

// errUnpairedKey stands in for the value of a trailing key with nothing after it.
var errUnpairedKey = errors.New("unpaired log key")

type roverLogger struct {
	name  string
	level AtomicLevel
	utc   bool

	mu        sync.Mutex
	appenders []Appender
}

func newRoverLogger(name string, level Level, utc bool, appenders ...Appender) *roverLogger {
	return &roverLogger{name: name, level: NewAtomicLevelAt(level), utc: utc, appenders: appenders}
}

func (l *roverLogger) AddAppender(appender Appender) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appenders = append(l.appenders, appender)
}

// currentAppenders returns a snapshot that later AddAppender calls do not touch.
func (l *roverLogger) currentAppenders() []Appender {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Appender(nil), l.appenders...)
}

func (l *roverLogger) SetLevel(level Level) {
	l.level.Set(level)
}

func (l *roverLogger) GetLevel() Level {
	return l.level.Get()
}

// Sublogger returns a logger named "<parent>.<subname>" writing to the parent's current
// appenders. Its level and appenders start as copies of the parent's and are independent
// afterwards.
func (l *roverLogger) Sublogger(subname string) Logger {
	name := subname
	if l.name != "" {
		name = l.name + "." + subname
	}
	return &roverLogger{name: name, level: NewAtomicLevelAt(l.level.Get()), utc: l.utc, appenders: l.currentAppenders()}
}

func (l *roverLogger) Sync() error {
	var err error
	for _, appender := range l.currentAppenders() {
		err = multierr.Append(err, appender.Sync())
	}
	return err
}

// emit must be called directly from the public logging methods so that the caller lookup
// lands on user code.
func (l *roverLogger) emit(level Level, style msgStyle, template string, args []interface{}) {
	if level < l.level.Get() {
		return
	}

	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       time.Now(),
		LoggerName: l.name,
		Caller:     callerOfLogMethod(),
	}
	if l.utc {
		entry.Time = entry.Time.UTC()
	}

	var fields []zapcore.Field
	switch style {
	case styleSprint:
		entry.Message = fmt.Sprint(args...)
	case styleSprintf:
		entry.Message = fmt.Sprintf(template, args...)
	case styleKeyed:
		entry.Message = template
		fields = keyedFields(args)
	}

	for _, appender := range l.currentAppenders() {
		if err := appender.Write(entry, fields); err != nil {
			fmt.Fprint(os.Stderr, err)
		}
	}
}

// keyedFields pairs up alternating keys and values. Values are serialized with zap.Any, so
// only exported struct fields show up.
func keyedFields(keysAndValues []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if stringer, ok := keysAndValues[i].(fmt.Stringer); ok {
			key = stringer.String()
		}
		if i+1 == len(keysAndValues) {
			fields = append(fields, zap.Any(key, errUnpairedKey))
			break
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}

func (l *roverLogger) Debug(args ...interface{}) { l.emit(DEBUG, styleSprint, "", args) }

func (l *roverLogger) Debugf(template string, args ...interface{}) {
	l.emit(DEBUG, styleSprintf, template, args)
}

func (l *roverLogger) Debugw(msg string, keysAndValues ...interface{}) {
	l.emit(DEBUG, styleKeyed, msg, keysAndValues)
}

func (l *roverLogger) Info(args ...interface{}) { l.emit(INFO, styleSprint, "", args) }

func (l *roverLogger) Infof(template string, args ...interface{}) {
	l.emit(INFO, styleSprintf, template, args)
}

func (l *roverLogger) Infow(msg string, keysAndValues ...interface{}) {
	l.emit(INFO, styleKeyed, msg, keysAndValues)
}

func (l *roverLogger) Warn(args ...interface{}) { l.emit(WARN, styleSprint, "", args) }

func (l *roverLogger) Warnf(template string, args ...interface{}) {
	l.emit(WARN, styleSprintf, template, args)
}

func (l *roverLogger) Warnw(msg string, keysAndValues ...interface{}) {
	l.emit(WARN, styleKeyed, msg, keysAndValues)
}

func (l *roverLogger) Error(args ...interface{}) { l.emit(ERROR, styleSprint, "", args) }

func (l *roverLogger) Errorf(template string, args ...interface{}) {
	l.emit(ERROR, styleSprintf, template, args)
}

func (l *roverLogger) Errorw(msg string, keysAndValues ...interface{}) {
	l.emit(ERROR, styleKeyed, msg, keysAndValues)
}

// callerOfLogMethod reports the code that called Info, Warnw and friends, e.g.
// "robot/adapter.go:112". Frames skipped: this function, emit, the public method.
func callerOfLogMethod() zapcore.EntryCaller {
	const skip = 3
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return zapcore.EntryCaller{}
	}
	caller := zapcore.EntryCaller{Defined: true, PC: pc, File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		caller.Function = fn.Name()
	}
	return caller
}
