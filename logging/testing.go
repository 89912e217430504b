package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

// tbAppender routes log lines through tb.Log so they are attributed to the running test.
type tbAppender struct {
	tb testing.TB
}

// NewTestAppender returns an appender that writes console formatted lines with tb.Log.
func NewTestAppender(tb testing.TB) Appender {
	return tbAppender{tb: tb}
}

func (a tbAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	a.tb.Helper()
	line, err := formatEntry(entry, fields)
	a.tb.Log(line)
	return err
}

func (a tbAppender) Sync() error {
	return nil
}
