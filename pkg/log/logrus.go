package log

import (
	"github.com/sirupsen/logrus"
)

// LogrusAdapter implements Logger using logrus.
type LogrusAdapter struct {
	logger logrus.FieldLogger
}

// NewLogrusAdapter creates an adapter wrapping a *logrus.Logger or *logrus.Entry.
// A nil logger uses logrus.StandardLogger().
func NewLogrusAdapter(logger logrus.FieldLogger) *LogrusAdapter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusAdapter{logger: logger}
}

func (l *LogrusAdapter) Debug(msg string, fields ...Field) { l.entry(fields).Debug(msg) }
func (l *LogrusAdapter) Info(msg string, fields ...Field)  { l.entry(fields).Info(msg) }
func (l *LogrusAdapter) Warn(msg string, fields ...Field)  { l.entry(fields).Warn(msg) }
func (l *LogrusAdapter) Error(msg string, fields ...Field) { l.entry(fields).Error(msg) }

// With returns an adapter whose records always carry fields.
func (l *LogrusAdapter) With(fields ...Field) Logger {
	return &LogrusAdapter{logger: l.entry(fields)}
}

func (l *LogrusAdapter) entry(fields []Field) logrus.FieldLogger {
	if len(fields) == 0 {
		return l.logger
	}
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return l.logger.WithFields(data)
}
