package log

// Discard is a Logger that writes nothing.
var Discard Logger = NoopLogger{}

// NoopLogger implements Logger by discarding all log messages.
type NoopLogger struct{}

// NewNoopLogger creates a new no-op logger.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (NoopLogger) Debug(string, ...Field) {}
func (NoopLogger) Info(string, ...Field)  {}
func (NoopLogger) Warn(string, ...Field)  {}
func (NoopLogger) Error(string, ...Field) {}

// With returns the logger unchanged; there is nothing to attach fields to.
func (n NoopLogger) With(...Field) Logger { return n }
