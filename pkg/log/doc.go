// Package log provides the logging facade used by ubean components.
//
// The lifecycle core reports diagnostics (transitions, hook failures,
// panicking listeners) through the Logger interface defined here. Logging is
// optional instrumentation: every component works with the no-op logger.
//
// # Usage
//
// Use the provided zerolog adapter:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Adapters for zap and logrus are included as well:
//
//	logger := log.NewZapAdapter(zap.Must(zap.NewProduction()))
//	logger := log.NewLogrusAdapter(logrus.StandardLogger())
//
// Or use the no-op logger for testing:
//
//	logger := log.NewNoopLogger()
//
// Attach fields to every record, e.g. the component name:
//
//	logger = log.With(logger, log.String("component", "cache"))
//
// # Custom Loggers
//
// Implement the Logger interface to integrate with your existing
// logging infrastructure:
//
//	type MyLogger struct { ... }
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
//
// # Version
//
// Current version: 1.2.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package log
