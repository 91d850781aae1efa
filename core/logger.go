package core

// Logger is any leveled logger the app can report through.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// NopLogger discards everything; the fallback when no logger is wired.
type NopLogger struct{}

var _ Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}
