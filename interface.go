package mlogger

// Logger is the write side of a Manager, for code that only emits records
// and should not control the lifecycle.
type Logger interface {
	Log(sev Severity, message string)
	LogException(typ, message, stackTrace string)
	Flush()
}

var _ Logger = (*Manager)(nil)
