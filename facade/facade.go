// Package facade exposes one process-wide Manager through primitive types,
// for callers on the far side of a language or ABI boundary. Booleans are
// 1 or 0 and optional strings are pointers.
package facade

import (
	mlogger "github.com/Furry-Monster/MLogger"
)

const (
	cTrue  = 1
	cFalse = 0
)

var manager = mlogger.New()

// Default returns the Manager every function in this package operates on.
func Default() *mlogger.Manager {
	return manager
}

func Init(path string, maxFileSize uint64, maxFiles int, asyncMode int, threadPoolSize int, minSeverity int) int {
	return boolToInt(manager.Initialize(mlogger.Config{
		Path:           path,
		MaxFileSize:    maxFileSize,
		MaxFiles:       maxFiles,
		AsyncMode:      asyncMode != 0,
		ThreadPoolSize: threadPoolSize,
		MinSeverity:    mlogger.Severity(minSeverity),
	}))
}

func InitDefault(path string) int {
	return boolToInt(manager.InitializePath(path))
}

// LogMessage discards a nil message.
func LogMessage(severity int, message *string) {
	manager.LogMessage(mlogger.Severity(severity), message)
}

// LogException treats nil arguments as empty.
func LogException(typ, message, stackTrace *string) {
	manager.LogException(deref(typ), deref(message), deref(stackTrace))
}

func Flush() {
	manager.Flush()
}

func SetLogLevel(severity int) {
	manager.SetLevel(mlogger.Severity(severity))
}

func GetLogLevel() int {
	return int(manager.GetLevel())
}

func IsInit() int {
	return boolToInt(manager.IsInitialized())
}

func Terminate() {
	manager.Terminate()
}

// SetErrorCallback registers cb for failures; nil restores stderr reporting.
func SetErrorCallback(cb mlogger.ErrorCallback) {
	manager.SetErrorCallback(cb)
}

func boolToInt(b bool) int {
	if b {
		return cTrue
	}
	return cFalse
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
