// Package sink is the file engine driven by the manager: a rotating,
// buffered writer that encodes records with zerolog (Direct), and a queued
// front for it whose records are written by a shared worker pool (Queued).
//
// Both variants satisfy Sink, so callers pick one at construction time and
// store the interface value.
package sink

import (
	"fmt"

	"github.com/pkg/errors"
)

// Level is the engine's severity scale, ordered Trace (lowest) to Critical.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

var levelNames = [...]string{"trace", "debug", "info", "warn", "error", "critical"}

// Valid reports whether l is one of the six defined levels.
func (l Level) Valid() bool {
	return l >= LevelTrace && l <= LevelCritical
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Sink is a live log destination.
type Sink interface {
	// Write records msg at level. Records below the threshold are dropped
	// without error.
	Write(level Level, msg string) error
	SetThreshold(level Level) error
	Threshold() Level
	// Flush blocks until everything accepted so far has been handed to the file.
	Flush() error
	// Close flushes and releases the file. Further writes return ErrClosed.
	Close() error
}

var (
	ErrClosed       = errors.New("sink is closed")
	ErrInvalidLevel = errors.New("invalid level")
	ErrLocked       = errors.New("log file is locked by another writer")
	ErrPoolStopped  = errors.New("worker pool is stopped")
)
