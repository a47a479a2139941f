package mlogger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Furry-Monster/MLogger/internal/sink"
)

// Severity orders log records from least to most important.
type Severity int

const (
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError
	SeverityCritical
)

var severityNames = [...]string{"trace", "debug", "info", "warn", "error", "critical"}

// Valid reports whether s is within Trace..Critical.
func (s Severity) Valid() bool {
	return s >= SeverityTrace && s <= SeverityCritical
}

func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity accepts a severity name ("warn", "WARNING") or its integer
// code ("3").
func ParseSeverity(text string) (Severity, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	if n, err := strconv.Atoi(t); err == nil {
		s := Severity(n)
		if !s.Valid() {
			return 0, fmt.Errorf("severity %d out of range", n)
		}
		return s, nil
	}
	if t == "warning" {
		return SeverityWarn, nil
	}
	for i, name := range severityNames {
		if name == t {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", text)
}

func (s Severity) level() sink.Level {
	return sink.Level(s)
}

func severityOf(l sink.Level) Severity {
	return Severity(l)
}

// UnmarshalText lets configuration sources spell severities by name.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
