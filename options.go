package mlogger

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager at construction.
type Option func(*Manager)

// WithDiagnostics sends the manager's own diagnostics, including reports
// that no callback handled, to w instead of stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(m *Manager) {
		m.diagOut = w
	}
}

// WithErrorCallback registers cb before the manager is used.
func WithErrorCallback(cb ErrorCallback) Option {
	return func(m *Manager) {
		m.initialCallback = cb
	}
}

// WithRegistry registers the manager's collectors with reg instead of a
// private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) {
		m.registry = reg
	}
}
