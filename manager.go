package mlogger

import (
	"io"
	"os"
	"sync"

	"github.com/Furry-Monster/MLogger/internal/sink"
	"github.com/Station-Manager/errors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Manager owns at most one active sink and serializes its lifecycle against
// concurrent logging. The zero value is not usable; construct with New.
//
// No public method panics or returns an error for runtime failures. Those
// are delivered to the ErrorCallback, or to the diagnostics stream when no
// callback is registered.
type Manager struct {
	mu          sync.RWMutex
	active      sink.Sink // guarded by mu
	initialized atomic.Bool
	closed      atomic.Bool
	pool        atomic.Pointer[sink.Pool]

	reporter *errorReporter
	diag     zerolog.Logger
	metrics  *metrics
	registry *prometheus.Registry

	diagOut         io.Writer
	initialCallback ErrorCallback
}

// New returns an uninitialized Manager. Each Manager registers its metrics
// with its own registry unless WithRegistry is given; a registry can serve
// only one Manager.
func New(opts ...Option) *Manager {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}

	m.diag = newDiagnostics(m.diagOut)
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.metrics = newMetrics(m.registry, m.queueDepth)
	m.reporter = newErrorReporter(m.diag, func(function string) {
		m.metrics.reports.WithLabelValues(function).Inc()
	})
	m.reporter.setCallback(m.initialCallback)
	return m
}

func newDiagnostics(w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	if w != nil {
		out = zerolog.ConsoleWriter{Out: zerolog.SyncWriter(w), NoColor: true}
	}
	return zerolog.New(out).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("component", componentName).
		Logger()
}

// Initialize validates cfg and installs a new sink built from it, replacing
// any active one. An invalid cfg returns false and leaves the current state
// untouched. A sink that cannot be built is reported under "initialize" and
// leaves the manager uninitialized.
func (m *Manager) Initialize(cfg Config) bool {
	if err := cfg.Validate(); err != nil {
		m.metrics.initialized(outcomeInvalid)
		m.diag.Debug().Err(err).Msg("configuration rejected")
		return false
	}

	if err := m.install(cfg); err != nil {
		m.metrics.initialized(outcomeFailure)
		m.reporter.reportErr(FuncInitialize, err)
		return false
	}

	m.metrics.initialized(outcomeSuccess)
	m.diag.Debug().Str("path", cfg.Path).Bool("async", cfg.AsyncMode).Msg("sink installed")
	return true
}

// InitializePath initializes with DefaultConfig(path).
func (m *Manager) InitializePath(path string) bool {
	return m.Initialize(DefaultConfig(path))
}

// install tears down whatever is active (outside the lock) until it finds
// the slot empty, then builds and installs the new sink under the lock.
func (m *Manager) install(cfg Config) error {
	for {
		detached, err := m.swap(cfg)
		if detached == nil {
			return err
		}
		m.teardown(detached)
	}
}

func (m *Manager) swap(cfg Config) (detached sink.Sink, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		detached = m.active
		m.active = nil
		m.initialized.Store(false)
		m.metrics.ready.Set(0)
		return detached, nil
	}

	s, err := m.openSink(cfg)
	if err != nil {
		return nil, err
	}
	m.active = s
	m.initialized.Store(true)
	m.metrics.ready.Set(1)
	return nil, nil
}

// openSink must be called with mu held for writing.
func (m *Manager) openSink(cfg Config) (s sink.Sink, err error) {
	const op errors.Op = "mlogger.openSink"
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = errors.New(op).Err(panicError(r)).Msg(errMsgSinkOpen)
		}
	}()

	if m.closed.Load() {
		return nil, errors.New(op).Msg(errMsgManagerClosed)
	}

	direct, err := sink.Open(sink.Options{
		Path:          cfg.Path,
		MaxFileSize:   cfg.MaxFileSize,
		MaxFiles:      cfg.MaxFiles,
		Threshold:     cfg.MinSeverity.level(),
		ExclusiveLock: cfg.ExclusiveLock,
		Session:       uuid.NewString(),
	})
	if err != nil {
		return nil, errors.New(op).Err(err).Msg(errMsgSinkOpen)
	}
	if !cfg.AsyncMode {
		return direct, nil
	}
	return sink.NewQueued(direct, m.workerPool(cfg), m.asyncFailure), nil
}

// workerPool returns the manager's pool, starting it on first use. The first
// caller's size and capacity stick for the life of the manager.
func (m *Manager) workerPool(cfg Config) *sink.Pool {
	if p := m.pool.Load(); p != nil {
		if p.Workers() != cfg.ThreadPoolSize {
			m.diag.Warn().
				Int("requested", cfg.ThreadPoolSize).
				Int("workers", p.Workers()).
				Msg("worker pool already running, keeping its size")
		}
		return p
	}

	p := sink.NewPool(sink.PoolConfig{
		Capacity: cfg.queueCapacity(),
		Workers:  cfg.ThreadPoolSize,
		Logger:   m.diag,
		OnPanic:  m.asyncFailure,
	})
	m.pool.Store(p)
	return p
}

// asyncFailure reports a failure raised on a pool worker. The report runs on
// its own goroutine: a callback that flushes or terminates must not hold the
// worker that the queued records behind it are waiting for.
func (m *Manager) asyncFailure(err error) {
	go m.reporter.reportErr(FuncLog, err)
}

func (m *Manager) teardown(s sink.Sink) {
	if err := safeCall(s.Flush); err != nil {
		m.reporter.reportErr(FuncTerminateFlush, err)
	}
	if err := safeCall(s.Close); err != nil {
		m.reporter.reportErr(FuncTerminateDrop, err)
	}
}

// withActive runs fn against the active sink under the read lock. It does
// nothing when uninitialized. A panic in fn is returned as an error.
func (m *Manager) withActive(fn func(sink.Sink) error) (err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return fn(m.active)
}

func (m *Manager) write(s sink.Sink, sev Severity, message string) error {
	const op errors.Op = "mlogger.write"
	if !sev.Valid() {
		return errors.New(op).Errorf("severity %d is outside [%d, %d]", int(sev), SeverityTrace, SeverityCritical)
	}
	if sev.level() < s.Threshold() {
		m.metrics.filtered.Inc()
		return nil
	}
	if err := s.Write(sev.level(), message); err != nil {
		return errors.New(op).Err(err).Msg("write failed")
	}
	m.metrics.records.WithLabelValues(sev.String()).Inc()
	return nil
}

// Log writes message at sev. It is a no-op while uninitialized.
func (m *Manager) Log(sev Severity, message string) {
	if !m.initialized.Load() {
		return
	}
	err := m.withActive(func(s sink.Sink) error {
		return m.write(s, sev, message)
	})
	if err != nil {
		m.reporter.reportErr(FuncLog, err)
	}
}

// LogMessage is Log for callers that may not have a message at all; a nil
// message is discarded silently.
func (m *Manager) LogMessage(sev Severity, message *string) {
	if message == nil {
		return
	}
	m.Log(sev, *message)
}

// LogException writes a single Error record describing an exception. Empty
// arguments are omitted from the record.
func (m *Manager) LogException(typ, message, stackTrace string) {
	if !m.initialized.Load() {
		return
	}
	entry := formatException(typ, message, stackTrace)
	err := m.withActive(func(s sink.Sink) error {
		return m.write(s, SeverityError, entry)
	})
	if err != nil {
		m.reporter.reportErr(FuncLogException, err)
	}
}

// Flush blocks until every record accepted so far is written.
func (m *Manager) Flush() {
	if err := m.withActive(sink.Sink.Flush); err != nil {
		m.reporter.reportErr(FuncFlush, err)
	}
}

// GetLevel returns the live threshold, or SeverityInfo when uninitialized.
func (m *Manager) GetLevel() Severity {
	const op errors.Op = "mlogger.GetLevel"
	level := SeverityInfo
	err := m.withActive(func(s sink.Sink) error {
		current := severityOf(s.Threshold())
		if !current.Valid() {
			return errors.New(op).Msg(errMsgInvalidSinkLvl)
		}
		level = current
		return nil
	})
	if err != nil {
		m.reporter.reportErr(FuncGetLogLevel, err)
		return SeverityInfo
	}
	return level
}

// SetLevel changes the threshold of the active sink. Out-of-range values are
// reported and leave the threshold unchanged.
func (m *Manager) SetLevel(sev Severity) {
	const op errors.Op = "mlogger.SetLevel"
	err := m.withActive(func(s sink.Sink) error {
		if !sev.Valid() {
			return errors.New(op).Errorf("invalid log level %d", int(sev))
		}
		return s.SetThreshold(sev.level())
	})
	if err != nil {
		m.reporter.reportErr(FuncSetLogLevel, err)
	}
}

// IsInitialized reports whether a sink is installed. It takes the read lock,
// so it waits out a reinitialization in progress.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active != nil
}

// Terminate flushes and closes the active sink. The manager is
// uninitialized afterwards, even when teardown fails.
func (m *Manager) Terminate() {
	m.mu.Lock()
	detached := m.active
	m.active = nil
	m.initialized.Store(false)
	m.metrics.ready.Set(0)
	m.mu.Unlock()

	if detached != nil {
		m.teardown(detached)
	}
}

// SetErrorCallback replaces the callback; nil restores the diagnostics
// fallback. The callback survives Terminate and Initialize.
func (m *Manager) SetErrorCallback(cb ErrorCallback) {
	m.reporter.setCallback(cb)
}

// Close terminates the manager and stops its worker pool. A closed manager
// refuses further Initialize calls.
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.Terminate()
	if p := m.pool.Swap(nil); p != nil {
		p.Stop()
	}
	return nil
}

// Gatherer exposes the manager's metrics.
func (m *Manager) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Manager) queueDepth() float64 {
	if p := m.pool.Load(); p != nil {
		return float64(p.Depth())
	}
	return 0
}
