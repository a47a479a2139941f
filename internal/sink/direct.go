package sink

import (
	"bufio"
	stderrs "errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	megabyte   = 1024 * 1024
	bufferSize = 32 * 1024

	// Records at or above this level are flushed to the file immediately.
	flushOnLevel = LevelError

	sessionFieldName = "session"
)

// Options parameterizes Open.
type Options struct {
	Path string
	// MaxFileSize is the rotation threshold in bytes. Zero disables size
	// based rotation.
	MaxFileSize uint64
	// MaxFiles is the number of rotated files kept next to the active one.
	MaxFiles  int
	Threshold Level
	// ExclusiveLock takes an advisory lock on Path+".lock" for the life of
	// the sink.
	ExclusiveLock bool
	// Session, when set, is stamped on every record.
	Session string
}

// Direct writes records on the caller's goroutine.
type Direct struct {
	mu        sync.Mutex
	file      *lumberjack.Logger
	buf       *bufio.Writer
	latch     *errorLatch
	logger    zerolog.Logger
	lock      *flock.Flock
	threshold atomic.Int32
	closed    atomic.Bool
	path      string
}

// Open creates the directory if needed, opens (or creates) the file at
// opts.Path and returns a ready sink.
func Open(opts Options) (*Direct, error) {
	if opts.Path == "" {
		return nil, errors.New("empty log path")
	}
	if !opts.Threshold.Valid() {
		return nil, errors.Wrapf(ErrInvalidLevel, "threshold %d", int(opts.Threshold))
	}
	if err := ensureDir(opts.Path); err != nil {
		return nil, err
	}

	var lock *flock.Flock
	if opts.ExclusiveLock {
		l, err := acquireLock(opts.Path)
		if err != nil {
			return nil, err
		}
		lock = l
	}

	file := newRollingFile(opts)
	// lumberjack opens lazily; an empty write surfaces path problems now.
	if _, err := file.Write(nil); err != nil {
		_ = releaseLock(lock)
		return nil, errors.Wrapf(err, "open %s", opts.Path)
	}

	d := &Direct{
		file: file,
		lock: lock,
		path: opts.Path,
	}
	d.buf = bufio.NewWriterSize(file, bufferSize)
	d.latch = &errorLatch{w: d.buf}

	ctx := zerolog.New(d.latch).With().Timestamp()
	if opts.Session != "" {
		ctx = ctx.Str(sessionFieldName, opts.Session)
	}
	d.logger = ctx.Logger()
	d.threshold.Store(int32(opts.Threshold))
	return d, nil
}

func newRollingFile(opts Options) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    maxSizeMB(opts.MaxFileSize),
		MaxBackups: opts.MaxFiles,
	}
}

// maxSizeMB converts a byte bound to lumberjack's megabyte granularity,
// rounding up. Zero maps to the largest size lumberjack can represent.
func maxSizeMB(size uint64) int {
	const unbounded = math.MaxInt / megabyte
	if size == 0 {
		return unbounded
	}
	mb := (size + megabyte - 1) / megabyte
	if mb > unbounded {
		return unbounded
	}
	return int(mb)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.Errorf("%s is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrapf(err, "stat %s", dir)
	}
	return errors.Wrapf(os.MkdirAll(dir, 0o755), "create %s", dir)
}

func (d *Direct) Write(level Level, msg string) error {
	if !level.Valid() {
		return errors.Wrapf(ErrInvalidLevel, "level %d", int(level))
	}
	if level < d.Threshold() {
		return nil
	}
	return d.write(level, msg)
}

// write encodes one record without consulting the threshold.
func (d *Direct) write(level Level, msg string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return ErrClosed
	}

	d.logger.Log().Str(zerolog.LevelFieldName, level.String()).Msg(msg)
	if err := d.latch.take(); err != nil {
		return errors.Wrapf(err, "write %s", d.path)
	}
	if level >= flushOnLevel {
		return errors.Wrapf(d.buf.Flush(), "flush %s", d.path)
	}
	return nil
}

func (d *Direct) SetThreshold(level Level) error {
	if !level.Valid() {
		return errors.Wrapf(ErrInvalidLevel, "threshold %d", int(level))
	}
	d.threshold.Store(int32(level))
	return nil
}

func (d *Direct) Threshold() Level {
	return Level(d.threshold.Load())
}

func (d *Direct) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return ErrClosed
	}
	return errors.Wrapf(d.buf.Flush(), "flush %s", d.path)
}

// Close is idempotent; only the first call releases anything.
func (d *Direct) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	if err := d.buf.Flush(); err != nil {
		errs = append(errs, errors.Wrapf(err, "flush %s", d.path))
	}
	if err := d.file.Close(); err != nil {
		errs = append(errs, errors.Wrapf(err, "close %s", d.path))
	}
	if err := releaseLock(d.lock); err != nil {
		errs = append(errs, err)
	}
	return stderrs.Join(errs...)
}

// Path returns the active file path.
func (d *Direct) Path() string {
	return d.path
}

// errorLatch keeps the first failed write for the sink to return, so that
// zerolog never falls back to printing on stderr itself.
type errorLatch struct {
	w   io.Writer
	err error
}

func (l *errorLatch) Write(p []byte) (int, error) {
	if _, err := l.w.Write(p); err != nil && l.err == nil {
		l.err = err
	}
	return len(p), nil
}

func (l *errorLatch) take() error {
	err := l.err
	l.err = nil
	return err
}
