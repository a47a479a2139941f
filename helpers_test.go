package mlogger

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// threadSafeBuffer is a simple thread-safe buffer for capturing log output.
type threadSafeBuffer struct {
	bytes.Buffer
	sync.Mutex
}

func (b *threadSafeBuffer) Write(p []byte) (n int, err error) {
	b.Lock()
	defer b.Unlock()
	return b.Buffer.Write(p)
}

func (b *threadSafeBuffer) String() string {
	b.Lock()
	defer b.Unlock()
	return b.Buffer.String()
}

type report struct {
	message  string
	function string
}

// reportRecorder collects ErrorCallback invocations.
type reportRecorder struct {
	mu      sync.Mutex
	reports []report
}

func (r *reportRecorder) callback(message, function string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report{message: message, function: function})
}

func (r *reportRecorder) all() []report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]report(nil), r.reports...)
}

func (r *reportRecorder) count(function string) int {
	n := 0
	for _, rep := range r.all() {
		if rep.function == function {
			n++
		}
	}
	return n
}

func newTestManager(t testing.TB) (*Manager, *reportRecorder, *threadSafeBuffer) {
	t.Helper()
	var diag threadSafeBuffer
	rec := &reportRecorder{}
	m := New(WithDiagnostics(&diag), WithErrorCallback(rec.callback))
	t.Cleanup(func() { _ = m.Close() })
	return m, rec, &diag
}

func testConfig(t testing.TB, async bool) Config {
	t.Helper()
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "logs", "app.log"))
	cfg.AsyncMode = async
	return cfg
}

func readLog(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// blockedPath returns a log path whose parent directory cannot be created
// because a regular file sits where a directory is needed.
func blockedPath(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))
	return filepath.Join(blocker, "sub", "app.log")
}
