package facade

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callbackLog struct {
	mu        sync.Mutex
	functions []string
}

func (c *callbackLog) record(message, function string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.functions = append(c.functions, function)
}

func (c *callbackLog) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.functions...)
}

func withCallback(t *testing.T) *callbackLog {
	t.Helper()
	c := &callbackLog{}
	SetErrorCallback(c.record)
	t.Cleanup(func() {
		Terminate()
		SetErrorCallback(nil)
	})
	return c
}

func ptr(s string) *string { return &s }

func TestInitAndLog(t *testing.T) {
	calls := withCallback(t)
	path := filepath.Join(t.TempDir(), "facade.log")

	require.Equal(t, 1, Init(path, 1024*1024, 3, 0, 1, 2))
	assert.Equal(t, 1, IsInit())
	assert.Equal(t, 2, GetLogLevel())

	LogMessage(1, ptr("debug dropped"))
	LogMessage(2, ptr("info kept"))
	LogMessage(2, nil)
	LogException(ptr("IOError"), ptr("disk full"), nil)
	LogException(nil, nil, nil)
	Flush()
	Terminate()
	assert.Equal(t, 0, IsInit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.NotContains(t, content, "debug dropped")
	assert.Contains(t, content, "info kept")
	assert.Contains(t, content, "[EXCEPTION] IOError: disk full")
	assert.Equal(t, 3, strings.Count(content, "\n"))
	assert.Empty(t, calls.snapshot())
}

func TestInitRejectsInvalidArguments(t *testing.T) {
	calls := withCallback(t)
	dir := t.TempDir()

	assert.Equal(t, 0, Init("", 1024, 3, 0, 1, 2))
	assert.Equal(t, 0, Init(filepath.Join(dir, "a.log"), 1024, 0, 0, 1, 2))
	assert.Equal(t, 0, Init(filepath.Join(dir, "a.log"), 1024, 3, 0, 0, 2))
	assert.Equal(t, 0, Init(filepath.Join(dir, "a.log"), 1024, 3, 0, 1, 6))
	assert.Equal(t, 0, InitDefault(""))
	assert.Equal(t, 0, IsInit())
	assert.Empty(t, calls.snapshot())
}

func TestLevels(t *testing.T) {
	calls := withCallback(t)
	assert.Equal(t, 2, GetLogLevel())

	require.Equal(t, 1, InitDefault(filepath.Join(t.TempDir(), "levels.log")))
	SetLogLevel(4)
	assert.Equal(t, 4, GetLogLevel())
	SetLogLevel(9)
	assert.Equal(t, 4, GetLogLevel())
	assert.Equal(t, []string{"setLogLevel"}, calls.snapshot())
}

func TestAsyncInit(t *testing.T) {
	withCallback(t)
	path := filepath.Join(t.TempDir(), "async.log")
	require.Equal(t, 1, Init(path, 0, 2, 1, 2, 0))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				LogMessage(0, ptr("async"))
			}
		}()
	}
	wg.Wait()
	Flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 200, strings.Count(string(data), `"message":"async"`))
	assert.Same(t, Default(), manager)
}
