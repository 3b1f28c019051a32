package log

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mocks & Helpers
// =============================================================================

type failWriter struct {
	err error
}

func (w *failWriter) Write(p []byte) (n int, err error) {
	return 0, w.err
}

type errorFormatter struct{}

func (f *errorFormatter) Format(entry *Entry) ([]byte, error) {
	return nil, errors.New("formatting failed")
}

// safeBuffer hook.Fire는 Read Lock만 잡으므로 Writer 자체가 동시성에 안전해야 합니다.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestHook() (h *hook, main, critical, verbose, console *safeBuffer) {
	main, critical, verbose, console = &safeBuffer{}, &safeBuffer{}, &safeBuffer{}, &safeBuffer{}
	h = &hook{
		mainWriter:     main,
		criticalWriter: critical,
		verboseWriter:  verbose,
		consoleWriter:  console,
		formatter:      &logrus.TextFormatter{DisableTimestamp: true},
	}
	return
}

func newEntry(level Level, msg string) *Entry {
	return &Entry{
		Logger:  logrus.New(),
		Level:   level,
		Message: msg,
		Data:    Fields{},
	}
}

// =============================================================================
// Routing
// =============================================================================

func TestHook_Levels(t *testing.T) {
	h, _, _, _, _ := newTestHook()
	assert.Equal(t, AllLevels, h.Levels())
}

func TestHook_Fire_Routing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		level        Level
		wantMain     bool
		wantCritical bool
		wantVerbose  bool
	}{
		{"Error goes to critical and main", ErrorLevel, true, true, false},
		{"Warn goes to main only", WarnLevel, true, false, false},
		{"Info goes to main only", InfoLevel, true, false, false},
		{"Debug goes to verbose only", DebugLevel, false, false, true},
		{"Trace goes to verbose only", TraceLevel, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, main, critical, verbose, console := newTestHook()
			require.NoError(t, h.Fire(newEntry(tt.level, "push sent")))

			assert.Equal(t, tt.wantMain, main.String() != "")
			assert.Equal(t, tt.wantCritical, critical.String() != "")
			assert.Equal(t, tt.wantVerbose, verbose.String() != "")
			assert.Contains(t, console.String(), "push sent")
		})
	}
}

func TestHook_Fire_FailSafe(t *testing.T) {
	t.Parallel()

	t.Run("Critical failure still writes main", func(t *testing.T) {
		main := &safeBuffer{}
		h := &hook{
			mainWriter:     main,
			criticalWriter: &failWriter{err: errors.New("disk full")},
			formatter:      &logrus.TextFormatter{DisableTimestamp: true},
		}

		err := h.Fire(newEntry(ErrorLevel, "token fetch failed"))

		require.EqualError(t, err, "disk full")
		assert.Contains(t, main.String(), "token fetch failed")
	})

	t.Run("Console failure is ignored", func(t *testing.T) {
		main := &safeBuffer{}
		h := &hook{
			mainWriter:    main,
			consoleWriter: &failWriter{err: errors.New("broken pipe")},
			formatter:     &logrus.TextFormatter{DisableTimestamp: true},
		}

		require.NoError(t, h.Fire(newEntry(InfoLevel, "ok")))
		assert.Contains(t, main.String(), "ok")
	})

	t.Run("Formatter failure is returned", func(t *testing.T) {
		h := &hook{mainWriter: &safeBuffer{}, formatter: &errorFormatter{}}
		assert.EqualError(t, h.Fire(newEntry(InfoLevel, "x")), "formatting failed")
	})
}

func TestHook_Close(t *testing.T) {
	t.Parallel()

	h, main, _, _, _ := newTestHook()
	require.NoError(t, h.Close())
	require.NoError(t, h.Fire(newEntry(InfoLevel, "after close")))

	assert.Empty(t, main.String())
}

func TestHook_Concurrency(t *testing.T) {
	t.Parallel()

	h, main, _, _, _ := newTestHook()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Fire(newEntry(InfoLevel, "concurrent"))
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = h.Close()
	}()
	wg.Wait()

	// Close 이후에는 어떤 기록도 추가되지 않아야 합니다.
	before := main.String()
	_ = h.Fire(newEntry(InfoLevel, "late"))
	assert.Equal(t, before, main.String())
}
