package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// hook 로그 레벨에 따라 하나의 로그 이벤트를 여러 Writer로 분배합니다.
//
// 라우팅 정책:
//   - console: 모든 레벨
//   - critical: ERROR 이상
//   - verbose: DEBUG 이하 (main에는 기록하지 않음)
//   - main: INFO 이상
type hook struct {
	mainWriter     io.Writer
	criticalWriter io.Writer
	verboseWriter  io.Writer
	consoleWriter  io.Writer

	formatter Formatter

	mu     sync.RWMutex // Fire(Read Lock)와 Close(Write Lock) 간의 동시성 제어
	closed bool
}

// Levels 이 Hook이 수신할 로그 레벨의 집합을 반환합니다.
func (h *hook) Levels() []Level {
	return AllLevels
}

// Fire 로그 이벤트를 한 번만 포맷팅한 뒤 라우팅 정책에 따라 각 Writer에 기록합니다.
// 하나의 Writer가 실패해도 나머지 Writer에는 기록을 시도하며, 첫 번째 에러를 반환합니다.
func (h *hook) Fire(entry *Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	// 콘솔 출력 실패는 전파하지 않습니다.
	_ = writeTo(h.consoleWriter, msg, "console")

	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	if entry.Level <= ErrorLevel {
		keep(writeTo(h.criticalWriter, msg, "critical"))
	}

	if entry.Level >= DebugLevel {
		keep(writeTo(h.verboseWriter, msg, "verbose"))
		return firstErr
	}

	keep(writeTo(h.mainWriter, msg, "main"))

	return firstErr
}

// writeTo w가 설정된 경우에만 기록하고, 실패하면 표준 에러로 알립니다.
func writeTo(w io.Writer, msg []byte, channel string) error {
	if w == nil {
		return nil
	}
	if _, err := w.Write(msg); err != nil {
		fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] %s 로그 쓰기 실패: %v\n", channel, err)
		return err
	}
	return nil
}

// Close 이후의 모든 로그 기록 요청을 무시하도록 Hook을 비활성화합니다.
// 진행 중인 Fire 호출이 모두 끝날 때까지 대기합니다.
func (h *hook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	return nil
}
