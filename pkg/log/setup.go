package log

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// 생성되는 로그 파일의 기본 확장자
	fileExt = "log"

	// 기본 로그 로테이션 정책
	defaultMaxSizeMB  = 100 // 로그 파일 하나당 최대 크기 (단위: MB)
	defaultMaxBackups = 20  // 로테이션 된 로그 파일의 최대 보관 개수

	// 로그 저장 경로가 명시되지 않은 경우 사용되는 디렉토리
	defaultDir = "logs"
)

var (
	// Setup() 함수가 프로세스 생명주기 동안 단 한 번만 실행되도록 보장합니다.
	setupOnce sync.Once

	// 최초 초기화 시 생성된 Closer를 보관하여, Setup 재호출 시 동일한 인스턴스를 반환합니다.
	globalCloser io.Closer

	// 최초 초기화에서 발생한 에러를 보관합니다. 재호출되더라도 재시도하지 않습니다.
	globalSetupErr error
)

// Setup 전역 로깅 시스템을 초기화하고 설정된 옵션에 따라 파일 출력을 구성합니다.
//
// SDK를 라이브러리로만 사용하는 애플리케이션은 Setup을 호출하지 않아도 됩니다.
// 이 경우 SDK의 로그는 logrus 표준 로거의 설정을 그대로 따릅니다.
//
// 주의:
//   - 애플리케이션 시작 시점(main 함수 도입부)에 호출하는 것을 권장합니다.
//   - 반환된 Closer는 반드시 defer를 통해 리소스가 해제되도록 보장해야 합니다.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		globalCloser, globalSetupErr = setupInternal(opts)
	})

	return globalCloser, globalSetupErr
}

func setupInternal(opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	level := opts.Level
	if level == 0 {
		level = InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetReportCaller(opts.ReportCaller)

	// io.Discard로 버리더라도 logrus는 포맷팅을 수행하므로, 실제 포맷팅은 hook에 맡깁니다.
	logrus.SetFormatter(discardFormatter{})

	logDir := opts.Dir
	if logDir == "" {
		logDir = defaultDir
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "로그 디렉토리(%s) 생성에 실패했습니다", logDir)
	}

	// 모든 출력은 hook이 담당합니다.
	logrus.SetOutput(io.Discard)

	h := &hook{
		formatter: newTextFormatter(opts.CallerPathPrefix),
	}

	mainLogger := newRotatingLogger(logDir, opts, "")
	closers := []io.Closer{mainLogger}
	h.mainWriter = mainLogger

	if opts.EnableCriticalLog {
		criticalLogger := newRotatingLogger(logDir, opts, "critical")
		closers = append(closers, criticalLogger)
		h.criticalWriter = criticalLogger
	}
	if opts.EnableVerboseLog {
		verboseLogger := newRotatingLogger(logDir, opts, "verbose")
		closers = append(closers, verboseLogger)
		h.verboseWriter = verboseLogger
	}
	if opts.EnableConsoleLog {
		h.consoleWriter = os.Stdout
	}

	logrus.AddHook(h)

	c := &closer{
		closers: closers,
		hook:    h,
	}

	// Fatal 로그로 os.Exit가 호출되기 직전에 버퍼에 남은 로그를 디스크에 기록합니다.
	logrus.RegisterExitHandler(func() {
		_ = c.Close()
	})

	return c, nil
}

// newRotatingLogger 로그 파일 하나에 대한 lumberjack 로테이션 Writer를 생성합니다.
// lumberjack은 첫 Write 시점에 파일을 열기 때문에 이 함수는 실패하지 않습니다.
func newRotatingLogger(dir string, opts Options, suffix string) *lumberjack.Logger {
	maxSize := opts.MaxSizeMB
	if maxSize == 0 {
		maxSize = defaultMaxSizeMB
	}
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = defaultMaxBackups
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName(opts.Name, suffix)),
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     opts.MaxAge,
		Compress:   false,
		LocalTime:  true,
	}
}

// logFileName "hmspush.log", "hmspush.critical.log" 형태의 파일명을 만듭니다.
func logFileName(name, suffix string) string {
	if suffix == "" {
		return name + "." + fileExt
	}
	return name + "." + suffix + "." + fileExt
}

func newTextFormatter(callerPathPrefix string) *logrus.TextFormatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			function = frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")"
			if callerPathPrefix != "" {
				if cut, found := strings.CutPrefix(function, callerPathPrefix); found {
					function = "..." + cut
				}
			}
			return
		},
	}
}

// discardFormatter 표준 로거 출력은 io.Discard로 버려지므로 포맷팅 비용을 들이지 않습니다.
type discardFormatter struct{}

func (discardFormatter) Format(*logrus.Entry) ([]byte, error) { return nil, nil }
