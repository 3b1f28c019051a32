package transport

import (
	"context"
	"net/http"
	"time"

	applog "github.com/darkkaiser/hms-push/pkg/log"
)

type correlationIDKey struct{}

// WithCorrelationID 요청 추적용 식별자를 context에 담습니다.
// LoggingFetcher는 이 값을 "correlation_id" 필드로 기록합니다.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID context에 담긴 요청 추적용 식별자를 반환합니다. 없으면 빈 문자열입니다.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// LoggingFetcher HTTP 요청의 메서드, 마스킹된 URL, 응답 상태, 소요 시간을 기록하는 미들웨어입니다.
// 성공은 Debug, 네트워크 에러는 Error, 200 이외의 응답은 Warn 레벨로 기록합니다.
type LoggingFetcher struct {
	delegate Fetcher
}

// NewLoggingFetcher 새로운 LoggingFetcher를 생성합니다.
func NewLoggingFetcher(delegate Fetcher) *LoggingFetcher {
	return &LoggingFetcher{
		delegate: delegate,
	}
}

// Do HTTP 요청을 수행하고 결과를 기록합니다.
func (f *LoggingFetcher) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := f.delegate.Do(req)

	fields := applog.Fields{
		"method":   req.Method,
		"url":      redactURL(req.URL),
		"duration": time.Since(start).String(),
	}
	if id := CorrelationID(req.Context()); id != "" {
		fields["correlation_id"] = id
	}

	if err != nil {
		fields["error"] = err.Error()
		if resp != nil {
			fields["status"] = resp.Status
			fields["status_code"] = resp.StatusCode
		}

		applog.WithComponentAndFields(component, fields).
			WithContext(req.Context()).
			Error("HTTP 요청 실패: 요청 처리 중 에러 발생")

		return resp, err
	}

	fields["status"] = resp.Status
	fields["status_code"] = resp.StatusCode

	entry := applog.WithComponentAndFields(component, fields).WithContext(req.Context())
	if resp.StatusCode != http.StatusOK {
		entry.Warn("HTTP 요청 완료: 200 이외의 상태 코드 수신")
	} else {
		entry.Debug("HTTP 요청 완료")
	}

	return resp, nil
}
