package transport

import (
	"errors"
	"io"
	"net/http"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
)

const (
	// defaultMaxBytes 응답 본문의 기본 크기 제한값입니다 (1MB).
	// 푸시 서비스의 응답은 수백 바이트 수준이므로 이 값을 넘는 응답은 비정상으로 간주합니다.
	defaultMaxBytes = 1 * 1024 * 1024

	// NoLimit 응답 본문에 대한 크기 제한을 적용하지 않음을 나타냅니다.
	NoLimit = -1
)

// newErrResponseBodyTooLarge 응답 본문이 제한을 넘었을 때의 에러를 생성합니다.
func newErrResponseBodyTooLarge(limit int64) error {
	return apperrors.Newf(apperrors.ServiceFailed, "응답 본문의 크기가 제한(%d 바이트)을 초과했습니다", limit)
}

// maxBytesReader http.MaxBytesReader의 에러를 apperrors 형식으로 변환합니다.
type maxBytesReader struct {
	rc    io.ReadCloser
	limit int64
}

func (r *maxBytesReader) Read(p []byte) (n int, err error) {
	n, err = r.rc.Read(p)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return n, newErrResponseBodyTooLarge(r.limit)
		}
	}
	return n, err
}

func (r *maxBytesReader) Close() error {
	return r.rc.Close()
}

// MaxBytesFetcher HTTP 응답 본문의 크기를 제한하는 미들웨어입니다.
//
// Content-Length 헤더로 먼저 차단하고, 헤더가 없거나 조작된 경우에는 실제 읽기 시점에 차단합니다.
type MaxBytesFetcher struct {
	delegate Fetcher
	limit    int64
}

// NewMaxBytesFetcher 새로운 MaxBytesFetcher를 생성합니다.
// limit이 NoLimit이면 delegate를 그대로 반환하고, 0 이하이면 기본값을 사용합니다.
func NewMaxBytesFetcher(delegate Fetcher, limit int64) Fetcher {
	if limit == NoLimit {
		return delegate
	}
	if limit <= 0 {
		limit = defaultMaxBytes
	}

	return &MaxBytesFetcher{
		delegate: delegate,
		limit:    limit,
	}
}

// Do HTTP 요청을 수행하고, 응답 본문에 크기 제한을 적용합니다.
// 반환된 응답의 Body는 호출자가 닫아야 합니다.
func (f *MaxBytesFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	if resp.ContentLength > f.limit {
		drainAndCloseBody(resp.Body)
		return nil, newErrResponseBodyTooLarge(f.limit)
	}

	resp.Body = &maxBytesReader{
		rc:    http.MaxBytesReader(nil, resp.Body, f.limit),
		limit: f.limit,
	}

	return resp, nil
}
