// Package transport 푸시 서비스와 인증 서버로 향하는 HTTP 요청을 처리하는 Fetcher 체인을 제공합니다.
//
// Fetcher 체인은 데코레이터 패턴으로 구성되며, 바깥쪽부터 다음 순서로 요청을 처리합니다.
//
//  1. LoggingFetcher   : 요청 메서드, 마스킹된 URL, 상태 코드, 소요 시간을 기록
//  2. RateLimitFetcher : 초당 요청 수 제한 (선택)
//  3. MaxBytesFetcher  : 응답 본문 크기 제한
//  4. HTTPFetcher      : 실제 네트워크 I/O (타임아웃, 프록시, User-Agent)
//
// 상태 코드 검증은 체인에 포함하지 않습니다. 푸시 서비스는 200 이외의 응답에도
// 결과 코드를 담은 JSON 본문을 반환하므로, 본문 해석은 호출자(auth, messaging)의 몫입니다.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
)

// component transport 패키지의 로깅용 컴포넌트 이름
const component = "transport"

// Fetcher HTTP 요청을 수행하는 인터페이스
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response 본문까지 모두 읽은 HTTP 응답입니다.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	// URL 마스킹된 요청 URL (에러 메시지용)
	URL string
}

// PostJSON payload를 JSON으로 직렬화하여 POST 요청을 보내고, 응답 본문을 모두 읽어 반환합니다.
// 상태 코드는 검사하지 않습니다.
func PostJSON(ctx context.Context, f Fetcher, rawURL string, header http.Header, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "요청 본문을 JSON으로 직렬화하지 못했습니다")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Internal, "HTTP 요청을 생성하지 못했습니다 (URL: %s)", redactRawURL(rawURL))
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	return do(f, req)
}

// PostForm form 값을 application/x-www-form-urlencoded 형식으로 POST 합니다.
func PostForm(ctx context.Context, f Fetcher, rawURL string, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Internal, "HTTP 요청을 생성하지 못했습니다 (URL: %s)", redactRawURL(rawURL))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return do(f, req)
}

func do(f Fetcher, req *http.Request) (*Response, error) {
	safeURL := redactURL(req.URL)

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, classifyError(req.Context(), err, "HTTP 요청 전송에 실패했습니다 (URL: "+safeURL+")")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyError(req.Context(), err, "HTTP 응답 본문을 읽지 못했습니다 (URL: "+safeURL+")")
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       body,
		URL:        safeURL,
	}, nil
}

// classifyError 네트워크 계층의 에러를 호출자가 구분할 수 있는 ErrorType으로 변환합니다.
//
//   - 호출자의 context 취소: Canceled
//   - 데드라인 초과 또는 net.Error 타임아웃: Timeout
//   - 그 외: Transport
func classifyError(ctx context.Context, err error, message string) error {
	// 체인 안쪽의 미들웨어가 이미 분류한 에러는 그대로 전달합니다.
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return apperrors.Wrap(err, apperrors.Canceled, message)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.Wrap(err, apperrors.Timeout, message)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Wrap(err, apperrors.Timeout, message)
	}

	return apperrors.Wrap(err, apperrors.Transport, message)
}
