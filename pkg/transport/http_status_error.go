package transport

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
)

// maxBodySnippet HTTPStatusError에 보관하는 응답 본문의 최대 길이 (4KB)
const maxBodySnippet = 4 * 1024

// HTTPStatusError 200 이외의 HTTP 응답을 표현하는 구조화된 에러입니다.
//
//	var statusErr *transport.HTTPStatusError
//	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
//	    // 액세스 토큰 만료
//	}
type HTTPStatusError struct {
	StatusCode int
	Status     string

	// URL 민감한 정보가 마스킹된 요청 URL
	URL string

	// Header 민감한 헤더가 마스킹된 응답 헤더
	Header http.Header

	// BodySnippet 응답 본문의 앞부분 (최대 4KB)
	BodySnippet string
}

// Error 표준 error 인터페이스를 구현합니다.
func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d (%s)", e.StatusCode, e.Status)
	if e.URL != "" {
		msg += " URL: " + e.URL
	}
	if e.BodySnippet != "" {
		msg += ", Body: " + e.BodySnippet
	}
	return msg
}

// CheckResponseStatus 응답 상태 코드가 200이 아니면 HTTPStatusError를 원인으로 하는 ServiceFailed 에러를 반환합니다.
func CheckResponseStatus(resp *Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	statusErr := &HTTPStatusError{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		URL:         resp.URL,
		Header:      redactHeaders(resp.Header),
		BodySnippet: bodySnippet(resp.Body),
	}

	return apperrors.Wrapf(statusErr, apperrors.ServiceFailed, "서비스가 실패 상태 코드를 반환했습니다: %d", resp.StatusCode)
}

// bodySnippet 본문의 앞부분을 잘라내며, 멀티바이트 문자가 중간에 잘리지 않도록 합니다.
func bodySnippet(body []byte) string {
	if len(body) <= maxBodySnippet {
		return string(body)
	}

	cut := body[:maxBodySnippet]
	for len(cut) > 0 && !utf8.Valid(cut) {
		cut = cut[:len(cut)-1]
	}
	return string(cut) + "...(truncated)"
}
