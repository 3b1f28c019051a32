package transport

import (
	"net/http"
	"time"
)

// Option HTTPFetcher의 설정을 변경하기 위한 함수 타입입니다.
type Option func(*HTTPFetcher)

// WithTimeout HTTP 요청 전체에 대한 타임아웃을 설정합니다.
//
// DNS 조회부터 응답 본문 읽기까지 모든 단계를 포함합니다.
// 0이면 타임아웃이 비활성화됩니다.
func WithTimeout(timeout time.Duration) Option {
	return func(h *HTTPFetcher) {
		h.client.Timeout = timeout
	}
}

// WithTLSHandshakeTimeout TLS 핸드셰이크 타임아웃을 설정합니다.
func WithTLSHandshakeTimeout(timeout time.Duration) Option {
	return func(h *HTTPFetcher) {
		h.tlsHandshakeTimeout = timeout
	}
}

// WithIdleConnTimeout 유휴 연결이 닫히기 전 유지되는 시간을 설정합니다.
func WithIdleConnTimeout(timeout time.Duration) Option {
	return func(h *HTTPFetcher) {
		h.idleConnTimeout = timeout
	}
}

// WithProxy 모든 요청이 지정된 프록시 서버를 거치도록 설정합니다.
// 빈 문자열이면 환경 변수(HTTPS_PROXY 등)를 따릅니다.
func WithProxy(proxyURL string) Option {
	return func(h *HTTPFetcher) {
		h.proxyURL = proxyURL
	}
}

// WithMaxIdleConns 유휴 연결의 최대 개수를 설정합니다. 호스트당 제한도 같은 값으로 설정됩니다.
//
// 푸시 서비스와 인증 서버 두 호스트만 사용하므로, 대량 발송 시에는
// 동시 발송 수 이상으로 설정해야 연결이 재사용됩니다.
func WithMaxIdleConns(max int) Option {
	return func(h *HTTPFetcher) {
		if max >= 0 {
			h.maxIdleConns = max
		}
	}
}

// WithMaxConnsPerHost 호스트당 최대 연결 개수를 설정합니다. (0: 무제한)
func WithMaxConnsPerHost(max int) Option {
	return func(h *HTTPFetcher) {
		if max >= 0 {
			h.maxConnsPerHost = max
		}
	}
}

// WithUserAgent 요청 헤더에 User-Agent가 없을 때 사용할 기본값을 설정합니다.
func WithUserAgent(ua string) Option {
	return func(h *HTTPFetcher) {
		h.defaultUA = ua
	}
}

// WithTransport HTTP 클라이언트의 Transport를 직접 설정합니다.
// 이 옵션을 사용하면 연결 관련 옵션(WithProxy, WithMaxIdleConns 등)은 무시됩니다.
func WithTransport(transport http.RoundTripper) Option {
	return func(h *HTTPFetcher) {
		h.transport = transport
	}
}
