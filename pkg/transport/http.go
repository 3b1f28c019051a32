package transport

import (
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
)

const (
	defaultTimeout             = 30 * time.Second
	defaultTLSHandshakeTimeout = 10 * time.Second
	defaultIdleConnTimeout     = 90 * time.Second
	defaultMaxIdleConns        = 100
)

// HTTPFetcher 타임아웃과 기본 User-Agent가 설정된 HTTP 클라이언트 구현체입니다.
type HTTPFetcher struct {
	client *http.Client

	tlsHandshakeTimeout time.Duration
	idleConnTimeout     time.Duration
	maxIdleConns        int
	maxConnsPerHost     int
	proxyURL            string

	// transport WithTransport로 직접 지정된 RoundTripper (지정 시 연결 관련 옵션은 무시됨)
	transport http.RoundTripper

	defaultUA string
}

// NewHTTPFetcher 옵션을 적용한 HTTPFetcher를 생성합니다.
// 프록시 URL 형식이 잘못된 경우 InvalidArgument 에러를 반환합니다.
func NewHTTPFetcher(opts ...Option) (*HTTPFetcher, error) {
	h := &HTTPFetcher{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		tlsHandshakeTimeout: defaultTLSHandshakeTimeout,
		idleConnTimeout:     defaultIdleConnTimeout,
		maxIdleConns:        defaultMaxIdleConns,
	}

	for _, opt := range opts {
		opt(h)
	}

	if err := h.setupTransport(); err != nil {
		return nil, err
	}

	return h, nil
}

func (h *HTTPFetcher) setupTransport() error {
	if h.transport != nil {
		h.client.Transport = h.transport
		return nil
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSHandshakeTimeout = h.tlsHandshakeTimeout
	tr.IdleConnTimeout = h.idleConnTimeout
	tr.MaxIdleConns = h.maxIdleConns
	tr.MaxIdleConnsPerHost = h.maxIdleConns
	tr.MaxConnsPerHost = h.maxConnsPerHost

	if h.proxyURL != "" {
		u, err := url.Parse(h.proxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return apperrors.Newf(apperrors.InvalidArgument, "프록시 URL 형식이 올바르지 않습니다: %s", redactRawURL(h.proxyURL))
		}
		tr.Proxy = http.ProxyURL(u)
	}

	h.client.Transport = tr
	return nil
}

// Do HTTP 요청을 실행합니다.
// 요청 헤더에 User-Agent가 없고 기본값이 설정되어 있으면 기본값을 추가합니다.
func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if h.defaultUA != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", h.defaultUA)
	}
	return h.client.Do(req)
}
