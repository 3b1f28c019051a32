package transport

import (
	"time"
)

// Config Fetcher 체인 구성을 위한 설정입니다. 설정 파일의 "push.http" 섹션에 대응합니다.
type Config struct {
	// Timeout HTTP 요청 전체에 대한 타임아웃 (0: 기본값 30초)
	Timeout time.Duration `json:"timeout" validate:"gte=0"`

	// TLSHandshakeTimeout TLS 핸드셰이크 타임아웃 (0: 기본값 10초)
	TLSHandshakeTimeout time.Duration `json:"tls_handshake_timeout" validate:"gte=0"`

	// IdleConnTimeout 유휴 연결 유지 시간 (0: 기본값 90초)
	IdleConnTimeout time.Duration `json:"idle_conn_timeout" validate:"gte=0"`

	// ProxyURL 프록시 서버 주소 (빈 값: 환경 변수를 따름)
	ProxyURL string `json:"proxy_url" validate:"omitempty,url"`

	// MaxIdleConns 유휴 연결의 최대 개수 (0: 기본값 100)
	MaxIdleConns int `json:"max_idle_conns" validate:"gte=0"`

	// MaxConnsPerHost 호스트당 최대 연결 개수 (0: 무제한)
	MaxConnsPerHost int `json:"max_conns_per_host" validate:"gte=0"`

	// MaxBytes 응답 본문의 최대 허용 크기 (0: 기본값 1MB, -1: 제한 없음)
	MaxBytes int64 `json:"max_bytes" validate:"gte=-1"`

	// RateLimit 초당 최대 요청 수 (0: 제한 없음)
	RateLimit float64 `json:"rate_limit" validate:"gte=0"`

	// RateBurst 순간적으로 허용하는 최대 요청 수 (0: 1)
	RateBurst int `json:"rate_burst" validate:"gte=0"`

	// UserAgent 기본 User-Agent (빈 값: "hms-push-go/<version>")
	UserAgent string `json:"user_agent"`

	// DisableLogging HTTP 요청/응답 로깅 비활성화 여부
	DisableLogging bool `json:"disable_logging"`
}

// New Config와 추가 옵션으로 Fetcher 체인을 구성합니다.
//
// 체인 순서 (바깥쪽 → 안쪽): Logging → RateLimit → MaxBytes → HTTP
//
// LoggingFetcher가 가장 바깥에 있으므로 기록되는 소요 시간에는 RateLimit 대기 시간이 포함됩니다.
func New(cfg Config, opts ...Option) (Fetcher, error) {
	var mergedOpts []Option

	if cfg.Timeout > 0 {
		mergedOpts = append(mergedOpts, WithTimeout(cfg.Timeout))
	}
	if cfg.TLSHandshakeTimeout > 0 {
		mergedOpts = append(mergedOpts, WithTLSHandshakeTimeout(cfg.TLSHandshakeTimeout))
	}
	if cfg.IdleConnTimeout > 0 {
		mergedOpts = append(mergedOpts, WithIdleConnTimeout(cfg.IdleConnTimeout))
	}
	if cfg.ProxyURL != "" {
		mergedOpts = append(mergedOpts, WithProxy(cfg.ProxyURL))
	}
	if cfg.MaxIdleConns > 0 {
		mergedOpts = append(mergedOpts, WithMaxIdleConns(cfg.MaxIdleConns))
	}
	if cfg.MaxConnsPerHost > 0 {
		mergedOpts = append(mergedOpts, WithMaxConnsPerHost(cfg.MaxConnsPerHost))
	}
	if cfg.UserAgent != "" {
		mergedOpts = append(mergedOpts, WithUserAgent(cfg.UserAgent))
	}

	// 추가 옵션이 Config 기반 옵션을 덮어쓸 수 있도록 마지막에 추가합니다.
	mergedOpts = append(mergedOpts, opts...)

	httpFetcher, err := NewHTTPFetcher(mergedOpts...)
	if err != nil {
		return nil, err
	}

	var f Fetcher = httpFetcher
	f = NewMaxBytesFetcher(f, cfg.MaxBytes)
	f = NewRateLimitFetcher(f, cfg.RateLimit, cfg.RateBurst)
	if !cfg.DisableLogging {
		f = NewLoggingFetcher(f)
	}

	return f, nil
}
