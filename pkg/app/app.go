// Package app 푸시 서비스 접속 정보와 서비스 클라이언트를 하나로 묶는 App 핸들을 제공합니다.
//
// App은 설정 검증, Fetcher 체인 구성, 액세스 토큰 캐시 생성을 담당하며,
// 메시징 클라이언트는 처음 요청될 때 생성되어 App이 닫힐 때까지 재사용됩니다.
// 여러 App을 동시에 만들 수 있고, 전역 레지스트리는 두지 않습니다.
//
//	a, err := app.New(app.Options{ClientID: "...", ClientSecret: "..."})
//	client, err := a.Messaging()
//	requestID, err := client.Send(ctx, msg, false)
package app

import (
	"net/http"
	"sync"

	"github.com/darkkaiser/hms-push/pkg/auth"
	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	applog "github.com/darkkaiser/hms-push/pkg/log"
	"github.com/darkkaiser/hms-push/pkg/messaging"
	"github.com/darkkaiser/hms-push/pkg/transport"
)

// component App의 로깅용 컴포넌트 이름
const component = "app"

// App 하나의 푸시 서비스 앱(client id)에 대한 핸들입니다. 여러 고루틴에서 동시에 사용해도 안전합니다.
type App struct {
	opts    Options
	fetcher transport.Fetcher
	tokens  *auth.TokenSource

	// ownsFetcher App이 Fetcher 체인을 직접 만들었으면 Close에서 유휴 연결을 정리합니다.
	ownsFetcher bool

	mu        sync.Mutex
	messaging *messaging.Client
	closed    bool
}

type settings struct {
	fetcher      transport.Fetcher
	roundTripper http.RoundTripper
	cache        auth.CacheClient
}

// Option App 생성 시 적용할 옵션
type Option func(*settings)

// WithFetcher Options.HTTP로 Fetcher 체인을 만드는 대신 주어진 Fetcher를 사용합니다.
func WithFetcher(f transport.Fetcher) Option {
	return func(s *settings) {
		s.fetcher = f
	}
}

// WithHTTPTransport App이 만드는 Fetcher 체인의 가장 안쪽에서 사용할 RoundTripper를 지정합니다.
// 사용자 정의 TLS 설정 등에 사용하며, WithFetcher와 함께 지정하면 무시됩니다.
func WithHTTPTransport(rt http.RoundTripper) Option {
	return func(s *settings) {
		s.roundTripper = rt
	}
}

// WithTokenStore 여러 프로세스가 액세스 토큰을 공유하기 위한 2차 캐시를 지정합니다.
// 캐시의 수명은 호출자가 관리하며 App.Close는 캐시를 닫지 않습니다.
func WithTokenStore(cache auth.CacheClient) Option {
	return func(s *settings) {
		s.cache = cache
	}
}

// New 설정을 검증하고 새로운 App을 생성합니다.
func New(opts Options, options ...Option) (*App, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var s settings
	for _, o := range options {
		o(&s)
	}

	fetcher := s.fetcher
	ownsFetcher := fetcher == nil
	if ownsFetcher {
		var transportOpts []transport.Option
		if s.roundTripper != nil {
			transportOpts = append(transportOpts, transport.WithTransport(s.roundTripper))
		}

		f, err := transport.New(opts.HTTP, transportOpts...)
		if err != nil {
			return nil, err
		}
		fetcher = f
	}

	tokenOpts := []auth.Option{auth.WithLoginURL(opts.LoginURI)}
	if s.cache != nil {
		tokenOpts = append(tokenOpts, auth.WithCache(s.cache))
	}

	tokens, err := auth.NewTokenSource(fetcher, auth.Credentials{ClientID: opts.ClientID, ClientSecret: opts.ClientSecret}, tokenOpts...)
	if err != nil {
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"client_id":     opts.ClientID,
		"client_secret": applog.MaskSensitiveData(opts.ClientSecret),
		"api_version":   int(opts.APIVersion),
		"send_url":      opts.SendURL(),
		"shared_cache":  s.cache != nil,
	}).Debug("App 생성 완료")

	return &App{
		opts:        opts,
		fetcher:     fetcher,
		tokens:      tokens,
		ownsFetcher: ownsFetcher,
	}, nil
}

// Options 기본값이 적용된 설정의 복사본을 반환합니다.
func (a *App) Options() Options {
	return a.opts
}

// Messaging 메시징 클라이언트를 반환합니다. 처음 호출될 때 생성되며 이후에는 같은 인스턴스를 반환합니다.
// Close 이후에 호출하면 apperrors.Internal 에러를 반환합니다.
func (a *App) Messaging() (*messaging.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, apperrors.New(apperrors.Internal, "이미 닫힌 App입니다")
	}

	if a.messaging == nil {
		c, err := messaging.NewClient(a.fetcher, a.tokens, messaging.Endpoints{
			Send:  a.opts.SendURL(),
			Topic: a.opts.TopicURL(),
		}, messaging.WithBatchConcurrency(a.opts.BatchConcurrency))
		if err != nil {
			return nil, err
		}
		a.messaging = c
	}

	return a.messaging, nil
}

// Close App을 닫습니다. 이미 생성된 클라이언트를 통한 호출은 계속 동작하지만,
// 이후의 Messaging 호출은 실패합니다. 여러 번 호출해도 안전합니다.
//
// App이 만든 Fetcher 체인의 유휴 연결은 여기서 정리됩니다. WithFetcher로 받은 Fetcher는 호출자가 관리합니다.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	a.messaging = nil

	if a.ownsFetcher {
		transport.CloseIdleConnections(a.fetcher)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"client_id": a.opts.ClientID,
	}).Debug("App 닫힘")

	return nil
}
