package auth

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	applog "github.com/darkkaiser/hms-push/pkg/log"
	"github.com/darkkaiser/hms-push/pkg/transport"
	"golang.org/x/sync/singleflight"
)

// component 토큰 캐시의 로깅용 컴포넌트 이름
const component = "auth.token"

// DefaultLoginURL 액세스 토큰 발급 URL
const DefaultLoginURL = "https://oauth-login.cloud.huawei.com/oauth2/v3/token"

const (
	// fetchTimeout 공유 토큰 발급 요청의 최대 소요 시간. 호출자의 context와 분리되어 있으므로 별도의 상한을 둡니다.
	fetchTimeout = 30 * time.Second

	// cacheTimeout 2차 캐시(Redis) 접근의 최대 소요 시간
	cacheTimeout = 2 * time.Second

	cacheKeyPrefix = "hmspush:token:"
)

// Credentials OAuth 2.0 client credentials
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// TokenSource 액세스 토큰을 발급받아 캐시합니다.
//
// 상태는 {토큰 없음, 캐시됨, 발급 중} 중 하나입니다. 캐시된 토큰이 유효하면 I/O 없이 즉시 반환하고,
// 그렇지 않으면 첫 번째 호출자가 발급을 시작하며 나머지 호출자는 같은 결과를 기다립니다.
// 발급 요청은 호출자의 context와 분리되어 실행되므로 한 호출자의 취소가 다른 호출자에게 영향을 주지 않습니다.
type TokenSource struct {
	fetcher  transport.Fetcher
	loginURL string
	creds    Credentials
	cache    CacheClient

	now func() time.Time

	mu    sync.RWMutex
	token *Token

	flight singleflight.Group
}

// Option TokenSource 생성 시 적용할 옵션
type Option func(*TokenSource)

// WithLoginURL 액세스 토큰 발급 URL을 지정합니다. 기본값은 DefaultLoginURL입니다.
func WithLoginURL(loginURL string) Option {
	return func(s *TokenSource) {
		if loginURL != "" {
			s.loginURL = loginURL
		}
	}
}

// WithCache 여러 프로세스가 토큰을 공유하기 위한 2차 캐시를 지정합니다.
func WithCache(cache CacheClient) Option {
	return func(s *TokenSource) {
		s.cache = cache
	}
}

// WithClock 테스트에서 현재 시각을 고정하기 위해 사용합니다.
func WithClock(now func() time.Time) Option {
	return func(s *TokenSource) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenSource 새로운 TokenSource를 생성합니다.
func NewTokenSource(fetcher transport.Fetcher, creds Credentials, opts ...Option) (*TokenSource, error) {
	if fetcher == nil {
		return nil, apperrors.New(apperrors.InvalidArgument, "Fetcher는 nil일 수 없습니다")
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, apperrors.New(apperrors.InvalidArgument, "client_id와 client_secret은 필수입니다")
	}

	s := &TokenSource{
		fetcher:  fetcher,
		loginURL: DefaultLoginURL,
		creds:    creds,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Token 유효한 액세스 토큰을 반환합니다.
//
// ctx가 취소되면 대기를 멈추고 apperrors.Canceled(데드라인 초과 시 apperrors.Timeout)를 반환하지만,
// 진행 중인 발급 요청은 취소되지 않고 끝까지 수행되어 다른 호출자에게 전달됩니다.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if token := s.cached(); token != nil {
		return token.AccessToken, nil
	}
	if err := ctx.Err(); err != nil {
		return "", contextError(err)
	}

	ch := s.flight.DoChan(s.creds.ClientID, func() (any, error) {
		return s.refresh()
	})

	select {
	case <-ctx.Done():
		return "", contextError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(*Token).AccessToken, nil
	}
}

// Invalidate 캐시된 토큰을 폐기하여 다음 Token 호출에서 새로 발급받도록 합니다.
func (s *TokenSource) Invalidate() {
	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
		defer cancel()
		if err := s.cache.Del(ctx, s.cacheKey()); err != nil {
			applog.WithComponent(component).WithError(err).Warn("공유 캐시의 토큰을 삭제하지 못했습니다")
		}
	}

	applog.WithComponent(component).Debug("액세스 토큰 캐시 무효화")
}

func (s *TokenSource) cached() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token.Valid(s.now()) {
		return s.token
	}
	return nil
}

func (s *TokenSource) store(token *Token) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// refresh 공유 캐시를 먼저 확인하고, 없으면 인증 서버에서 새 토큰을 발급받습니다.
// singleflight에 의해 동시에 하나만 실행됩니다.
func (s *TokenSource) refresh() (*Token, error) {
	// 직전에 끝난 발급 결과가 이미 반영되었을 수 있습니다.
	if token := s.cached(); token != nil {
		return token, nil
	}

	if token := s.loadShared(); token != nil {
		s.store(token)
		return token, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	token, err := s.fetch(ctx)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"client_id": s.creds.ClientID,
			"error":     err,
		}).Error("액세스 토큰 발급 실패")
		return nil, err
	}

	s.store(token)
	s.saveShared(token)

	applog.WithComponentAndFields(component, applog.Fields{
		"client_id":    s.creds.ClientID,
		"access_token": applog.MaskSensitiveData(token.AccessToken),
		"expires_at":   token.ExpiresAt,
	}).Debug("액세스 토큰 발급 완료")

	return token, nil
}

func (s *TokenSource) fetch(ctx context.Context) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_secret", s.creds.ClientSecret)
	form.Set("client_id", s.creds.ClientID)

	resp, err := transport.PostForm(ctx, s.fetcher, s.loginURL, form)
	if err != nil {
		return nil, err
	}

	accessToken, expiresIn, err := parseTokenResponse(resp)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &Token{
		AccessToken: accessToken,
		ExpiresAt:   now.Add(time.Duration(expiresIn) * time.Second),
		CreatedAt:   now,
	}, nil
}

// loadShared 2차 캐시에서 유효한 토큰을 읽습니다. 캐시 장애는 무시하고 인증 서버로 진행합니다.
func (s *TokenSource) loadShared() *Token {
	if s.cache == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	token, err := s.cache.Get(ctx, s.cacheKey())
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			applog.WithComponent(component).WithError(err).Warn("공유 캐시에서 토큰을 읽지 못했습니다")
		}
		return nil
	}
	if !token.Valid(s.now()) {
		return nil
	}

	return token
}

func (s *TokenSource) saveShared(token *Token) {
	if s.cache == nil {
		return
	}

	ttl := token.ttl(s.now())
	if ttl <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := s.cache.Set(ctx, s.cacheKey(), token, ttl); err != nil {
		applog.WithComponent(component).WithError(err).Warn("공유 캐시에 토큰을 저장하지 못했습니다")
	}
}

func (s *TokenSource) cacheKey() string {
	return cacheKeyPrefix + s.creds.ClientID
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.Timeout, "액세스 토큰 대기 중 데드라인이 초과되었습니다")
	}
	return apperrors.Wrap(err, apperrors.Canceled, "액세스 토큰 대기가 취소되었습니다")
}
