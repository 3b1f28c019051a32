package auth_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/darkkaiser/hms-push/pkg/auth"
	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/darkkaiser/hms-push/pkg/transport/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCache auth.CacheClient의 testify 기반 Mock 구현체
type MockCache struct {
	mock.Mock
}

var _ auth.CacheClient = (*MockCache)(nil)

func (m *MockCache) Get(ctx context.Context, key string) (*auth.Token, error) {
	args := m.Called(ctx, key)

	var token *auth.Token
	if t := args.Get(0); t != nil {
		token = t.(*auth.Token)
	}
	return token, args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, token *auth.Token, ttl time.Duration) error {
	return m.Called(ctx, key, token, ttl).Error(0)
}

func (m *MockCache) Del(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

const testCacheKey = "hmspush:token:12345678"

func TestTokenSource_SharedCacheHit(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()

	cache := &MockCache{}
	cache.On("Get", mock.Anything, testCacheKey).Return(&auth.Token{AccessToken: "from-redis", ExpiresAt: clock.Now().Add(time.Hour)}, nil).Once()

	m := mocks.NewMockFetcher()
	s := newTokenSource(t, m, clock, auth.WithCache(cache))

	for range 2 {
		token, err := s.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "from-redis", token)
	}

	m.AssertNotCalled(t, "Do", mock.Anything)
	cache.AssertExpectations(t)
}

func TestTokenSource_SharedCacheMissStoresToken(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()

	cache := &MockCache{}
	cache.On("Get", mock.Anything, testCacheKey).Return(nil, auth.ErrCacheMiss).Once()
	cache.On("Set", mock.Anything, testCacheKey, mock.MatchedBy(func(tok *auth.Token) bool {
		return tok.AccessToken == "fresh"
	}), time.Hour-auth.RefreshSkew).Return(nil).Once()

	m := mocks.NewMockFetcher()
	m.On("Do", mock.Anything).Return(mocks.NewResponse(http.StatusOK, `{"access_token":"fresh","expires_in":3600}`), nil).Once()

	s := newTokenSource(t, m, clock, auth.WithCache(cache))

	token, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)

	cache.AssertExpectations(t)
}

func TestTokenSource_SharedCacheExpiredEntryIgnored(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()

	cache := &MockCache{}
	cache.On("Get", mock.Anything, testCacheKey).Return(&auth.Token{AccessToken: "stale", ExpiresAt: clock.Now().Add(time.Minute)}, nil).Once()
	cache.On("Set", mock.Anything, testCacheKey, mock.Anything, mock.Anything).Return(nil).Once()

	m := mocks.NewMockFetcher()
	m.On("Do", mock.Anything).Return(mocks.NewResponse(http.StatusOK, `{"access_token":"fresh","expires_in":3600}`), nil).Once()

	s := newTokenSource(t, m, clock, auth.WithCache(cache))

	token, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

func TestTokenSource_SharedCacheFailureFallsBack(t *testing.T) {
	t.Parallel()

	cache := &MockCache{}
	cache.On("Get", mock.Anything, testCacheKey).Return(nil, errors.New("redis: connection refused")).Once()
	cache.On("Set", mock.Anything, testCacheKey, mock.Anything, mock.Anything).Return(errors.New("redis: connection refused")).Once()

	m := mocks.NewMockFetcher()
	m.On("Do", mock.Anything).Return(mocks.NewResponse(http.StatusOK, `{"access_token":"fresh","expires_in":3600}`), nil).Once()

	s := newTokenSource(t, m, newFakeClock(), auth.WithCache(cache))

	token, err := s.Token(context.Background())
	require.NoError(t, err, "공유 캐시 장애는 토큰 발급을 막지 않아야 합니다")
	assert.Equal(t, "fresh", token)
}

func TestTokenSource_InvalidateDeletesSharedEntry(t *testing.T) {
	t.Parallel()

	cache := &MockCache{}
	cache.On("Del", mock.Anything, testCacheKey).Return(nil).Once()

	s := newTokenSource(t, mocks.NewMockFetcher(), newFakeClock(), auth.WithCache(cache))
	s.Invalidate()

	cache.AssertExpectations(t)
}

// TestRedisClient 실제 Redis 서버가 필요합니다. HMSPUSH_TEST_REDIS_ADDR가 설정되지 않으면 건너뜁니다.
func TestRedisClient(t *testing.T) {
	addr := os.Getenv("HMSPUSH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("HMSPUSH_TEST_REDIS_ADDR가 설정되지 않아 Redis 테스트를 건너뜁니다.")
	}

	ctx := context.Background()

	c, err := auth.NewRedisClient(ctx, addr, os.Getenv("HMSPUSH_TEST_REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer c.Close()

	key := "hmspush:test:" + t.Name()
	defer func() { _ = c.Del(ctx, key) }()

	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, auth.ErrCacheMiss)

	want := &auth.Token{
		AccessToken: "redis-token",
		ExpiresAt:   time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, c.Set(ctx, key, want, time.Minute))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, c.Del(ctx, key))
	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, auth.ErrCacheMiss)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("네트워크 연결 시도가 필요하므로 -short 모드에서는 건너뜁니다.")
	}

	// 예약된 TEST-NET-1 주소이므로 연결되지 않습니다.
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := auth.NewRedisClient(ctx, "192.0.2.1:6379", "", 0)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.System))
}
