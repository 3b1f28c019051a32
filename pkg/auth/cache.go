package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 캐시에 키가 없을 때 CacheClient.Get이 반환하는 에러
var ErrCacheMiss = errors.New("auth: cache miss")

// CacheClient 여러 프로세스가 액세스 토큰을 공유하기 위한 2차 캐시입니다.
type CacheClient interface {
	// Get 키에 해당하는 토큰을 반환합니다. 키가 없으면 ErrCacheMiss를 반환합니다.
	Get(ctx context.Context, key string) (*Token, error)
	// Set 토큰을 ttl 동안 보관합니다.
	Set(ctx context.Context, key string, token *Token, ttl time.Duration) error
	// Del 키를 삭제합니다.
	Del(ctx context.Context, key string) error
}

// RedisClient go-redis로 구현한 CacheClient입니다. 토큰은 JSON으로 직렬화되어 저장됩니다.
type RedisClient struct {
	rdb redis.UniversalClient
}

var _ CacheClient = (*RedisClient)(nil)

// NewRedisClient 주어진 주소의 Redis 서버에 연결하고, 연결 상태를 확인한 뒤 RedisClient를 반환합니다.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, apperrors.Wrapf(err, apperrors.System, "Redis 서버에 연결하지 못했습니다 (addr: %s)", addr)
	}

	return &RedisClient{rdb: rdb}, nil
}

// NewRedisClientFrom 이미 구성된 go-redis 클라이언트(단일 노드, 클러스터, 센티널)를 감쌉니다.
func NewRedisClientFrom(rdb redis.UniversalClient) *RedisClient {
	return &RedisClient{rdb: rdb}
}

func (c *RedisClient) Get(ctx context.Context, key string) (*Token, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, apperrors.Wrap(err, apperrors.System, "Redis에서 토큰을 읽지 못했습니다")
	}

	var token Token
	if err := json.Unmarshal(val, &token); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "Redis에 저장된 토큰을 해석하지 못했습니다")
	}
	return &token, nil
}

func (c *RedisClient) Set(ctx context.Context, key string, token *Token, ttl time.Duration) error {
	b, err := json.Marshal(token)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "토큰을 직렬화하지 못했습니다")
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.System, "Redis에 토큰을 저장하지 못했습니다")
	}
	return nil
}

func (c *RedisClient) Del(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.System, "Redis에서 토큰을 삭제하지 못했습니다")
	}
	return nil
}

// Close Redis 연결을 닫습니다.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
