// Package auth OAuth 2.0 client credentials 방식으로 푸시 서비스의 액세스 토큰을 발급받고 캐시합니다.
//
// TokenSource는 만료 5분 전까지 토큰을 재사용하며, 여러 고루틴이 동시에 갱신을 요청해도
// 인증 서버로는 단 한 번의 요청만 보냅니다. 여러 프로세스가 토큰을 공유해야 한다면
// Redis 기반의 CacheClient를 2차 캐시로 연결할 수 있습니다.
package auth

import (
	"time"
)

// RefreshSkew 만료까지 남은 시간이 이 값보다 작으면 토큰을 새로 발급받습니다.
const RefreshSkew = 5 * time.Minute

// Token 인증 서버가 발급한 액세스 토큰입니다.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Valid now 기준으로 토큰을 계속 사용할 수 있는지 여부를 반환합니다.
// 만료까지 RefreshSkew 이상 남아 있어야 유효합니다.
func (t *Token) Valid(now time.Time) bool {
	return t != nil && t.AccessToken != "" && t.ExpiresAt.Sub(now) >= RefreshSkew
}

// ttl 공유 캐시에 보관할 기간. 다른 프로세스가 갱신 시점이 지난 토큰을 읽지 않도록 RefreshSkew만큼 일찍 만료시킵니다.
func (t *Token) ttl(now time.Time) time.Duration {
	return t.ExpiresAt.Sub(now) - RefreshSkew
}
