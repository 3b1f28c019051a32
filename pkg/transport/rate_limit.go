package transport

import (
	"net/http"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimitFetcher 푸시 서비스의 초당 요청 제한을 넘지 않도록 요청 전송 속도를 조절하는 미들웨어입니다.
//
// 토큰이 없으면 요청의 context가 끝날 때까지 대기하며, 대기 중 취소되면
// 요청을 보내지 않고 Canceled 또는 Timeout 에러를 반환합니다.
type RateLimitFetcher struct {
	delegate Fetcher
	limiter  *rate.Limiter
}

// NewRateLimitFetcher 초당 limit개, 최대 burst개의 요청을 허용하는 RateLimitFetcher를 생성합니다.
// limit이 0 이하이면 delegate를 그대로 반환합니다.
func NewRateLimitFetcher(delegate Fetcher, limit float64, burst int) Fetcher {
	if limit <= 0 {
		return delegate
	}
	if burst <= 0 {
		burst = 1
	}

	return &RateLimitFetcher{
		delegate: delegate,
		limiter:  rate.NewLimiter(rate.Limit(limit), burst),
	}
}

// Do 전송 허가를 얻은 뒤 요청을 위임합니다.
func (f *RateLimitFetcher) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := f.limiter.Wait(ctx); err != nil {
		// 대기 시간이 데드라인을 넘을 것으로 예상되면 context가 끝나기 전에 바로 실패합니다.
		if ctx.Err() == nil {
			return nil, apperrors.Wrap(err, apperrors.Timeout, "데드라인 안에 요청 전송 허가를 얻을 수 없습니다")
		}
		return nil, classifyError(ctx, err, "요청 전송 허가를 기다리는 중 중단되었습니다")
	}
	return f.delegate.Do(req)
}
