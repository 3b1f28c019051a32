package messaging

import (
	"fmt"
	"net/url"
	"regexp"
)

// colorRegexp 안드로이드 알림 색상 형식(#RRGGBB)
var colorRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// isURL 스킴이 http 또는 https이고 호스트를 가진 절대 URL인지 검사합니다.
func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs() && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isHTTPSURL 스킴이 https인 절대 URL인지 검사합니다.
func isHTTPSURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Scheme == "https" && u.Host != ""
}

func isColor(s string) bool {
	return colorRegexp.MatchString(s)
}

type number interface {
	~int | ~int32 | ~int64 | ~float64
}

// inRange v가 [lo, hi] 구간에 포함되는지 검사합니다.
// lo > hi는 호출 측의 프로그래밍 오류이므로 panic 합니다.
func inRange[T number](v, lo, hi T) bool {
	if lo > hi {
		panic(fmt.Sprintf("messaging: 잘못된 범위입니다 (min=%v, max=%v)", lo, hi))
	}
	return v >= lo && v <= hi
}

// allInRange 모든 값이 [lo, hi] 구간에 포함되는지 검사합니다.
func allInRange[T number](values []T, lo, hi T) bool {
	for _, v := range values {
		if !inRange(v, lo, hi) {
			return false
		}
	}
	return true
}
