// Package log SDK와 CLI가 공유하는 logrus 기반 로깅 유틸리티를 제공합니다.
//
// 모든 SDK 컴포넌트는 WithComponent / WithComponentAndFields로 "component" 필드를
// 붙여서 로그를 남깁니다. 액세스 토큰이나 클라이언트 시크릿처럼 민감한 값은
// 반드시 MaskSensitiveData를 거친 뒤 필드에 담아야 합니다.
package log

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

// MaskSensitiveData 민감한 정보를 마스킹합니다.
// 토큰, 키 등의 민감 정보를 안전하게 로깅하기 위해 사용합니다.
func MaskSensitiveData(data string) string {
	if data == "" {
		return ""
	}

	// 3자 이하는 전체 마스킹
	if len(data) <= 3 {
		return "***"
	}

	// 앞 4자만 표시하고 나머지는 마스킹
	if len(data) <= 12 {
		return data[:4] + "***"
	}

	// 긴 토큰은 앞 4자 + 마스킹 + 뒤 4자
	return data[:4] + "***" + data[len(data)-4:]
}

// MaskTokens 디바이스 토큰 목록을 로그에 남길 수 있는 형태로 변환합니다.
// 대량 구독 요청에서 로그가 비대해지지 않도록 앞쪽 몇 개만 마스킹하여 남기고 나머지는 개수만 표시합니다.
func MaskTokens(tokens []string, limit int) []string {
	if len(tokens) == 0 {
		return nil
	}
	if limit <= 0 || limit > len(tokens) {
		limit = len(tokens)
	}

	masked := make([]string, 0, limit+1)
	for _, token := range tokens[:limit] {
		masked = append(masked, MaskSensitiveData(token))
	}
	if rest := len(tokens) - limit; rest > 0 {
		masked = append(masked, "...(+"+strconv.Itoa(rest)+")")
	}
	return masked
}

// WithComponent component 필드를 포함한 로그 Entry를 반환합니다.
func WithComponent(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

// WithComponentAndFields component 필드와 추가 필드를 포함한 로그 Entry를 반환합니다.
func WithComponentAndFields(component string, fields Fields) *logrus.Entry {
	newFields := make(Fields, len(fields)+1)
	for k, v := range fields {
		newFields[k] = v
	}
	newFields["component"] = component
	return logrus.WithFields(newFields)
}

// SetDebugMode Debug 모드 여부에 따라 전역 로그 레벨을 조정합니다.
func SetDebugMode(debug bool) {
	if debug {
		logrus.SetLevel(TraceLevel)
	} else {
		logrus.SetLevel(InfoLevel)
	}
}
