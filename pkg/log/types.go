package log

import (
	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Level logrus.Level의 별칭입니다.
type Level = logrus.Level

const (
	ErrorLevel Level = logrus.ErrorLevel
	WarnLevel  Level = logrus.WarnLevel
	InfoLevel  Level = logrus.InfoLevel
	DebugLevel Level = logrus.DebugLevel

	// TraceLevel 개발 프로필의 기본 레벨입니다. 요청/응답 본문 단위의 추적 로그까지 남깁니다.
	TraceLevel Level = logrus.TraceLevel
)

// AllLevels logrus.AllLevels의 별칭입니다.
var AllLevels = logrus.AllLevels

// Fields 로그 필드 맵입니다.
type Fields = logrus.Fields

// Entry logrus.Entry의 별칭입니다.
type Entry = logrus.Entry

// Formatter hook이 파일별로 사용하는 포맷터입니다.
type Formatter = logrus.Formatter

// ParseLevel 설정 파일의 레벨 문자열("debug", "info" 등)을 Level로 변환합니다.
// 빈 문자열은 InfoLevel로 간주합니다.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return InfoLevel, nil
	}

	level, err := logrus.ParseLevel(s)
	if err != nil {
		return InfoLevel, apperrors.Wrapf(err, apperrors.InvalidArgument, "지원하지 않는 로그 레벨입니다: %q", s)
	}
	return level, nil
}
