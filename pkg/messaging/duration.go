package messaging

import (
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
)

const nanosDigits = 9

// EncodeDuration 기간을 푸시 서비스의 문자열 형식("[-]<초>[.<9자리 나노초>]s")으로 변환합니다.
//
// 음수는 부호와 절댓값으로 기록합니다. 소수부가 0이면 "<초>s"만 기록합니다.
//
//	EncodeDuration(time.Hour)                   // "3600s"
//	EncodeDuration(10 * time.Millisecond)       // "0.010000000s"
//	EncodeDuration(-500 * time.Millisecond)     // "-0.500000000s"
func EncodeDuration(d time.Duration) string {
	sign := ""
	seconds := int64(d / time.Second)
	nanos := int64(d % time.Second)
	if d < 0 {
		sign = "-"
		seconds, nanos = -seconds, -nanos
	}

	if nanos == 0 {
		return sign + strconv.FormatInt(seconds, 10) + "s"
	}

	frac := strconv.FormatInt(nanos, 10)
	return sign + strconv.FormatInt(seconds, 10) + "." + strings.Repeat("0", nanosDigits-len(frac)) + frac + "s"
}

// DecodeDuration EncodeDuration 형식의 문자열을 기간으로 변환합니다.
//
// 정수부는 부호를 가질 수 있고 부호는 소수부에도 적용됩니다.
// 소수부는 최대 9자리의 나노초 값으로 해석하므로 "5.5s"는 5초 5나노초입니다.
func DecodeDuration(s string) (time.Duration, error) {
	value, ok := strings.CutSuffix(s, "s")
	if !ok || value == "" {
		return 0, apperrors.Newf(apperrors.ParsingFailed, "기간 형식이 올바르지 않습니다: %q", s)
	}

	intPart, fracPart, hasFrac := strings.Cut(value, ".")
	negative := strings.HasPrefix(intPart, "-")

	seconds, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, apperrors.Wrapf(err, apperrors.ParsingFailed, "기간의 초 단위를 해석하지 못했습니다: %q", s)
	}

	var nanos uint64
	if hasFrac {
		if fracPart == "" || len(fracPart) > nanosDigits {
			return 0, apperrors.Newf(apperrors.ParsingFailed, "기간의 소수부 형식이 올바르지 않습니다: %q", s)
		}
		if nanos, err = strconv.ParseUint(fracPart, 10, 64); err != nil {
			return 0, apperrors.Wrapf(err, apperrors.ParsingFailed, "기간의 소수부를 해석하지 못했습니다: %q", s)
		}
	}

	// 음수 쪽은 math.MinInt64까지 표현할 수 있습니다.
	limit := uint64(math.MaxInt64)
	if negative {
		limit++
	}

	absSeconds := uint64(seconds)
	if seconds < 0 {
		absSeconds = uint64(-seconds)
	}
	if absSeconds > limit/uint64(time.Second) {
		return 0, apperrors.Newf(apperrors.ParsingFailed, "기간이 표현 가능한 범위를 벗어났습니다: %q", s)
	}
	total := absSeconds * uint64(time.Second)
	if nanos > limit-total {
		return 0, apperrors.Newf(apperrors.ParsingFailed, "기간이 표현 가능한 범위를 벗어났습니다: %q", s)
	}
	total += nanos

	if negative {
		return -time.Duration(total), nil
	}
	return time.Duration(total), nil
}

// encodeDurations 기간 목록을 문자열 목록으로 변환합니다.
func encodeDurations(ds []time.Duration) []string {
	if ds == nil {
		return nil
	}
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = EncodeDuration(d)
	}
	return out
}

func decodeDurations(ss []string) ([]time.Duration, error) {
	if ss == nil {
		return nil, nil
	}
	out := make([]time.Duration, len(ss))
	for i, s := range ss {
		d, err := DecodeDuration(s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// encodeDurationPtr nil이면 nil을 반환합니다.
func encodeDurationPtr(d *time.Duration) *string {
	if d == nil {
		return nil
	}
	s := EncodeDuration(*d)
	return &s
}

func decodeDurationPtr(s *string) (*time.Duration, error) {
	if s == nil {
		return nil, nil
	}
	d, err := DecodeDuration(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
