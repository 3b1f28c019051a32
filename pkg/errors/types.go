package errors

import "strconv"

// ErrorType 에러의 종류를 나타내는 타입입니다.
type ErrorType int

// 에러 타입 상수
const (
	// Unknown 알 수 없는 에러
	Unknown ErrorType = iota

	// Internal SDK 내부 상태 오류 (삭제된 App 사용 등)
	Internal

	// System 시스템 자원 오류 (설정 파일, 로그 디렉토리 등)
	System

	// InvalidArgument 입력값 검증 실패 (네트워크 호출 전에 발생)
	InvalidArgument

	// Unauthorized 인증 서버가 자격증명을 거부함
	Unauthorized

	// ServiceFailed 서비스가 실패 상태 코드 또는 실패 결과 코드를 반환함
	ServiceFailed

	// Transport 네트워크 계층 장애
	Transport

	// Canceled 호출자의 context가 취소됨
	Canceled

	// Timeout 데드라인 초과
	Timeout

	// ParsingFailed 응답 또는 입력 데이터 해석 실패
	ParsingFailed
)

var errorTypeNames = [...]string{
	Unknown:         "Unknown",
	Internal:        "Internal",
	System:          "System",
	InvalidArgument: "InvalidArgument",
	Unauthorized:    "Unauthorized",
	ServiceFailed:   "ServiceFailed",
	Transport:       "Transport",
	Canceled:        "Canceled",
	Timeout:         "Timeout",
	ParsingFailed:   "ParsingFailed",
}

// String ErrorType의 이름을 반환합니다.
func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "ErrorType(" + strconv.Itoa(int(t)) + ")"
	}
	return errorTypeNames[t]
}
