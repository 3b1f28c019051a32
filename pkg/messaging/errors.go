package messaging

import (
	"fmt"
	"strings"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/iancoleman/strcase"
)

// fieldPath 메시지 트리 안에서 필드의 위치를 와이어 키(snake_case) 경로로 표현합니다.
// 예: fieldPath("").child("Android").child("Notification").child("TitleLocArgs") -> "android.notification.title_loc_args"
type fieldPath string

func (p fieldPath) child(goName string) fieldPath {
	name := strcase.ToSnake(goName)
	if p == "" {
		return fieldPath(name)
	}
	return fieldPath(string(p) + "." + name)
}

func (p fieldPath) index(i int) fieldPath {
	return fieldPath(fmt.Sprintf("%s[%d]", p, i))
}

func (p fieldPath) String() string {
	if p == "" {
		return "message"
	}
	return string(p)
}

// invalidArgument 유효성 검사 실패를 나타내는 에러를 생성합니다. 메시지에는 문제가 된 필드의 경로가 포함됩니다.
func invalidArgument(path fieldPath, format string, args ...any) error {
	return apperrors.Newf(apperrors.InvalidArgument, "%s: %s", path, fmt.Sprintf(format, args...))
}

// SuccessCode 푸시 서비스가 요청을 정상적으로 처리했을 때 반환하는 결과 코드
const SuccessCode = "80000000"

// ServiceError 푸시 서비스가 성공 이외의 결과 코드를 반환했음을 나타냅니다.
//
// Send, SubscribeToTopic 등이 반환하는 에러 체인에 포함되며, errors.As로 꺼내어
// 결과 코드를 확인할 수 있습니다.
type ServiceError struct {
	// HTTPStatus 응답의 HTTP 상태 코드
	HTTPStatus int

	Code      string
	Message   string
	RequestID string
}

func (e *ServiceError) Error() string {
	var sb strings.Builder
	sb.WriteString("push service error: code=")
	sb.WriteString(e.Code)
	if e.Message != "" {
		sb.WriteString(", msg=")
		sb.WriteString(e.Message)
	}
	if e.RequestID != "" {
		sb.WriteString(", requestId=")
		sb.WriteString(e.RequestID)
	}
	return sb.String()
}

// IsAccessTokenExpired 액세스 토큰 만료로 인해 요청이 거부되었는지 여부를 반환합니다.
func (e *ServiceError) IsAccessTokenExpired() bool {
	return e.Code == codeAccessTokenExpired
}

// codeAccessTokenExpired 만료된 액세스 토큰으로 요청했을 때 반환되는 결과 코드
const codeAccessTokenExpired = "80200003"
