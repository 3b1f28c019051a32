// Package validator go-playground/validator 인스턴스를 프로세스 전역에서 하나만 생성하여 공유합니다.
//
// 검증 에러의 필드 이름은 Go 필드명 대신 json 태그 이름(예: client_secret)으로 보고됩니다.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Get 공유 Validator 인스턴스를 반환합니다.
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		instance = v
	})

	return instance
}

// Struct 구조체를 검증합니다. 반환되는 에러는 validator.ValidationErrors 그대로입니다.
func Struct(s any) error {
	return Get().Struct(s)
}

// Check 구조체를 검증하고, 실패하면 첫 번째 위반 사항을 설명하는 apperrors.InvalidArgument 에러를 반환합니다.
func Check(s any, contextName string) error {
	err := Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperrors.Newf(apperrors.InvalidArgument, "%s 설정이 올바르지 않습니다: %s", contextName, FormatValidationError(err))
	}
	return apperrors.Wrapf(err, apperrors.InvalidArgument, "%s 유효성 검증에 실패했습니다", contextName)
}

// FormatValidationError 검증 에러의 첫 번째 항목을 사람이 읽을 수 있는 메시지로 변환합니다.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return field + ": 필수 항목입니다"
	case "required_if", "required_with":
		return fmt.Sprintf("%s: %s 조건에서 필수 항목입니다", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s: %s 이상이어야 합니다", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s: %s 이하이어야 합니다", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: 허용된 값 중 하나여야 합니다 [%s]", field, fe.Param())
	case "url":
		return field + ": 올바른 URL 형식이어야 합니다"
	case "https_url":
		return field + ": https URL이어야 합니다"
	case "hostname_port":
		return field + ": host:port 형식이어야 합니다"
	default:
		return fmt.Sprintf("%s: 값 검증 실패 (%s)", field, fe.Tag())
	}
}
