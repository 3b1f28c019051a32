package messaging

import (
	"maps"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/mitchellh/copystructure"
)

// cloneObject 임의의 JSON 객체(map[string]any)를 깊은 복사합니다.
// 중첩된 맵과 슬라이스까지 모두 새로 할당되므로 사본과 원본은 어떤 컨테이너도 공유하지 않습니다.
func cloneObject(path fieldPath, m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}

	copied, err := copystructure.Copy(m)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.InvalidArgument, "%s: 값을 복사할 수 없습니다", path)
	}
	return copied.(map[string]any), nil
}

// cloneHeaders 헤더 맵의 사본을 반환합니다. 값이 문자열이므로 얕은 복사로 충분합니다.
func cloneHeaders(h map[string]string) map[string]string {
	return maps.Clone(h)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
