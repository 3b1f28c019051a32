package messaging

import (
	"encoding/json"
	"time"
)

// Urgency 안드로이드 메시지의 전송 우선순위
type Urgency string

const (
	UrgencyHigh   Urgency = "HIGH"
	UrgencyNormal Urgency = "NORMAL"
)

// FastAppTarget 퀵 앱(fast app) 메시지의 대상 환경
type FastAppTarget int

const (
	FastAppTargetDevelopment FastAppTarget = 1
	FastAppTargetProduction  FastAppTarget = 2
)

// AndroidConfig 안드로이드 기기에만 적용되는 메시지 설정입니다.
type AndroidConfig struct {
	// CollapseKey 같은 키를 가진 메시지는 오프라인 동안 마지막 메시지만 전달됩니다. (-1: 모두 전달)
	CollapseKey *int    `json:"collapse_key,omitempty"`
	Urgency     Urgency `json:"urgency,omitempty"`
	Category    string  `json:"category,omitempty"`

	// TTL 기기가 오프라인일 때 메시지를 보관하는 기간
	TTL *time.Duration `json:"-"`

	BiTag         string        `json:"bi_tag,omitempty"`
	FastAppTarget FastAppTarget `json:"fast_app_target,omitempty"`
	Data          string        `json:"data,omitempty"`

	Notification *AndroidNotification `json:"notification,omitempty"`
}

// androidConfigAlias MarshalJSON의 재귀 호출을 피하기 위한 별칭
type androidConfigAlias AndroidConfig

type androidConfigJSON struct {
	*androidConfigAlias
	TTL *string `json:"ttl,omitempty"`
}

// MarshalJSON TTL을 "<초>[.<나노초>]s" 형식의 문자열로 직렬화합니다.
func (c AndroidConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(androidConfigJSON{
		androidConfigAlias: (*androidConfigAlias)(&c),
		TTL:                encodeDurationPtr(c.TTL),
	})
}

// UnmarshalJSON 문자열 형식의 TTL을 time.Duration으로 해석합니다.
func (c *AndroidConfig) UnmarshalJSON(data []byte) error {
	aux := androidConfigJSON{androidConfigAlias: (*androidConfigAlias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	ttl, err := decodeDurationPtr(aux.TTL)
	if err != nil {
		return err
	}
	c.TTL = ttl

	return nil
}

func (c *AndroidConfig) copyAndValidate(path fieldPath) (*AndroidConfig, error) {
	if c == nil {
		return nil, nil
	}

	if c.TTL != nil && *c.TTL < 0 {
		return nil, invalidArgument(path.child("TTL"), "음수일 수 없습니다: %s", *c.TTL)
	}

	notification, err := c.Notification.copyAndValidate(path.child("Notification"))
	if err != nil {
		return nil, err
	}

	return &AndroidConfig{
		CollapseKey:   clonePtr(c.CollapseKey),
		Urgency:       c.Urgency,
		Category:      c.Category,
		TTL:           clonePtr(c.TTL),
		BiTag:         c.BiTag,
		FastAppTarget: c.FastAppTarget,
		Data:          c.Data,
		Notification:  notification,
	}, nil
}
