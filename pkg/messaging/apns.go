package messaging

import (
	"encoding/json"
	"slices"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
)

// ApnsTargetUserType APNs 메시지의 대상 사용자 유형
type ApnsTargetUserType int

const (
	ApnsTargetTest   ApnsTargetUserType = 1
	ApnsTargetNormal ApnsTargetUserType = 2
	ApnsTargetVoIP   ApnsTargetUserType = 3
)

// apsKey APNs 페이로드에서 aps 딕셔너리의 키
const apsKey = "aps"

// ApnsConfig iOS 기기에만 적용되는 메시지 설정입니다.
//
// 페이로드는 Aps와 CustomData를 병합하여 만들어집니다. aps 딕셔너리는 Aps 필드 또는
// CustomData["aps"] 중 정확히 한 곳에서만 지정해야 합니다.
type ApnsConfig struct {
	// HmsOptions nil이면 테스트 사용자(ApnsTargetTest)를 대상으로 합니다.
	HmsOptions *ApnsHmsOptions
	Headers    map[string]string
	Aps        *Aps
	CustomData map[string]any
}

// ApnsHmsOptions APNs 메시지에 대한 푸시 서비스 고유 옵션입니다.
type ApnsHmsOptions struct {
	TargetUserType ApnsTargetUserType `json:"target_user_type"`
}

type apnsConfigJSON struct {
	HmsOptions *ApnsHmsOptions   `json:"hms_options,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Payload    map[string]any    `json:"payload,omitempty"`
}

// MarshalJSON Aps와 CustomData를 하나의 payload 객체로 병합하여 직렬화합니다.
func (c ApnsConfig) MarshalJSON() ([]byte, error) {
	if c.Aps != nil && hasKey(c.CustomData, apsKey) {
		return nil, apperrors.New(apperrors.InvalidArgument, "apns.payload: aps가 Aps와 CustomData에 중복 지정되었습니다")
	}

	payload := make(map[string]any, len(c.CustomData)+1)
	for k, v := range c.CustomData {
		payload[k] = v
	}
	if c.Aps != nil {
		payload[apsKey] = c.Aps
	}
	if len(payload) == 0 {
		payload = nil
	}

	hmsOptions := c.HmsOptions
	if hmsOptions == nil {
		hmsOptions = &ApnsHmsOptions{TargetUserType: ApnsTargetTest}
	}

	return json.Marshal(apnsConfigJSON{
		HmsOptions: hmsOptions,
		Headers:    c.Headers,
		Payload:    payload,
	})
}

// UnmarshalJSON payload의 aps 키는 Aps로, 나머지 키는 CustomData로 분리합니다.
func (c *ApnsConfig) UnmarshalJSON(data []byte) error {
	var aux struct {
		HmsOptions *ApnsHmsOptions            `json:"hms_options"`
		Headers    map[string]string          `json:"headers"`
		Payload    map[string]json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*c = ApnsConfig{HmsOptions: aux.HmsOptions, Headers: aux.Headers}

	for k, raw := range aux.Payload {
		if k == apsKey {
			var aps Aps
			if err := json.Unmarshal(raw, &aps); err != nil {
				return err
			}
			c.Aps = &aps
			continue
		}

		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if c.CustomData == nil {
			c.CustomData = make(map[string]any)
		}
		c.CustomData[k] = v
	}

	return nil
}

func (c *ApnsConfig) copyAndValidate(path fieldPath) (*ApnsConfig, error) {
	if c == nil {
		return nil, nil
	}

	payloadPath := path.child("Payload")
	hasCustomAps := hasKey(c.CustomData, apsKey)
	switch {
	case c.Aps != nil && hasCustomAps:
		return nil, invalidArgument(payloadPath, "aps가 Aps와 CustomData에 중복 지정되었습니다")
	case c.Aps == nil && !hasCustomAps:
		return nil, invalidArgument(payloadPath, "aps 딕셔너리는 필수입니다")
	}

	hmsOptions, err := c.HmsOptions.copyAndValidate(path.child("HmsOptions"))
	if err != nil {
		return nil, err
	}
	aps, err := c.Aps.copyAndValidate(payloadPath.child("Aps"))
	if err != nil {
		return nil, err
	}
	customData, err := cloneObject(payloadPath, c.CustomData)
	if err != nil {
		return nil, err
	}

	return &ApnsConfig{
		HmsOptions: hmsOptions,
		Headers:    cloneHeaders(c.Headers),
		Aps:        aps,
		CustomData: customData,
	}, nil
}

func (o *ApnsHmsOptions) copyAndValidate(path fieldPath) (*ApnsHmsOptions, error) {
	if o == nil {
		return &ApnsHmsOptions{TargetUserType: ApnsTargetTest}, nil
	}

	switch o.TargetUserType {
	case 0:
		return &ApnsHmsOptions{TargetUserType: ApnsTargetTest}, nil
	case ApnsTargetTest, ApnsTargetNormal, ApnsTargetVoIP:
		return &ApnsHmsOptions{TargetUserType: o.TargetUserType}, nil
	default:
		return nil, invalidArgument(path.child("TargetUserType"), "지원하지 않는 값입니다: %d", o.TargetUserType)
	}
}

// Aps APNs 페이로드의 aps 딕셔너리입니다.
//
// AlertString과 Alert, Sound와 CriticalSound는 각각 둘 중 하나만 지정할 수 있습니다.
type Aps struct {
	AlertString      string
	Alert            *ApsAlert
	Badge            *int
	Sound            string
	CriticalSound    *CriticalSound
	ContentAvailable bool
	MutableContent   bool
	Category         string
	ThreadID         string
	TargetContentID  string

	// CustomData aps 딕셔너리에 추가로 병합할 키
	CustomData map[string]any
}

// MarshalJSON APNs 규격의 키 이름(content-available, thread-id 등)으로 직렬화합니다.
func (a Aps) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(a.CustomData)+8)
	for k, v := range a.CustomData {
		m[k] = v
	}

	if a.Alert != nil {
		m["alert"] = a.Alert
	} else if a.AlertString != "" {
		m["alert"] = a.AlertString
	}
	if a.Badge != nil {
		m["badge"] = *a.Badge
	}
	if a.CriticalSound != nil {
		m["sound"] = a.CriticalSound
	} else if a.Sound != "" {
		m["sound"] = a.Sound
	}
	if a.ContentAvailable {
		m["content-available"] = 1
	}
	if a.MutableContent {
		m["mutable-content"] = 1
	}
	if a.Category != "" {
		m["category"] = a.Category
	}
	if a.ThreadID != "" {
		m["thread-id"] = a.ThreadID
	}
	if a.TargetContentID != "" {
		m["target-content-id"] = a.TargetContentID
	}

	return json.Marshal(m)
}

// UnmarshalJSON 알려진 키는 각 필드로, 나머지 키는 CustomData로 해석합니다.
func (a *Aps) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = Aps{}
	for k, v := range raw {
		var err error
		switch k {
		case "alert":
			if len(v) > 0 && v[0] == '"' {
				err = json.Unmarshal(v, &a.AlertString)
			} else {
				a.Alert = &ApsAlert{}
				err = json.Unmarshal(v, a.Alert)
			}
		case "badge":
			a.Badge = new(int)
			err = json.Unmarshal(v, a.Badge)
		case "sound":
			if len(v) > 0 && v[0] == '"' {
				err = json.Unmarshal(v, &a.Sound)
			} else {
				a.CriticalSound = &CriticalSound{}
				err = json.Unmarshal(v, a.CriticalSound)
			}
		case "content-available":
			var n int
			err = json.Unmarshal(v, &n)
			a.ContentAvailable = n == 1
		case "mutable-content":
			var n int
			err = json.Unmarshal(v, &n)
			a.MutableContent = n == 1
		case "category":
			err = json.Unmarshal(v, &a.Category)
		case "thread-id":
			err = json.Unmarshal(v, &a.ThreadID)
		case "target-content-id":
			err = json.Unmarshal(v, &a.TargetContentID)
		default:
			var custom any
			if err = json.Unmarshal(v, &custom); err == nil {
				if a.CustomData == nil {
					a.CustomData = make(map[string]any)
				}
				a.CustomData[k] = custom
			}
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (a *Aps) copyAndValidate(path fieldPath) (*Aps, error) {
	if a == nil {
		return nil, nil
	}

	if a.Alert != nil && a.AlertString != "" {
		return nil, invalidArgument(path.child("Alert"), "alert 문자열과 alert 객체를 함께 지정할 수 없습니다")
	}
	if a.CriticalSound != nil && a.Sound != "" {
		return nil, invalidArgument(path.child("Sound"), "sound 문자열과 critical sound를 함께 지정할 수 없습니다")
	}

	criticalSound, err := a.CriticalSound.copyAndValidate(path.child("Sound"))
	if err != nil {
		return nil, err
	}
	customData, err := cloneObject(path, a.CustomData)
	if err != nil {
		return nil, err
	}

	copied := *a
	copied.Alert = a.Alert.copy()
	copied.Badge = clonePtr(a.Badge)
	copied.CriticalSound = criticalSound
	copied.CustomData = customData

	return &copied, nil
}

// ApsAlert aps 딕셔너리의 alert 객체입니다.
type ApsAlert struct {
	Title           string   `json:"title,omitempty"`
	Subtitle        string   `json:"subtitle,omitempty"`
	Body            string   `json:"body,omitempty"`
	LaunchImage     string   `json:"launch-image,omitempty"`
	TitleLocKey     string   `json:"title-loc-key,omitempty"`
	TitleLocArgs    []string `json:"title-loc-args,omitempty"`
	SubtitleLocKey  string   `json:"subtitle-loc-key,omitempty"`
	SubtitleLocArgs []string `json:"subtitle-loc-args,omitempty"`
	LocKey          string   `json:"loc-key,omitempty"`
	LocArgs         []string `json:"loc-args,omitempty"`
	ActionLocKey    string   `json:"action-loc-key,omitempty"`
}

func (a *ApsAlert) copy() *ApsAlert {
	if a == nil {
		return nil
	}

	copied := *a
	copied.TitleLocArgs = slices.Clone(a.TitleLocArgs)
	copied.SubtitleLocArgs = slices.Clone(a.SubtitleLocArgs)
	copied.LocArgs = slices.Clone(a.LocArgs)
	return &copied
}

// CriticalSound 긴급 알림(critical alert) 사운드 설정입니다.
type CriticalSound struct {
	Critical bool
	Name     string
	// Volume 0 이상 1 이하
	Volume float64
}

// MarshalJSON critical 플래그를 APNs 규격에 맞게 1로 직렬화합니다.
func (s CriticalSound) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	if s.Critical {
		m["critical"] = 1
	}
	if s.Name != "" {
		m["name"] = s.Name
	}
	if s.Volume != 0 {
		m["volume"] = s.Volume
	}
	return json.Marshal(m)
}

// UnmarshalJSON APNs 규격의 critical sound 객체를 해석합니다.
func (s *CriticalSound) UnmarshalJSON(data []byte) error {
	var aux struct {
		Critical int     `json:"critical"`
		Name     string  `json:"name"`
		Volume   float64 `json:"volume"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*s = CriticalSound{Critical: aux.Critical == 1, Name: aux.Name, Volume: aux.Volume}
	return nil
}

func (s *CriticalSound) copyAndValidate(path fieldPath) (*CriticalSound, error) {
	if s == nil {
		return nil, nil
	}

	if !inRange(s.Volume, 0, 1) {
		return nil, invalidArgument(path.child("Volume"), "0 이상 1 이하여야 합니다: %v", s.Volume)
	}

	copied := *s
	return &copied, nil
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}
