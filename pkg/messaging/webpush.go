package messaging

import (
	"bytes"
	"encoding/json"
	"slices"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
)

// Direction 웹 푸시 알림의 텍스트 방향
type Direction string

const (
	DirectionAuto        Direction = "auto"
	DirectionLeftToRight Direction = "ltr"
	DirectionRightToLeft Direction = "rtl"
)

// WebpushConfig 웹 브라우저에만 적용되는 메시지 설정입니다.
type WebpushConfig struct {
	HmsOptions   *WebpushHmsOptions   `json:"hms_options,omitempty"`
	Headers      map[string]string    `json:"headers,omitempty"`
	Notification *WebpushNotification `json:"notification,omitempty"`
}

func (c *WebpushConfig) copyAndValidate(path fieldPath) (*WebpushConfig, error) {
	if c == nil {
		return nil, nil
	}

	hmsOptions, err := c.HmsOptions.copyAndValidate(path.child("HmsOptions"))
	if err != nil {
		return nil, err
	}
	notification, err := c.Notification.copyAndValidate(path.child("Notification"))
	if err != nil {
		return nil, err
	}

	return &WebpushConfig{
		HmsOptions:   hmsOptions,
		Headers:      cloneHeaders(c.Headers),
		Notification: notification,
	}, nil
}

// WebpushHmsOptions 웹 푸시 메시지에 대한 푸시 서비스 고유 옵션입니다.
type WebpushHmsOptions struct {
	// Link 알림을 눌렀을 때 열 페이지 (https)
	Link string `json:"link,omitempty"`
}

func (o *WebpushHmsOptions) copyAndValidate(path fieldPath) (*WebpushHmsOptions, error) {
	if o == nil {
		return nil, nil
	}

	if o.Link != "" && !isHTTPSURL(o.Link) {
		return nil, invalidArgument(path.child("Link"), "https URL이어야 합니다: %q", o.Link)
	}

	return &WebpushHmsOptions{Link: o.Link}, nil
}

// WebpushNotification 웹 푸시 알림입니다. 필드는 W3C Notification API의 옵션에 대응합니다.
type WebpushNotification struct {
	Title              string          `json:"title,omitempty"`
	Body               string          `json:"body,omitempty"`
	Icon               string          `json:"icon,omitempty"`
	Image              string          `json:"image,omitempty"`
	Language           string          `json:"lang,omitempty"`
	Tag                string          `json:"tag,omitempty"`
	Badge              string          `json:"badge,omitempty"`
	Direction          Direction       `json:"dir,omitempty"`
	Vibrate            []int           `json:"vibrate,omitempty"`
	Renotify           bool            `json:"renotify,omitempty"`
	RequireInteraction bool            `json:"require_interaction,omitempty"`
	Silent             bool            `json:"silent,omitempty"`
	Timestamp          int64           `json:"timestamp,omitempty"`
	Actions            []WebpushAction `json:"actions,omitempty"`
	Data               map[string]any  `json:"data,omitempty"`

	// CustomData notification 객체에 그대로 병합되는 추가 키. 위의 표준 키와 겹칠 수 없습니다.
	CustomData map[string]any `json:"-"`
}

type webpushNotificationAlias WebpushNotification

// MarshalJSON 표준 필드와 CustomData를 하나의 객체로 병합하여 직렬화합니다.
func (n WebpushNotification) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal((*webpushNotificationAlias)(&n))
	if err != nil {
		return nil, err
	}
	if len(n.CustomData) == 0 {
		return b, nil
	}

	// 숫자 정밀도를 유지하기 위해 json.Number로 다시 읽습니다.
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	for k, v := range n.CustomData {
		if _, dup := m[k]; dup {
			return nil, apperrors.Newf(apperrors.InvalidArgument, "webpush.notification: %q 키가 표준 필드와 CustomData에 중복 지정되었습니다", k)
		}
		m[k] = v
	}

	return json.Marshal(m)
}

// UnmarshalJSON 표준 키가 아닌 나머지 키를 CustomData로 해석합니다.
func (n *WebpushNotification) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*webpushNotificationAlias)(n)); err != nil {
		return err
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for _, k := range webpushStandardKeys {
		delete(m, k)
	}
	if len(m) > 0 {
		n.CustomData = m
	}

	return nil
}

var webpushStandardKeys = []string{
	"title", "body", "icon", "image", "lang", "tag", "badge", "dir", "vibrate",
	"renotify", "require_interaction", "silent", "timestamp", "actions", "data",
}

func (n *WebpushNotification) copyAndValidate(path fieldPath) (*WebpushNotification, error) {
	if n == nil {
		return nil, nil
	}

	for k := range n.CustomData {
		if slices.Contains(webpushStandardKeys, k) {
			return nil, invalidArgument(path.child("CustomData"), "%q 키는 표준 필드와 중복됩니다", k)
		}
	}

	data, err := cloneObject(path.child("Data"), n.Data)
	if err != nil {
		return nil, err
	}
	customData, err := cloneObject(path.child("CustomData"), n.CustomData)
	if err != nil {
		return nil, err
	}

	copied := *n
	copied.Vibrate = slices.Clone(n.Vibrate)
	copied.Actions = slices.Clone(n.Actions)
	copied.Data = data
	copied.CustomData = customData

	return &copied, nil
}

// WebpushAction 웹 푸시 알림에 표시되는 버튼입니다.
type WebpushAction struct {
	Action string `json:"action,omitempty"`
	Title  string `json:"title,omitempty"`
	Icon   string `json:"icon,omitempty"`
}
