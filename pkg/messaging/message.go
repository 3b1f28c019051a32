package messaging

import (
	"slices"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
)

// Message 푸시 서비스로 전송되는 메시지입니다.
//
// 수신 대상은 Token, Topic, Condition 중 정확히 하나만 지정해야 합니다.
// Message는 전송 시점에 CopyAndValidate로 독립적인 사본이 만들어지므로,
// 호출자는 전송 이후에도 원본을 템플릿처럼 자유롭게 수정하거나 재사용할 수 있습니다.
type Message struct {
	// Data 투명 전달(data message) 페이로드
	Data string `json:"data,omitempty"`

	Notification *Notification  `json:"notification,omitempty"`
	Android      *AndroidConfig `json:"android,omitempty"`
	Apns         *ApnsConfig    `json:"apns,omitempty"`
	Webpush      *WebpushConfig `json:"webpush,omitempty"`

	Token     []string `json:"token,omitempty"`
	Topic     string   `json:"topic,omitempty"`
	Condition string   `json:"condition,omitempty"`
}

// CopyAndValidate 메시지 트리 전체의 독립적인 사본을 만들면서 유효성을 검사합니다.
//
// 사본은 원본과 어떠한 슬라이스, 맵, JSON 객체도 공유하지 않습니다.
// 첫 번째로 발견된 위반 사항이 apperrors.InvalidArgument 에러로 반환되며, 이때 사본은 반환되지 않습니다.
func (m *Message) CopyAndValidate() (*Message, error) {
	if m == nil {
		return nil, apperrors.New(apperrors.InvalidArgument, "message: 메시지가 nil입니다")
	}

	var root fieldPath

	notification, err := m.Notification.copyAndValidate(root.child("Notification"))
	if err != nil {
		return nil, err
	}
	android, err := m.Android.copyAndValidate(root.child("Android"))
	if err != nil {
		return nil, err
	}
	apns, err := m.Apns.copyAndValidate(root.child("Apns"))
	if err != nil {
		return nil, err
	}
	webpush, err := m.Webpush.copyAndValidate(root.child("Webpush"))
	if err != nil {
		return nil, err
	}

	copied := &Message{
		Data:         m.Data,
		Notification: notification,
		Android:      android,
		Apns:         apns,
		Webpush:      webpush,
		Token:        slices.Clone(m.Token),
		Topic:        m.Topic,
		Condition:    m.Condition,
	}

	if targets := copied.countTargets(); targets != 1 {
		return nil, invalidArgument(root, "token, topic, condition 중 정확히 하나를 지정해야 합니다 (지정된 대상: %d개)", targets)
	}

	return copied, nil
}

// countTargets 지정된 수신 대상 종류의 개수를 반환합니다.
// 토큰 목록은 비어 있지 않은 토큰이 하나 이상 있을 때만 대상으로 간주합니다.
func (m *Message) countTargets() int {
	count := 0
	if slices.ContainsFunc(m.Token, func(t string) bool { return t != "" }) {
		count++
	}
	if m.Topic != "" {
		count++
	}
	if m.Condition != "" {
		count++
	}
	return count
}

// Notification 모든 플랫폼에 공통으로 적용되는 기본 알림입니다.
type Notification struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`

	// Image 알림에 표시할 이미지 URL (https)
	Image string `json:"image,omitempty"`
}

func (n *Notification) copyAndValidate(path fieldPath) (*Notification, error) {
	if n == nil {
		return nil, nil
	}

	if n.Image != "" && !isHTTPSURL(n.Image) {
		return nil, invalidArgument(path.child("Image"), "https URL이어야 합니다: %q", n.Image)
	}

	copied := *n
	return &copied, nil
}
