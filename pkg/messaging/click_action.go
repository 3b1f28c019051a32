package messaging

import "encoding/json"

// ClickActionType 알림을 눌렀을 때 수행할 동작의 종류
type ClickActionType int

const (
	// ClickActionCustom 사용자 정의 intent 또는 action 실행
	ClickActionCustom ClickActionType = 1
	// ClickActionOpenURL 지정된 URL 열기
	ClickActionOpenURL ClickActionType = 2
	// ClickActionOpenApp 앱 실행
	ClickActionOpenApp ClickActionType = 3
	// ClickActionOpenRichResource 리치 리소스 열기
	ClickActionOpenRichResource ClickActionType = 4
)

// ClickAction 알림을 눌렀을 때의 동작입니다.
//
// 동작 종류와 그에 딸린 값이 항상 짝을 이루도록 필드를 공개하지 않으며,
// OpenApp, OpenURL, OpenRichResource, CustomIntent, CustomAction 생성자로만 만들 수 있습니다.
type ClickAction struct {
	typ          ClickActionType
	intent       string
	url          string
	richResource string
	action       string
}

// OpenApp 앱을 실행하는 동작을 생성합니다.
func OpenApp() *ClickAction {
	return &ClickAction{typ: ClickActionOpenApp}
}

// OpenURL 지정된 URL을 여는 동작을 생성합니다. URL은 전송 시점에 https 여부가 검사됩니다.
func OpenURL(url string) *ClickAction {
	return &ClickAction{typ: ClickActionOpenURL, url: url}
}

// OpenRichResource 지정된 리치 리소스를 여는 동작을 생성합니다. URL은 전송 시점에 https 여부가 검사됩니다.
func OpenRichResource(resourceURL string) *ClickAction {
	return &ClickAction{typ: ClickActionOpenRichResource, richResource: resourceURL}
}

// CustomIntent 사용자 정의 intent를 실행하는 동작을 생성합니다.
// intent가 빈 문자열이면 OpenApp 동작을 반환합니다.
func CustomIntent(intent string) *ClickAction {
	if intent == "" {
		return OpenApp()
	}
	return &ClickAction{typ: ClickActionCustom, intent: intent}
}

// CustomAction 사용자 정의 action을 실행하는 동작을 생성합니다.
// action이 빈 문자열이면 OpenApp 동작을 반환합니다.
func CustomAction(action string) *ClickAction {
	if action == "" {
		return OpenApp()
	}
	return &ClickAction{typ: ClickActionCustom, action: action}
}

// Type 동작의 종류를 반환합니다.
func (a *ClickAction) Type() ClickActionType { return a.typ }

// Intent 사용자 정의 intent를 반환합니다.
func (a *ClickAction) Intent() string { return a.intent }

// URL 열 URL을 반환합니다.
func (a *ClickAction) URL() string { return a.url }

// RichResource 리치 리소스 URL을 반환합니다.
func (a *ClickAction) RichResource() string { return a.richResource }

// Action 사용자 정의 action을 반환합니다.
func (a *ClickAction) Action() string { return a.action }

type clickActionJSON struct {
	Type         ClickActionType `json:"type"`
	Intent       string          `json:"intent,omitempty"`
	URL          string          `json:"url,omitempty"`
	RichResource string          `json:"rich_resource,omitempty"`
	Action       string          `json:"action,omitempty"`
}

// MarshalJSON 비공개 필드를 와이어 형식으로 직렬화합니다.
func (a ClickAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(clickActionJSON{
		Type:         a.typ,
		Intent:       a.intent,
		URL:          a.url,
		RichResource: a.richResource,
		Action:       a.action,
	})
}

// UnmarshalJSON 와이어 형식에서 동작을 복원합니다.
func (a *ClickAction) UnmarshalJSON(data []byte) error {
	var aux clickActionJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*a = ClickAction{
		typ:          aux.Type,
		intent:       aux.Intent,
		url:          aux.URL,
		richResource: aux.RichResource,
		action:       aux.Action,
	}

	return nil
}

func (a *ClickAction) copyAndValidate(path fieldPath) (*ClickAction, error) {
	if a == nil {
		return nil, nil
	}

	if a.typ < ClickActionCustom || a.typ > ClickActionOpenRichResource {
		return nil, invalidArgument(path.child("Type"), "지원하지 않는 동작 종류입니다: %d", a.typ)
	}
	if a.typ == ClickActionCustom && a.intent == "" && a.action == "" {
		return nil, invalidArgument(path.child("Intent"), "사용자 정의 동작에는 intent 또는 action이 필요합니다")
	}
	if (a.typ == ClickActionOpenURL || a.url != "") && !isHTTPSURL(a.url) {
		return nil, invalidArgument(path.child("URL"), "https URL이어야 합니다: %q", a.url)
	}
	if (a.typ == ClickActionOpenRichResource || a.richResource != "") && !isHTTPSURL(a.richResource) {
		return nil, invalidArgument(path.child("RichResource"), "https URL이어야 합니다: %q", a.richResource)
	}

	copied := *a
	return &copied, nil
}
