package messaging

import (
	"encoding/json"
	"slices"
	"time"
)

// NotificationStyle 안드로이드 알림의 표시 스타일
type NotificationStyle int

const (
	StyleDefault NotificationStyle = 0
	StyleBigText NotificationStyle = 1
	StyleInbox   NotificationStyle = 3
)

// Importance 안드로이드 알림의 중요도
type Importance string

const (
	ImportanceLow    Importance = "LOW"
	ImportanceNormal Importance = "NORMAL"
)

// Visibility 잠금 화면에서의 알림 공개 범위
type Visibility string

const (
	VisibilityUnspecified Visibility = "VISIBILITY_UNSPECIFIED"
	VisibilityPrivate     Visibility = "PRIVATE"
	VisibilityPublic      Visibility = "PUBLIC"
	VisibilitySecret      Visibility = "SECRET"
)

// maxVibrateTiming 진동 패턴 한 구간의 최대 길이
const maxVibrateTiming = 60 * time.Second

// AndroidNotification 안드로이드 기기의 알림 표시 방식을 정의합니다.
type AndroidNotification struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	Icon  string `json:"icon,omitempty"`

	// Color 아이콘 색상 (#RRGGBB)
	Color        string `json:"color,omitempty"`
	Sound        string `json:"sound,omitempty"`
	DefaultSound bool   `json:"default_sound,omitempty"`
	Tag          string `json:"tag,omitempty"`

	ClickAction *ClickAction `json:"click_action,omitempty"`

	BodyLocKey   string   `json:"body_loc_key,omitempty"`
	BodyLocArgs  []string `json:"body_loc_args,omitempty"`
	TitleLocKey  string   `json:"title_loc_key,omitempty"`
	TitleLocArgs []string `json:"title_loc_args,omitempty"`

	// MultiLangKey 다국어 문자열 테이블 (예: {"title_key": {"en": "Hello"}})
	MultiLangKey map[string]any `json:"multi_lang_key,omitempty"`

	ChannelID     string `json:"channel_id,omitempty"`
	NotifySummary string `json:"notify_summary,omitempty"`
	Image         string `json:"image,omitempty"`

	// Style 푸시 서비스가 항상 값을 기대하므로 기본값(0)도 직렬화합니다.
	Style    NotificationStyle `json:"style"`
	BigTitle string            `json:"big_title,omitempty"`
	BigBody  string            `json:"big_body,omitempty"`

	AutoClear *int   `json:"auto_clear,omitempty"`
	NotifyID  *int   `json:"notify_id,omitempty"`
	Group     string `json:"group,omitempty"`

	Badge *BadgeNotification `json:"badge,omitempty"`

	Ticker     string `json:"ticker,omitempty"`
	AutoCancel bool   `json:"auto_cancel,omitempty"`

	// When 알림에 표시되는 이벤트 시각 (UTC로 직렬화)
	When *time.Time `json:"-"`

	Importance        Importance `json:"importance,omitempty"`
	UseDefaultVibrate *bool      `json:"use_default_vibrate,omitempty"`

	// VibrateConfig 진동 패턴 (각 구간은 0초 이상 60초 이하)
	VibrateConfig []time.Duration `json:"-"`

	Visibility      Visibility     `json:"visibility,omitempty"`
	UseDefaultLight *bool          `json:"use_default_light,omitempty"`
	LightSettings   *LightSettings `json:"light_settings,omitempty"`
	ForegroundShow  *bool          `json:"foreground_show,omitempty"`
}

type androidNotificationAlias AndroidNotification

type androidNotificationJSON struct {
	*androidNotificationAlias
	When          string   `json:"when,omitempty"`
	VibrateConfig []string `json:"vibrate_config,omitempty"`
}

// MarshalJSON When과 VibrateConfig를 푸시 서비스의 문자열 형식으로 직렬화합니다.
func (n AndroidNotification) MarshalJSON() ([]byte, error) {
	aux := androidNotificationJSON{
		androidNotificationAlias: (*androidNotificationAlias)(&n),
		VibrateConfig:            encodeDurations(n.VibrateConfig),
	}
	if n.When != nil {
		aux.When = n.When.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(aux)
}

// UnmarshalJSON 문자열 형식의 When과 VibrateConfig를 해석합니다.
func (n *AndroidNotification) UnmarshalJSON(data []byte) error {
	aux := androidNotificationJSON{androidNotificationAlias: (*androidNotificationAlias)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.When != "" {
		when, err := time.Parse(time.RFC3339Nano, aux.When)
		if err != nil {
			return err
		}
		n.When = &when
	}

	vibrate, err := decodeDurations(aux.VibrateConfig)
	if err != nil {
		return err
	}
	n.VibrateConfig = vibrate

	return nil
}

func (n *AndroidNotification) copyAndValidate(path fieldPath) (*AndroidNotification, error) {
	if n == nil {
		return nil, nil
	}

	if n.Color != "" && !isColor(n.Color) {
		return nil, invalidArgument(path.child("Color"), "#RRGGBB 형식이어야 합니다: %q", n.Color)
	}
	if n.Image != "" && !isHTTPSURL(n.Image) {
		return nil, invalidArgument(path.child("Image"), "https URL이어야 합니다: %q", n.Image)
	}
	if len(n.TitleLocArgs) > 0 && n.TitleLocKey == "" {
		return nil, invalidArgument(path.child("TitleLocKey"), "title_loc_args를 지정하려면 필수입니다")
	}
	if len(n.BodyLocArgs) > 0 && n.BodyLocKey == "" {
		return nil, invalidArgument(path.child("BodyLocKey"), "body_loc_args를 지정하려면 필수입니다")
	}
	if !allInRange(n.VibrateConfig, 0, maxVibrateTiming) {
		return nil, invalidArgument(path.child("VibrateConfig"), "각 구간은 0초 이상 %s 이하여야 합니다", maxVibrateTiming)
	}

	clickAction, err := n.ClickAction.copyAndValidate(path.child("ClickAction"))
	if err != nil {
		return nil, err
	}
	badge, err := n.Badge.copyAndValidate(path.child("Badge"))
	if err != nil {
		return nil, err
	}
	lightSettings, err := n.LightSettings.copyAndValidate(path.child("LightSettings"))
	if err != nil {
		return nil, err
	}
	multiLangKey, err := cloneObject(path.child("MultiLangKey"), n.MultiLangKey)
	if err != nil {
		return nil, err
	}

	copied := *n
	copied.ClickAction = clickAction
	copied.BodyLocArgs = slices.Clone(n.BodyLocArgs)
	copied.TitleLocArgs = slices.Clone(n.TitleLocArgs)
	copied.MultiLangKey = multiLangKey
	copied.AutoClear = clonePtr(n.AutoClear)
	copied.NotifyID = clonePtr(n.NotifyID)
	copied.Badge = badge
	copied.When = clonePtr(n.When)
	copied.UseDefaultVibrate = clonePtr(n.UseDefaultVibrate)
	copied.VibrateConfig = slices.Clone(n.VibrateConfig)
	copied.UseDefaultLight = clonePtr(n.UseDefaultLight)
	copied.LightSettings = lightSettings
	copied.ForegroundShow = clonePtr(n.ForegroundShow)

	return &copied, nil
}

// BadgeNotification 앱 아이콘 배지 설정입니다.
type BadgeNotification struct {
	// AddNum 현재 배지 숫자에 더할 값 [0, 100]
	AddNum *int `json:"add_num,omitempty"`
	// SetNum 배지 숫자를 이 값으로 설정 [0, 100]
	SetNum *int `json:"set_num,omitempty"`
	// Class 앱 진입 Activity의 전체 클래스 이름
	Class string `json:"class,omitempty"`
}

func (b *BadgeNotification) copyAndValidate(path fieldPath) (*BadgeNotification, error) {
	if b == nil {
		return nil, nil
	}

	if b.AddNum != nil && !inRange(*b.AddNum, 0, 100) {
		return nil, invalidArgument(path.child("AddNum"), "0 이상 100 이하여야 합니다: %d", *b.AddNum)
	}
	if b.SetNum != nil && !inRange(*b.SetNum, 0, 100) {
		return nil, invalidArgument(path.child("SetNum"), "0 이상 100 이하여야 합니다: %d", *b.SetNum)
	}

	return &BadgeNotification{
		AddNum: clonePtr(b.AddNum),
		SetNum: clonePtr(b.SetNum),
		Class:  b.Class,
	}, nil
}

// LightSettings 알림 LED 설정입니다.
type LightSettings struct {
	Color            *LightColor   `json:"color,omitempty"`
	LightOnDuration  time.Duration `json:"-"`
	LightOffDuration time.Duration `json:"-"`
}

type lightSettingsAlias LightSettings

type lightSettingsJSON struct {
	*lightSettingsAlias
	LightOnDuration  string `json:"light_on_duration"`
	LightOffDuration string `json:"light_off_duration"`
}

// MarshalJSON 점등/소등 시간을 문자열 형식으로 직렬화합니다.
func (s LightSettings) MarshalJSON() ([]byte, error) {
	return json.Marshal(lightSettingsJSON{
		lightSettingsAlias: (*lightSettingsAlias)(&s),
		LightOnDuration:    EncodeDuration(s.LightOnDuration),
		LightOffDuration:   EncodeDuration(s.LightOffDuration),
	})
}

// UnmarshalJSON 문자열 형식의 점등/소등 시간을 해석합니다.
func (s *LightSettings) UnmarshalJSON(data []byte) error {
	aux := lightSettingsJSON{lightSettingsAlias: (*lightSettingsAlias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if aux.LightOnDuration != "" {
		if s.LightOnDuration, err = DecodeDuration(aux.LightOnDuration); err != nil {
			return err
		}
	}
	if aux.LightOffDuration != "" {
		if s.LightOffDuration, err = DecodeDuration(aux.LightOffDuration); err != nil {
			return err
		}
	}

	return nil
}

func (s *LightSettings) copyAndValidate(path fieldPath) (*LightSettings, error) {
	if s == nil {
		return nil, nil
	}

	color, err := s.Color.copyAndValidate(path.child("Color"))
	if err != nil {
		return nil, err
	}

	return &LightSettings{
		Color:            color,
		LightOnDuration:  s.LightOnDuration,
		LightOffDuration: s.LightOffDuration,
	}, nil
}

// LightColor RGBA 형식의 LED 색상입니다. 각 값은 0과 1 사이의 비율입니다.
type LightColor struct {
	Alpha float64 `json:"alpha"`
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// LightColorFromARGB 알파 값을 포함한 색상을 생성합니다.
func LightColorFromARGB(alpha, red, green, blue float64) *LightColor {
	return &LightColor{Alpha: alpha, Red: red, Green: green, Blue: blue}
}

// LightColorFromRGB 불투명(alpha 1) 색상을 생성합니다.
func LightColorFromRGB(red, green, blue float64) *LightColor {
	return LightColorFromARGB(1, red, green, blue)
}

func (c *LightColor) copyAndValidate(path fieldPath) (*LightColor, error) {
	if c == nil {
		return nil, nil
	}

	if !allInRange([]float64{c.Red, c.Green, c.Blue}, 0, 1) {
		return nil, invalidArgument(path, "red, green, blue 값은 0 이상 1 이하여야 합니다 (r=%v, g=%v, b=%v)", c.Red, c.Green, c.Blue)
	}

	copied := *c
	return &copied, nil
}
