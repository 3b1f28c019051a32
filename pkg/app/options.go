package app

import (
	"net/url"
	"strings"

	"github.com/darkkaiser/hms-push/internal/pkg/validator"
	"github.com/darkkaiser/hms-push/internal/pkg/version"
	"github.com/darkkaiser/hms-push/pkg/auth"
	"github.com/darkkaiser/hms-push/pkg/transport"
)

// DefaultAPIBaseURI 푸시 서비스 REST API의 루트 URL
const DefaultAPIBaseURI = "https://push-api.cloud.huawei.com"

// APIVersion 메시지 전송 URL의 형태를 결정하는 API 버전
type APIVersion int

const (
	// APIVersionV1 앱 단위 API: {root}/v1/{clientId}/messages:send
	APIVersionV1 APIVersion = 1

	// APIVersionV2 프로젝트 단위 API: {root}/v2/{projectId}/messages:send
	APIVersionV2 APIVersion = 2
)

// Options App 생성에 필요한 설정입니다. 설정 파일의 "push" 섹션과 1:1로 대응합니다.
type Options struct {
	// LoginURI 액세스 토큰 발급 URL (빈 값: auth.DefaultLoginURL)
	LoginURI string `json:"login_uri" validate:"https_url"`

	// APIBaseURI 푸시 서비스 API의 루트 URL (빈 값: DefaultAPIBaseURI)
	APIBaseURI string `json:"api_base_uri" validate:"https_url"`

	// APIVersion 1(앱 단위) 또는 2(프로젝트 단위). 0이면 1을 사용합니다.
	APIVersion APIVersion `json:"api_version" validate:"oneof=1 2"`

	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`

	// ProjectID 프로젝트 단위 API(APIVersionV2)에서만 필요합니다.
	ProjectID string `json:"project_id" validate:"required_if=APIVersion 2"`

	// BatchConcurrency SendAll의 동시 전송 수 (0: 기본값)
	BatchConcurrency int `json:"batch_concurrency" validate:"gte=0"`

	HTTP transport.Config `json:"http"`
}

// withDefaults 비어 있는 항목을 기본값으로 채운 복사본을 반환합니다.
func (o Options) withDefaults() Options {
	if o.LoginURI == "" {
		o.LoginURI = auth.DefaultLoginURL
	}
	if o.APIBaseURI == "" {
		o.APIBaseURI = DefaultAPIBaseURI
	}
	o.APIBaseURI = strings.TrimRight(o.APIBaseURI, "/")
	if o.APIVersion == 0 {
		o.APIVersion = APIVersionV1
	}
	if o.HTTP.UserAgent == "" {
		o.HTTP.UserAgent = version.UserAgent()
	}
	return o
}

// Validate 기본값을 적용한 뒤 설정의 유효성을 검사합니다.
func (o Options) Validate() error {
	return validator.Check(o.withDefaults(), "push")
}

// SendURL 메시지 전송 URL을 반환합니다.
func (o Options) SendURL() string {
	o = o.withDefaults()

	if o.APIVersion == APIVersionV2 {
		return o.APIBaseURI + "/v2/" + url.PathEscape(o.ProjectID) + "/messages:send"
	}
	return o.APIBaseURI + "/v1/" + url.PathEscape(o.ClientID) + "/messages:send"
}

// TopicURL 토픽 API의 공통 접두어를 반환합니다. 토픽 API는 API 버전과 관계없이 앱 단위입니다.
func (o Options) TopicURL() string {
	o = o.withDefaults()

	return o.APIBaseURI + "/v1/" + url.PathEscape(o.ClientID)
}
