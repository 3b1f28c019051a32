package app

import (
	"testing"

	"github.com/darkkaiser/hms-push/pkg/auth"
	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	o := Options{ClientID: "12345678", ClientSecret: "secret"}.withDefaults()

	assert.Equal(t, auth.DefaultLoginURL, o.LoginURI)
	assert.Equal(t, DefaultAPIBaseURI, o.APIBaseURI)
	assert.Equal(t, APIVersionV1, o.APIVersion)
	assert.Contains(t, o.HTTP.UserAgent, "hms-push-go/")
}

func TestOptions_URLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     Options
		sendURL  string
		topicURL string
	}{
		{
			name:     "App scoped (v1)",
			opts:     Options{ClientID: "12345678"},
			sendURL:  "https://push-api.cloud.huawei.com/v1/12345678/messages:send",
			topicURL: "https://push-api.cloud.huawei.com/v1/12345678",
		},
		{
			name:     "Project scoped (v2)",
			opts:     Options{ClientID: "12345678", ProjectID: "736430079244623135", APIVersion: APIVersionV2},
			sendURL:  "https://push-api.cloud.huawei.com/v2/736430079244623135/messages:send",
			topicURL: "https://push-api.cloud.huawei.com/v1/12345678",
		},
		{
			name:     "Custom base with trailing slash",
			opts:     Options{ClientID: "1", APIBaseURI: "https://push-api.example.com/"},
			sendURL:  "https://push-api.example.com/v1/1/messages:send",
			topicURL: "https://push-api.example.com/v1/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.sendURL, tt.opts.SendURL())
			assert.Equal(t, tt.topicURL, tt.opts.TopicURL())
		})
	}
}

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Options {
		return Options{ClientID: "12345678", ClientSecret: "secret"}
	}

	tests := []struct {
		name   string
		mutate func(*Options)
		field  string
	}{
		{"Valid", func(*Options) {}, ""},
		{"Missing client id", func(o *Options) { o.ClientID = "" }, "client_id"},
		{"Missing client secret", func(o *Options) { o.ClientSecret = "" }, "client_secret"},
		{"Unknown API version", func(o *Options) { o.APIVersion = 3 }, "api_version"},
		{"V2 requires project id", func(o *Options) { o.APIVersion = APIVersionV2 }, "project_id"},
		{"V2 with project id", func(o *Options) { o.APIVersion = APIVersionV2; o.ProjectID = "p" }, ""},
		{"Plain HTTP login URI", func(o *Options) { o.LoginURI = "http://oauth-login.cloud.huawei.com/oauth2/v3/token" }, "login_uri"},
		{"Plain HTTP API base", func(o *Options) { o.APIBaseURI = "http://push-api.cloud.huawei.com" }, "api_base_uri"},
		{"Negative batch concurrency", func(o *Options) { o.BatchConcurrency = -1 }, "batch_concurrency"},
		{"Negative HTTP timeout", func(o *Options) { o.HTTP.Timeout = -1 }, "http.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o := valid()
			tt.mutate(&o)

			err := o.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.InvalidArgument))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
