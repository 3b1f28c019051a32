package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/darkkaiser/hms-push/pkg/app"
	"github.com/darkkaiser/hms-push/pkg/auth"
	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	applog "github.com/darkkaiser/hms-push/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNormalizeEnvKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"HMSPUSH_DEBUG", "debug"},
		{"HMSPUSH_PUSH__CLIENT_ID", "push.client_id"},
		{"HMSPUSH_PUSH__HTTP__RATE_LIMIT", "push.http.rate_limit"},
		{"HMSPUSH_TOKEN_CACHE__REDIS_ADDR", "token_cache.redis_addr"},
		{"DEBUG", "debug"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeEnvKey(tt.input), "input: %s", tt.input)
	}
}

func TestNewDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := newDefaultConfig()

	assert.False(t, cfg.Debug)
	assert.Equal(t, auth.DefaultLoginURL, cfg.Push.LoginURI)
	assert.Equal(t, app.DefaultAPIBaseURI, cfg.Push.APIBaseURI)
	assert.Equal(t, app.APIVersionV1, cfg.Push.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.Push.HTTP.Timeout)
	assert.False(t, cfg.TokenCache.Enabled())
}

func TestLoadWithFile_JSON(t *testing.T) {
	path := writeFile(t, "hmspush.json", `{
		"debug": true,
		"push": {
			"client_id": "12345678",
			"client_secret": "secret",
			"api_version": 2,
			"project_id": "proj-1",
			"http": {"timeout": "10s", "rate_limit": 50}
		},
		"token_cache": {"redis_addr": "localhost:6379", "redis_db": 2}
	}`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "12345678", cfg.Push.ClientID)
	assert.Equal(t, app.APIVersionV2, cfg.Push.APIVersion)
	assert.Equal(t, "proj-1", cfg.Push.ProjectID)
	assert.Equal(t, 10*time.Second, cfg.Push.HTTP.Timeout)
	assert.InDelta(t, 50.0, cfg.Push.HTTP.RateLimit, 0.0001)
	assert.Equal(t, auth.DefaultLoginURL, cfg.Push.LoginURI, "파일에 없는 값은 기본값을 유지해야 합니다")
	assert.True(t, cfg.TokenCache.Enabled())
	assert.Equal(t, 2, cfg.TokenCache.RedisDB)
}

func TestLoadWithFile_YAML(t *testing.T) {
	path := writeFile(t, "hmspush.yaml", `
push:
  client_id: "12345678"
  client_secret: secret
  batch_concurrency: 8
log:
  level: debug
  console: true
`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "12345678", cfg.Push.ClientID)
	assert.Equal(t, 8, cfg.Push.BatchConcurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Console)
}

func TestLoadWithFile_EnvOverrides(t *testing.T) {
	path := writeFile(t, "hmspush.json", `{"push": {"client_id": "from-file", "client_secret": "file-secret"}}`)

	t.Setenv("HMSPUSH_PUSH__CLIENT_SECRET", "env-secret")
	t.Setenv("HMSPUSH_PUSH__HTTP__TIMEOUT", "5s")
	t.Setenv("HMSPUSH_DEBUG", "true")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Push.ClientID)
	assert.Equal(t, "env-secret", cfg.Push.ClientSecret)
	assert.Equal(t, 5*time.Second, cfg.Push.HTTP.Timeout)
	assert.True(t, cfg.Debug)
}

func TestLoadWithFile_EnvOnly(t *testing.T) {
	t.Setenv("HMSPUSH_PUSH__CLIENT_ID", "12345678")
	t.Setenv("HMSPUSH_PUSH__CLIENT_SECRET", "secret")

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, "12345678", cfg.Push.ClientID)
}

func TestLoadWithFile_Errors(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		content      string
		expectedType apperrors.ErrorType
		expectedMsg  string
	}{
		{"Unsupported extension", "hmspush.toml", `a = 1`, apperrors.InvalidArgument, "지원하지 않는 설정 파일 형식"},
		{"Malformed JSON", "hmspush.json", `{"push": `, apperrors.ParsingFailed, ""},
		{"Unknown key", "hmspush.json", `{"push": {"client_id": "1", "client_secret": "s"}, "unknown": 1}`, apperrors.InvalidArgument, ""},
		{"Missing credentials", "hmspush.json", `{"push": {"client_id": "1"}}`, apperrors.InvalidArgument, "push.client_secret"},
		{"V2 without project", "hmspush.json", `{"push": {"client_id": "1", "client_secret": "s", "api_version": 2}}`, apperrors.InvalidArgument, "push.project_id"},
		{"Invalid log level", "hmspush.json", `{"push": {"client_id": "1", "client_secret": "s"}, "log": {"level": "loud"}}`, apperrors.InvalidArgument, "log.level"},
		{"Invalid redis address", "hmspush.yaml", "push: {client_id: '1', client_secret: s}\ntoken_cache: {redis_addr: localhost}\n", apperrors.InvalidArgument, "token_cache.redis_addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.filename, tt.content)

			_, err := LoadWithFile(path)

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.expectedType), "expected %s: %v", tt.expectedType, err)
			if tt.expectedMsg != "" {
				assert.Contains(t, err.Error(), tt.expectedMsg)
			}
		})
	}

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.json"))

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.System))
	})
}

func TestAppConfig_LogOptions(t *testing.T) {
	t.Parallel()

	t.Run("Production profile", func(t *testing.T) {
		t.Parallel()

		cfg := newDefaultConfig()
		opts := cfg.LogOptions()

		assert.Equal(t, AppName, opts.Name)
		assert.Equal(t, "logs", opts.Dir)
		assert.Equal(t, applog.InfoLevel, opts.Level)
		assert.False(t, opts.EnableConsoleLog)
	})

	t.Run("Development profile with overrides", func(t *testing.T) {
		t.Parallel()

		cfg := newDefaultConfig()
		cfg.Debug = true
		cfg.Log = LogConfig{Dir: "/var/log/hmspush", Level: "warn", MaxBackups: 3}
		opts := cfg.LogOptions()

		assert.Equal(t, "/var/log/hmspush", opts.Dir)
		assert.Equal(t, applog.WarnLevel, opts.Level)
		assert.Equal(t, 3, opts.MaxBackups)
		assert.True(t, opts.EnableConsoleLog)
	})
}
