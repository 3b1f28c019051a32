package config

import (
	"time"

	"github.com/darkkaiser/hms-push/pkg/app"
	"github.com/darkkaiser/hms-push/pkg/auth"
	applog "github.com/darkkaiser/hms-push/pkg/log"
	"github.com/darkkaiser/hms-push/pkg/transport"
)

// AppConfig hmspush CLI의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug      bool             `json:"debug"`
	Push       app.Options      `json:"push"`
	Log        LogConfig        `json:"log"`
	TokenCache TokenCacheConfig `json:"token_cache"`
}

// LogConfig 로그 파일 위치와 보관 정책. 0 또는 빈 값인 항목은 실행 모드(debug)별 기본 프로파일을 따릅니다.
type LogConfig struct {
	Dir        string `json:"dir"`
	Level      string `json:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	MaxAge     int    `json:"max_age" validate:"gte=0"`
	MaxSizeMB  int    `json:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `json:"max_backups" validate:"gte=0"`
	Console    bool   `json:"console"`
}

// TokenCacheConfig 여러 프로세스가 액세스 토큰을 공유하기 위한 Redis 설정. RedisAddr가 비어 있으면 사용하지 않습니다.
type TokenCacheConfig struct {
	RedisAddr     string `json:"redis_addr" validate:"omitempty,hostname_port"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db" validate:"gte=0,lte=15"`
}

// Enabled 공유 토큰 캐시 사용 여부
func (c TokenCacheConfig) Enabled() bool {
	return c.RedisAddr != ""
}

// newDefaultConfig 설정 파일과 환경 변수가 덮어쓰기 전의 기본값
func newDefaultConfig() AppConfig {
	return AppConfig{
		Push: app.Options{
			LoginURI:   auth.DefaultLoginURL,
			APIBaseURI: app.DefaultAPIBaseURI,
			APIVersion: app.APIVersionV1,
			HTTP: transport.Config{
				Timeout: 30 * time.Second,
			},
		},
		Log: LogConfig{
			Dir: "logs",
		},
	}
}

// LogOptions 실행 모드별 기본 프로파일에 Log 설정을 덮어쓴 로그 옵션을 반환합니다.
func (c *AppConfig) LogOptions() applog.Options {
	var opts applog.Options
	if c.Debug {
		opts = applog.NewDevelopmentOptions(AppName)
	} else {
		opts = applog.NewProductionOptions(AppName)
	}

	if c.Log.Dir != "" {
		opts.Dir = c.Log.Dir
	}
	if c.Log.Level != "" {
		// Level은 validate 단계에서 이미 검증되었습니다.
		if lvl, err := applog.ParseLevel(c.Log.Level); err == nil {
			opts.Level = lvl
		}
	}
	if c.Log.MaxAge > 0 {
		opts.MaxAge = c.Log.MaxAge
	}
	if c.Log.MaxSizeMB > 0 {
		opts.MaxSizeMB = c.Log.MaxSizeMB
	}
	if c.Log.MaxBackups > 0 {
		opts.MaxBackups = c.Log.MaxBackups
	}
	if c.Log.Console {
		opts.EnableConsoleLog = true
	}

	return opts
}
