// Package config hmspush CLI의 설정을 로드합니다.
//
// 설정은 다음 순서로 겹쳐 적용되며, 뒤의 계층이 앞의 값을 덮어씁니다.
//
//  1. 기본값 (newDefaultConfig)
//  2. 설정 파일 (.json, .yaml, .yml)
//  3. HMSPUSH_ 접두사를 가진 환경 변수 (계층 구분자: __, 예: HMSPUSH_PUSH__CLIENT_SECRET)
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/darkkaiser/hms-push/internal/pkg/validator"
	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 로그 파일명 등에 사용되는 애플리케이션 이름
	AppName = "hmspush"

	// DefaultFilename 설정 파일 경로가 주어지지 않았을 때 사용하는 파일명
	DefaultFilename = AppName + ".json"

	envPrefix = "HMSPUSH_"
)

// Load 기본 설정 파일을 읽어 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 설정 파일을 읽어 설정을 로드합니다. filename이 비어 있으면 파일 계층을 건너뛰고
// 기본값과 환경 변수만 사용합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(newDefaultConfig(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "기본 설정을 로드하지 못했습니다")
	}

	if filename != "" {
		parser, err := parserFor(filename)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(filename), parser); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, apperrors.Wrapf(err, apperrors.System, "설정 파일을 찾을 수 없습니다: '%s'", filename)
			}
			return nil, apperrors.Wrapf(err, apperrors.ParsingFailed, "설정 파일을 해석하지 못했습니다: '%s'", filename)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", normalizeEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수를 로드하지 못했습니다")
	}

	var cfg AppConfig
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidArgument, "설정 값을 구조체로 변환하지 못했습니다")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) validate() error {
	return validator.Check(c, "hmspush")
}

// normalizeEnvKey HMSPUSH_PUSH__CLIENT_ID 형태의 환경 변수 이름을 push.client_id 형태의 키로 변환합니다.
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

func parserFor(filename string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return json.Parser(), nil
	case ".yaml", ".yml":
		return yamlParser{}, nil
	default:
		return nil, apperrors.Newf(apperrors.InvalidArgument, "지원하지 않는 설정 파일 형식입니다: '%s' (.json, .yaml, .yml)", filename)
	}
}
