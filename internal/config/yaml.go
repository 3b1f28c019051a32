package config

import (
	"gopkg.in/yaml.v3"
)

// yamlParser gopkg.in/yaml.v3 기반의 koanf.Parser 구현체
type yamlParser struct{}

func (yamlParser) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func (yamlParser) Marshal(o map[string]any) ([]byte, error) {
	return yaml.Marshal(o)
}
