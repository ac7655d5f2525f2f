// Copyright 2025 The FlowStack Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/flowstack/flowstack-go/pkg/config/provider"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Loader loads an agent configuration from a Provider.
type Loader struct {
	provider provider.Provider
}

// NewLoader creates a Loader with the given provider.
func NewLoader(p provider.Provider) *Loader {
	return &Loader{provider: p}
}

// Load reads, parses, and validates the configuration.
func (l *Loader) Load(ctx context.Context) (*AgentConfig, error) {
	data, err := l.provider.Load(ctx)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return ParseAgentYAML(data)
}

// LoadAgentConfig reads agent.yaml at path.
func LoadAgentConfig(ctx context.Context, path string) (*AgentConfig, error) {
	p, err := provider.New(provider.ProviderConfig{Path: path})
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer p.Close()

	cfg, err := NewLoader(p).Load(ctx)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Path == "" {
			cfgErr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// ParseAgentYAML parses an in-memory agent configuration.
//
// Environment references (${VAR}, ${VAR:-default}, $VAR) in string values
// are expanded before decoding. A `tools` list is normalized to a mapping
// with empty overrides. Defaults are applied and required fields checked.
func ParseAgentYAML(data []byte) (*AgentConfig, error) {
	rawMap, err := parseBytes(data)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to parse config: %w", err)}
	}

	cfg := &AgentConfig{}
	if err := decodeConfig(expandEnvVars(rawMap), cfg); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to decode config: %w", err)}
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseBytes parses raw bytes into a map.
// Supports YAML (primary) and JSON (fallback).
func parseBytes(data []byte) (map[string]any, error) {
	var result map[string]any

	if err := yaml.Unmarshal(data, &result); err == nil {
		return result, nil
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse as YAML or JSON: %w", err)
	}

	return result, nil
}

// decodeConfig decodes a map into an AgentConfig using mapstructure.
func decodeConfig(input map[string]any, output *AgentConfig) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			toolListHook,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}

	return nil
}

// expandEnvVars recursively expands ${VAR} and $VAR patterns in a map.
func expandEnvVars(input map[string]any) map[string]any {
	result := make(map[string]any, len(input))
	for k, v := range input {
		result[k] = expandValue(v)
	}
	return result
}

func expandValue(v any) any {
	switch val := v.(type) {
	case string:
		return expandEnvString(val)
	case map[string]any:
		return expandEnvVars(val)
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = expandValue(item)
		}
		return result
	default:
		return v
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default}, and $VAR
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

func expandEnvString(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") {
			inner := match[2 : len(match)-1]

			if name, def, ok := strings.Cut(inner, ":-"); ok {
				if val := os.Getenv(name); val != "" {
					return val
				}
				return def
			}

			return os.Getenv(inner)
		}

		return os.Getenv(match[1:])
	})
}
