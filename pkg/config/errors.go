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

import "fmt"

// ConfigError reports a missing or malformed agent configuration.
// It is fatal to compilation.
type ConfigError struct {
	// Path is the configuration file, if known.
	Path string
	// Field is set when a required field is missing.
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	var msg string
	switch {
	case e.Field != "":
		msg = fmt.Sprintf("missing required field in %s: %s", AgentFileName, e.Field)
	case e.Err != nil:
		msg = e.Err.Error()
	default:
		msg = "invalid agent configuration"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, msg)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
