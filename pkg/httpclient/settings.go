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

package httpclient

import (
	"github.com/flowstack/flowstack-go/pkg/config"
)

// SettingsOptions translates SDK settings into client options: API key,
// request pacing and a custom CA bundle.
func SettingsOptions(s config.Settings) ([]Option, error) {
	opts := []Option{WithAPIKey(s.APIKey)}

	if s.RateLimit > 0 {
		opts = append(opts, WithRateLimit(s.RateLimit, 1))
	}

	if s.CACertificate != "" {
		transport, err := ConfigureTLS(&TLSConfig{CACertificate: s.CACertificate})
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithTransport(transport))
	}

	return opts, nil
}
