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
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// APIKeyEnvVar holds the hosting service credential.
	APIKeyEnvVar = "FLOWSTACK_API_KEY"
	// APIURLEnvVar overrides the hosting service base URL.
	APIURLEnvVar = "FLOWSTACK_API_URL"
	// CACertEnvVar points at a PEM bundle for self-hosted endpoints.
	CACertEnvVar = "FLOWSTACK_CA_CERT"
	// RateLimitEnvVar caps outgoing requests per second (0 disables pacing).
	RateLimitEnvVar = "FLOWSTACK_RATE_LIMIT"
	// DefaultAPIURL is the hosted service endpoint.
	DefaultAPIURL = "https://api.flowstack.fun"
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New(APIKeyEnvVar + " environment variable is required")

// Settings are the SDK connection settings for the hosting service.
type Settings struct {
	APIKey        string
	BaseURL       string
	CACertificate string
	RateLimit     float64
}

// LoadSettings reads Settings from the environment, applying defaults.
// A malformed FLOWSTACK_RATE_LIMIT is an error.
func LoadSettings() (Settings, error) {
	s := Settings{
		APIKey:        strings.TrimSpace(os.Getenv(APIKeyEnvVar)),
		BaseURL:       strings.TrimSpace(os.Getenv(APIURLEnvVar)),
		CACertificate: strings.TrimSpace(os.Getenv(CACertEnvVar)),
	}
	if raw := strings.TrimSpace(os.Getenv(RateLimitEnvVar)); raw != "" {
		limit, err := strconv.ParseFloat(raw, 64)
		if err != nil || limit < 0 {
			return s, fmt.Errorf("invalid %s %q: must be a non-negative number", RateLimitEnvVar, raw)
		}
		s.RateLimit = limit
	}
	s.SetDefaults()
	return s, nil
}

// SetDefaults applies default values.
func (s *Settings) SetDefaults() {
	if s.BaseURL == "" {
		s.BaseURL = DefaultAPIURL
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
}

// Validate checks that a credential is present.
func (s Settings) Validate() error {
	if s.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
