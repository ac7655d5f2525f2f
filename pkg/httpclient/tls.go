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
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
)

// TLSConfig holds TLS options for self-hosted endpoints.
type TLSConfig struct {
	InsecureSkipVerify bool   // dev/test only
	CACertificate      string // PEM file path
}

// ConfigureTLS creates an http.Transport with the given TLS options.
func ConfigureTLS(config *TLSConfig) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}

	if config == nil {
		return transport, nil
	}

	if config.CACertificate != "" {
		caCert, err := os.ReadFile(config.CACertificate)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate from %s: %w", config.CACertificate, err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate from %s", config.CACertificate)
		}
		transport.TLSClientConfig.RootCAs = pool
	}

	transport.TLSClientConfig.InsecureSkipVerify = config.InsecureSkipVerify
	return transport, nil
}

// WithTransport replaces the round tripper of the underlying http.Client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.client.Transport = rt
	}
}
