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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureTLS(t *testing.T) {
	transport, err := ConfigureTLS(nil)
	require.NoError(t, err)
	assert.False(t, transport.TLSClientConfig.InsecureSkipVerify)

	transport, err = ConfigureTLS(&TLSConfig{InsecureSkipVerify: true})
	require.NoError(t, err)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
}

func TestConfigureTLS_BadCertificate(t *testing.T) {
	_, err := ConfigureTLS(&TLSConfig{CACertificate: filepath.Join(t.TempDir(), "missing.pem")})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o644))
	_, err = ConfigureTLS(&TLSConfig{CACertificate: path})
	assert.ErrorContains(t, err, "failed to parse CA certificate")
}

func TestWithTransport(t *testing.T) {
	transport, err := ConfigureTLS(nil)
	require.NoError(t, err)

	c := New("https://x", WithTransport(transport))
	assert.Same(t, transport, c.client.Transport)
}
