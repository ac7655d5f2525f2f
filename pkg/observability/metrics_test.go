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

package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_RecordCompile(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	defer m.Shutdown(context.Background())

	ctx := context.Background()
	m.RecordCompile(ctx, "calc", 20*time.Millisecond, 4, 1, nil)
	m.RecordCompile(ctx, "calc", time.Millisecond, 0, 0, errors.New("boom"))

	out := scrape(t, m)
	assert.Contains(t, out, "flowstack_compiles")
	assert.Contains(t, out, "flowstack_compile_errors")
	assert.Contains(t, out, "flowstack_tools_compiled")
	assert.Contains(t, out, "flowstack_compile_duration")
	assert.Contains(t, out, `agent="calc"`)
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	defer m.Shutdown(context.Background())

	m.RecordHTTPRequest(context.Background(), http.MethodGet, "/payload", http.StatusOK, time.Millisecond)

	out := scrape(t, m)
	assert.Contains(t, out, "flowstack_http_requests")
	assert.Contains(t, out, `route="/payload"`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordCompile(context.Background(), "a", time.Second, 1, 0, nil)
	m.RecordHTTPRequest(context.Background(), "GET", "/", 200, time.Second)
	assert.NoError(t, m.Shutdown(context.Background()))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
