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
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/flowstack/flowstack-go/pkg/observability"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	rec := get(t, New("").Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_PayloadBeforeAndAfterBuild(t *testing.T) {
	s := New("")
	h := s.Handler()

	rec := get(t, h, "/payload")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.SetPayload("calc", []byte(`{"agents":[],"tools":{}}`))
	rec = get(t, h, "/payload")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"agents":[],"tools":{}}`, rec.Body.String())
}

func TestServer_StatusKeepsLastGoodBuild(t *testing.T) {
	s := New("")
	h := s.Handler()

	var st status
	require.NoError(t, json.Unmarshal(get(t, h, "/status").Body.Bytes(), &st))
	assert.False(t, st.Ready)
	assert.Nil(t, st.BuiltAt)

	s.SetPayload("calc", []byte(`{}`))
	s.SetError(errors.New("agent.yaml: missing name"))

	st = status{}
	require.NoError(t, json.Unmarshal(get(t, h, "/status").Body.Bytes(), &st))
	assert.True(t, st.Ready)
	assert.Equal(t, "calc", st.Agent)
	assert.Equal(t, "agent.yaml: missing name", st.Error)
	assert.NotNil(t, st.BuiltAt)
	assert.Equal(t, http.StatusOK, get(t, h, "/payload").Code)

	s.SetError(nil)
	st = status{}
	require.NoError(t, json.Unmarshal(get(t, h, "/status").Body.Bytes(), &st))
	assert.Empty(t, st.Error)
}

func TestServer_MetricsUseRoutePattern(t *testing.T) {
	metrics, err := observability.NewMetrics()
	require.NoError(t, err)
	defer metrics.Shutdown(context.Background())

	h := New("", WithMetrics(metrics)).Handler()
	get(t, h, "/payload")
	get(t, h, "/healthz")

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, "flowstack_http_requests_total")
	assert.Contains(t, out, `route="/payload"`)
	assert.Contains(t, out, `route="/healthz"`)
}

func TestServer_MetricsDisabled(t *testing.T) {
	rec := get(t, New("").Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RecordsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := observability.NewTracer(context.Background(),
		&observability.TracingConfig{Enabled: true}, observability.WithSpanExporter(exporter))
	require.NoError(t, err)
	defer tracer.Shutdown(context.Background())

	get(t, New("", WithTracer(tracer)).Handler(), "/healthz")
	require.NoError(t, tracer.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, observability.SpanHTTPRequest, spans[0].Name)
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New("")
	s.SetPayload("calc", []byte(`{"ok":true}`))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/payload")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ListenAndServeBadAddress(t *testing.T) {
	err := New("not-an-address").ListenAndServe(context.Background())
	assert.Error(t, err)
}
