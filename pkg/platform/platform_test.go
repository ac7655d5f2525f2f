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

package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	flowstack "github.com/flowstack/flowstack-go"
	"github.com/flowstack/flowstack-go/pkg/config"
	"github.com/flowstack/flowstack-go/pkg/deployment"
	"github.com/flowstack/flowstack-go/pkg/httpclient"
	"github.com/flowstack/flowstack-go/pkg/observability"
	"github.com/flowstack/flowstack-go/pkg/tool"
)

func testPayload() *deployment.Payload {
	params := tool.NewParameterSchema()
	params.Properties["x"] = tool.PropertySchema{Type: tool.TypeInteger}
	params.Required = append(params.Required, "x")

	return &deployment.Payload{
		Agents: []deployment.AgentSpec{{
			Name:         "calc",
			SystemPrompt: "You are a calculator",
			Tools:        []string{"double"},
			Temperature:  0.7,
			Model:        config.DefaultModel,
		}},
		Tools: map[string]deployment.CompiledTool{
			"double": {
				Serialized:  "func double(x int) int { return 2 * x }",
				Description: "Double x",
				Parameters:  params,
			},
		},
	}
}

func TestDeploy(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/deploy", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get(httpclient.APIKeyHeader))
		assert.Equal(t, flowstack.UserAgent(), r.Header.Get("User-Agent"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		_, _ = w.Write([]byte(`{"deployment_id": "dep-42", "namespace": "calc-ns", "status": "deployed"}`))
	}))
	defer server.Close()

	result, err := New(server.URL, "key-1").Deploy(context.Background(), testPayload())
	require.NoError(t, err)

	assert.Equal(t, "dep-42", result.DeploymentID)
	assert.Equal(t, "calc-ns", result.Namespace)
	assert.Equal(t, "deployed", result.Status)

	require.Contains(t, received, "agents")
	require.Contains(t, received, "tools")
	agent := received["agents"].([]any)[0].(map[string]any)
	assert.Equal(t, "You are a calculator", agent["system_prompt"])
}

func TestDeploy_InvalidPayloadNotSent(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	p := testPayload()
	p.Agents = nil

	_, err := New(server.URL, "k").Deploy(context.Background(), p)
	var verr *deployment.PayloadValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 0, calls)
}

func TestDeploy_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Invalid API key"}`))
	}))
	defer server.Close()

	_, err := New(server.URL, "bad").Deploy(context.Background(), testPayload())

	var apiErr *httpclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestDeploy_RecordsSpan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"deployment_id": "dep-1", "namespace": "ns"}`))
	}))
	defer server.Close()

	exporter := tracetest.NewInMemoryExporter()
	tracer, err := observability.NewTracer(context.Background(),
		&observability.TracingConfig{Enabled: true}, observability.WithSpanExporter(exporter))
	require.NoError(t, err)
	defer tracer.Shutdown(context.Background())

	_, err = New(server.URL, "k", WithTracer(tracer)).Deploy(context.Background(), testPayload())
	require.NoError(t, err)
	require.NoError(t, tracer.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, observability.SpanDeploy, spans[0].Name)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "dep-1", attrs[observability.AttrDeploymentID])
	assert.Equal(t, "calc", attrs[observability.AttrAgentName])
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	}))
	defer server.Close()

	health, err := New(server.URL+"/", "k").Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health["status"])
}

func TestNewFromSettings(t *testing.T) {
	_, err := NewFromSettings(config.Settings{BaseURL: config.DefaultAPIURL})
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)

	c, err := NewFromSettings(config.Settings{APIKey: "k", BaseURL: "http://localhost:9000"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", c.http.BaseURL())
}
