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
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNilTracerIsNoop(t *testing.T) {
	var tracer *Tracer

	ctx, span := tracer.Start(context.Background(), SpanCompile)
	defer span.End()

	assert.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, tracer.Shutdown(context.Background()))
}

func TestNewTracer_Disabled(t *testing.T) {
	tracer, err := NewTracer(context.Background(), &TracingConfig{})
	require.NoError(t, err)

	_, span := tracer.Start(context.Background(), SpanDeploy)
	span.End()
	assert.False(t, span.IsRecording())
}

func TestNewTracer_RecordsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewTracer(context.Background(), &TracingConfig{Enabled: true}, WithSpanExporter(exporter))
	require.NoError(t, err)
	defer tracer.Shutdown(context.Background())

	_, span := tracer.Start(context.Background(), SpanCompileTool, attribute.String(AttrToolName, "multiply"))
	RecordError(span, errors.New("boom"))
	span.End()

	require.NoError(t, tracer.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanCompileTool, spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.String(AttrToolName, "multiply"))
}

func TestNewTracer_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	tracer, err := NewTracer(context.Background(), &TracingConfig{Enabled: true, Exporter: ExporterStdout}, WithOutput(&buf))
	require.NoError(t, err)

	_, span := tracer.Start(context.Background(), SpanValidatePayload)
	span.End()
	require.NoError(t, tracer.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), SpanValidatePayload)
}

func TestTracingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TracingConfig
		wantErr bool
	}{
		{"disabled skips checks", TracingConfig{Exporter: "zipkin"}, false},
		{"stdout", TracingConfig{Enabled: true, Exporter: ExporterStdout, SamplingRate: 1}, false},
		{"otlp", TracingConfig{Enabled: true, Exporter: ExporterOTLP, Endpoint: "localhost:4317", SamplingRate: 1}, false},
		{"unknown exporter", TracingConfig{Enabled: true, Exporter: "zipkin", SamplingRate: 1}, true},
		{"bad sampling", TracingConfig{Enabled: true, Exporter: ExporterStdout, SamplingRate: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTracingConfig_SetDefaults(t *testing.T) {
	cfg := TracingConfig{}
	cfg.SetDefaults()

	assert.Equal(t, DefaultServiceName, cfg.ServiceName)
	assert.Equal(t, ExporterStdout, cfg.Exporter)
	assert.Equal(t, DefaultOTLPEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultSamplingRate, cfg.SamplingRate)
	assert.True(t, cfg.IsInsecure())
}
