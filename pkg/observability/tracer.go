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

// Package observability sets up OpenTelemetry tracing for compile, deploy
// and document store calls.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps an OpenTelemetry tracer. A nil *Tracer is valid and
// produces no-op spans.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer

	exporter sdktrace.SpanExporter
	output   io.Writer
}

// TracerOption configures the Tracer.
type TracerOption func(*Tracer)

// WithSpanExporter replaces the configured exporter.
func WithSpanExporter(exporter sdktrace.SpanExporter) TracerOption {
	return func(t *Tracer) {
		t.exporter = exporter
	}
}

// WithOutput sets where the stdout exporter writes. Default: stderr, so
// traces never mix with command output.
func WithOutput(w io.Writer) TracerOption {
	return func(t *Tracer) {
		t.output = w
	}
}

// NewTracer creates a Tracer from configuration. When tracing is disabled
// the returned Tracer is backed by a no-op provider.
func NewTracer(ctx context.Context, cfg *TracingConfig, opts ...TracerOption) (*Tracer, error) {
	if cfg == nil || !cfg.Enabled {
		return &Tracer{tracer: noop.NewTracerProvider().Tracer(DefaultServiceName)}, nil
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tracing config: %w", err)
	}

	t := &Tracer{output: os.Stderr}
	for _, opt := range opts {
		opt(t)
	}

	if t.exporter == nil {
		exporter, err := createExporter(ctx, cfg, t.output)
		if err != nil {
			return nil, fmt.Errorf("failed to create exporter: %w", err)
		}
		t.exporter = exporter
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SamplingRate)),
		sdktrace.WithBatcher(t.exporter),
	)
	t.tracer = t.provider.Tracer(cfg.ServiceName)

	otel.SetTracerProvider(t.provider)
	return t, nil
}

func createExporter(ctx context.Context, cfg *TracingConfig, out io.Writer) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
	case ExporterOTLP:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithTimeout(cfg.Timeout),
		}
		if cfg.IsInsecure() {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
		}
		return otlptracegrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported exporter: %s", cfg.Exporter)
	}
}

// Start begins a new span with the given name.
func (t *Tracer) Start(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if t == nil || t.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, spanName)
	}
	return t.tracer.Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// RecordError marks the span as failed.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorType, fmt.Sprintf("%T", err)))
}

// Shutdown flushes pending spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// ForceFlush exports all ended spans without shutting down.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.ForceFlush(ctx)
}
