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
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "github.com/flowstack/flowstack-go"

// Metrics records compile and HTTP metrics into a private Prometheus
// registry. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	compileDuration metric.Float64Histogram
	compiles        metric.Int64Counter
	compileErrors   metric.Int64Counter
	toolsCompiled   metric.Int64Counter
	toolsSkipped    metric.Int64Counter

	httpDuration metric.Float64Histogram
	httpRequests metric.Int64Counter
}

// NewMetrics creates the meter provider and instruments.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(meterName)

	m := &Metrics{registry: registry, provider: provider}

	if m.compileDuration, err = meter.Float64Histogram(
		"flowstack_compile_duration",
		metric.WithDescription("Project compilation duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create compile duration histogram: %w", err)
	}

	if m.compiles, err = meter.Int64Counter(
		"flowstack_compiles",
		metric.WithDescription("Compilations attempted"),
	); err != nil {
		return nil, fmt.Errorf("failed to create compiles counter: %w", err)
	}

	if m.compileErrors, err = meter.Int64Counter(
		"flowstack_compile_errors",
		metric.WithDescription("Compilations that produced no payload"),
	); err != nil {
		return nil, fmt.Errorf("failed to create compile errors counter: %w", err)
	}

	if m.toolsCompiled, err = meter.Int64Counter(
		"flowstack_tools_compiled",
		metric.WithDescription("Tools included in a payload"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tools compiled counter: %w", err)
	}

	if m.toolsSkipped, err = meter.Int64Counter(
		"flowstack_tools_skipped",
		metric.WithDescription("Tools dropped during compilation"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tools skipped counter: %w", err)
	}

	if m.httpDuration, err = meter.Float64Histogram(
		"flowstack_http_request_duration",
		metric.WithDescription("Preview server request duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http duration histogram: %w", err)
	}

	if m.httpRequests, err = meter.Int64Counter(
		"flowstack_http_requests",
		metric.WithDescription("Preview server requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http requests counter: %w", err)
	}

	return m, nil
}

// RecordCompile records one compilation of agent.
func (m *Metrics) RecordCompile(ctx context.Context, agent string, duration time.Duration, included, skipped int, err error) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("agent", agent))
	m.compileDuration.Record(ctx, duration.Seconds(), attrs)
	m.compiles.Add(ctx, 1, attrs)

	if err != nil {
		m.compileErrors.Add(ctx, 1, attrs)
		return
	}
	m.toolsCompiled.Add(ctx, int64(included), attrs)
	m.toolsSkipped.Add(ctx, int64(skipped), attrs)
}

// RecordHTTPRequest records one preview server request.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.httpDuration.Record(ctx, duration.Seconds(), attrs)
	m.httpRequests.Add(ctx, 1, attrs)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Shutdown stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
