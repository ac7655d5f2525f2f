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

package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	flowstack "github.com/flowstack/flowstack-go"
	"github.com/flowstack/flowstack-go/pkg/config"
	"github.com/flowstack/flowstack-go/pkg/deployment"
	"github.com/flowstack/flowstack-go/pkg/observability"
)

// app carries what every command needs.
type app struct {
	ctx     context.Context
	out     io.Writer
	tracer  *observability.Tracer
	metrics *observability.Metrics
}

func newApp(ctx context.Context, out io.Writer, tracing *observability.TracingConfig) (*app, error) {
	a := &app{ctx: ctx, out: out}
	if tracing == nil {
		return a, nil
	}

	tracer, err := observability.NewTracer(ctx, tracing)
	if err != nil {
		return nil, err
	}
	a.tracer = tracer
	return a, nil
}

// loadEnv loads .env files from dirs. A malformed file is reported but does
// not stop the command.
func loadEnv(dirs ...string) {
	if err := config.LoadEnvFiles(dirs...); err != nil {
		slog.Warn("Failed to load env file", "error", err)
	}
}

func (a *app) compiler() *deployment.Compiler {
	return deployment.NewCompiler(
		deployment.WithLogger(slog.Default()),
		deployment.WithTracer(a.tracer),
		deployment.WithMetrics(a.metrics),
	)
}

// Close flushes pending spans and stops the meter provider.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		slog.Warn("Failed to flush traces", "error", err)
	}
	if err := a.metrics.Shutdown(ctx); err != nil {
		slog.Warn("Failed to stop metrics", "error", err)
	}
}

func (c *CLI) tracingConfig() *observability.TracingConfig {
	if !c.Trace {
		return nil
	}
	return &observability.TracingConfig{
		Enabled:        true,
		Exporter:       c.TraceExporter,
		Endpoint:       c.TraceEndpoint,
		ServiceVersion: flowstack.Version,
	}
}
