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

// Package platform ships compiled payloads to the FlowStack hosting service.
package platform

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	flowstack "github.com/flowstack/flowstack-go"
	"github.com/flowstack/flowstack-go/pkg/config"
	"github.com/flowstack/flowstack-go/pkg/deployment"
	"github.com/flowstack/flowstack-go/pkg/httpclient"
	"github.com/flowstack/flowstack-go/pkg/observability"
)

const (
	deployEndpoint = "deploy"
	healthEndpoint = "health"
)

// DeployResult is the hosting service's answer to a deployment.
type DeployResult struct {
	DeploymentID string `json:"deployment_id"`
	Namespace    string `json:"namespace"`
	Status       string `json:"status,omitempty"`
}

// Client talks to the deployment API.
type Client struct {
	http   *httpclient.Client
	logger *slog.Logger
	tracer *observability.Tracer
}

type options struct {
	httpOpts []httpclient.Option
	logger   *slog.Logger
	tracer   *observability.Tracer
}

type Option func(*options)

// WithHTTPOptions passes options through to the underlying HTTP client.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, opts...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithTracer(tracer *observability.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// New creates a client for baseURL authenticated with apiKey.
func New(baseURL, apiKey string, opts ...Option) *Client {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	httpOpts := append([]httpclient.Option{
		httpclient.WithAPIKey(apiKey),
		httpclient.WithUserAgent(flowstack.UserAgent()),
		httpclient.WithErrorPrefix("Deployment"),
	}, o.httpOpts...)

	return &Client{
		http:   httpclient.New(baseURL, httpOpts...),
		logger: o.logger,
		tracer: o.tracer,
	}
}

// NewFromSettings requires an API key and applies the remaining settings.
func NewFromSettings(s config.Settings, opts ...Option) (*Client, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	httpOpts, err := httpclient.SettingsOptions(s)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithHTTPOptions(httpOpts...)}, opts...)
	return New(s.BaseURL, s.APIKey, opts...), nil
}

// Deploy validates p and posts it to {base}/deploy.
func (c *Client) Deploy(ctx context.Context, p *deployment.Payload) (*DeployResult, error) {
	ctx, span := c.tracer.Start(ctx, observability.SpanDeploy)
	defer span.End()

	if err := deployment.ValidatePayload(p); err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("refusing to deploy invalid payload: %w", err)
	}
	if agent := p.Agent(); agent != nil {
		span.SetAttributes(attribute.String(observability.AttrAgentName, agent.Name))
	}

	var result DeployResult
	if err := c.http.DoJSON(ctx, http.MethodPost, deployEndpoint, nil, p, &result); err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("deployment failed: %w", err)
	}

	span.SetAttributes(attribute.String(observability.AttrDeploymentID, result.DeploymentID))
	c.logger.Debug("Deployment accepted", "deployment_id", result.DeploymentID, "namespace", result.Namespace)
	return &result, nil
}

// Health returns the service health document.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.http.DoJSON(ctx, http.MethodGet, healthEndpoint, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
