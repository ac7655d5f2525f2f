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

// Package deployment turns an agent configuration and a directory of tool
// functions into a validated deployment payload.
//
// Compilation moves through fixed stages:
//
//	ConfigLoaded -> ToolsDiscovered -> ToolsFiltered -> ToolsCompiled -> PayloadAssembled
//
// A tool that fails to compile is skipped and recorded in the Report; only
// configuration errors abort compilation.
package deployment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/flowstack/flowstack-go/pkg/config"
	"github.com/flowstack/flowstack-go/pkg/observability"
	"github.com/flowstack/flowstack-go/pkg/tool"
)

// Compiler builds deployment payloads. It holds no per-compilation state
// and may be reused.
type Compiler struct {
	logger  *slog.Logger
	tracer  *observability.Tracer
	metrics *observability.Metrics
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithTracer records compilation spans on tracer.
func WithTracer(tracer *observability.Tracer) Option {
	return func(c *Compiler) {
		c.tracer = tracer
	}
}

// WithMetrics records compile counts and durations on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Compiler) {
		c.metrics = m
	}
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileDirectory compiles a project laid out as
//
//	projectDir/
//	├── agent.yaml
//	└── tools/*.go
func (c *Compiler) CompileDirectory(ctx context.Context, projectDir string) (*Payload, *Report, error) {
	configPath := filepath.Join(projectDir, config.AgentFileName)
	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("no %s found in %s: %w", config.AgentFileName, projectDir, err)
		}
		return nil, nil, fmt.Errorf("failed to stat %s: %w", configPath, err)
	}
	return c.CompileFile(ctx, configPath, filepath.Join(projectDir, config.ToolsDirName))
}

// CompileFile compiles the agent described by the config file at path.
// An empty toolsDir defaults to the tools directory beside the file.
func (c *Compiler) CompileFile(ctx context.Context, path, toolsDir string) (*Payload, *Report, error) {
	cfg, err := config.LoadAgentConfig(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if toolsDir == "" {
		toolsDir = filepath.Join(filepath.Dir(path), config.ToolsDirName)
	}
	return c.Compile(ctx, cfg, toolsDir)
}

// Compile assembles the payload for cfg from the tools in toolsDir. An
// empty toolsDir compiles an agent without tools.
//
// The returned error is either a *config.ConfigError or a failure to list
// toolsDir. Per-tool failures never abort compilation; they are reported
// in the Report. The payload is not validated; see ValidatePayload.
func (c *Compiler) Compile(ctx context.Context, cfg *config.AgentConfig, toolsDir string) (payload *Payload, report *Report, err error) {
	start := time.Now()
	report = &Report{Stage: StageStarted}
	defer func() {
		name := ""
		if cfg != nil {
			name = cfg.Name
		}
		c.metrics.RecordCompile(ctx, name, time.Since(start), len(report.Included), len(report.Skipped), err)
	}()

	ctx, span := c.tracer.Start(ctx, observability.SpanCompile)
	defer func() {
		span.SetAttributes(
			attribute.String(observability.AttrStage, report.Stage.String()),
			attribute.Int(observability.AttrToolCount, len(report.Included)),
			attribute.Int(observability.AttrSkipCount, len(report.Skipped)),
		)
		span.End()
	}()

	if cfg == nil {
		err := &config.ConfigError{Err: errors.New("no agent configuration")}
		observability.RecordError(span, err)
		return nil, report, err
	}
	agent := *cfg
	agent.SetDefaults()
	if err := agent.Validate(); err != nil {
		observability.RecordError(span, err)
		return nil, report, err
	}
	span.SetAttributes(attribute.String(observability.AttrAgentName, agent.Name))
	report.Stage = StageConfigLoaded

	discovery := &tool.Discovery{}
	if toolsDir != "" {
		d, err := tool.Discover(toolsDir)
		if err != nil {
			observability.RecordError(span, err)
			return nil, report, err
		}
		discovery = d
	}
	report.Discovered = len(discovery.Tools)
	report.FileFailures = discovery.Failures
	report.Collisions = discovery.Collisions
	report.Stage = StageToolsDiscovered
	c.logger.Debug("Discovered tools", "dir", toolsDir, "count", report.Discovered)

	selected := c.filter(&agent, discovery, report)
	report.Stage = StageToolsFiltered

	payload = &Payload{
		Agents: []AgentSpec{{
			Name:         agent.Name,
			SystemPrompt: agent.Instructions,
			Tools:        []string{},
			Temperature:  agent.TemperatureValue(),
			Model:        agent.Model,
		}},
		Tools: make(map[string]CompiledTool),
	}

	for _, t := range selected {
		outcome := c.compileTool(ctx, t, agent.Tools[t.Name])
		if !outcome.OK() {
			report.Skipped = append(report.Skipped, *outcome.Skip)
			continue
		}
		payload.Tools[t.Name] = *outcome.Compiled
		payload.Agents[0].Tools = append(payload.Agents[0].Tools, t.Name)
	}
	report.Included = append([]string(nil), payload.Agents[0].Tools...)
	report.Stage = StageToolsCompiled

	report.Stage = StagePayloadAssembled
	c.logger.Debug("Assembled payload",
		"agent", agent.Name, "tools", len(report.Included), "skipped", len(report.Skipped))

	return payload, report, nil
}

// filter applies the allow-list, preserving discovery order.
func (c *Compiler) filter(agent *config.AgentConfig, d *tool.Discovery, report *Report) []*tool.Tool {
	var selected []*tool.Tool
	for _, t := range d.Tools {
		if agent.Tools.Includes(t.Name) {
			selected = append(selected, t)
		} else {
			report.Excluded = append(report.Excluded, t.Name)
		}
	}

	for _, name := range agent.Tools.Names() {
		if _, ok := d.Lookup(name); !ok {
			report.Missing = append(report.Missing, name)
		}
	}
	return selected
}

func (c *Compiler) compileTool(ctx context.Context, t *tool.Tool, override config.ToolOverride) ToolOutcome {
	_, span := c.tracer.Start(ctx, observability.SpanCompileTool,
		attribute.String(observability.AttrToolName, t.Name),
		attribute.String(observability.AttrToolNamespace, t.Namespace),
	)
	defer span.End()

	outcome := CompileTool(t, override)
	if outcome.Skip != nil {
		observability.RecordError(span, outcome.Skip.Err)
	}
	return outcome
}

// CompileTool runs the safety screen, source extraction and reflection
// for one tool and merges the configuration override.
func CompileTool(t *tool.Tool, override config.ToolOverride) ToolOutcome {
	skip := func(err error) ToolOutcome {
		return ToolOutcome{
			Name: t.Name,
			Skip: &SkipReason{Tool: t.Name, Namespace: t.Namespace, Err: err},
		}
	}

	source, err := tool.Validate(t)
	if err != nil {
		return skip(err)
	}

	meta, err := tool.Reflect(t)
	if err != nil {
		return skip(err)
	}

	return ToolOutcome{
		Name: t.Name,
		Compiled: &CompiledTool{
			Serialized:  source,
			Description: override.Apply(meta.Description),
			Parameters:  meta.Parameters,
		},
	}
}
