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
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/flowstack/flowstack-go/pkg/config"
	"github.com/flowstack/flowstack-go/pkg/config/provider"
	"github.com/flowstack/flowstack-go/pkg/deployment"
	"github.com/flowstack/flowstack-go/pkg/observability"
	"github.com/flowstack/flowstack-go/pkg/server"
)

const descriptionPreview = 50

// BuildCmd compiles a project and caches the payload.
type BuildCmd struct {
	Path   string `short:"p" help:"Project directory." default:"." type:"path"`
	Watch  bool   `short:"w" help:"Rebuild whenever agent.yaml or a tool file changes."`
	Output string `short:"o" help:"Write the payload here instead of .flowstack/build.json." type:"path"`
	Serve  string `help:"Serve the latest build, health and metrics on this address while watching (implies --watch)." placeholder:"ADDR"`
}

func (c *BuildCmd) Run(a *app) error {
	loadEnv(c.Path, ".")

	if !c.watching() {
		_, err := a.build(c.Path, c.Output)
		return err
	}
	if c.Serve == "" {
		_ = a.rebuild(c.Path, c.Output, nil)
		return c.watch(a.ctx, a, nil)
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		return err
	}
	a.metrics = metrics
	srv := server.New(c.Serve,
		server.WithLogger(slog.Default()),
		server.WithTracer(a.tracer),
		server.WithMetrics(metrics),
	)
	_ = a.rebuild(c.Path, c.Output, srv)

	g, ctx := errgroup.WithContext(a.ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	g.Go(func() error {
		return c.watch(ctx, a, srv)
	})
	return g.Wait()
}

func (c *BuildCmd) watching() bool {
	return c.Watch || c.Serve != ""
}

func (c *BuildCmd) watch(ctx context.Context, a *app, srv *server.Server) error {
	p, err := provider.New(provider.ProviderConfig{
		Path:      filepath.Join(c.Path, config.AgentFileName),
		WatchDirs: []string{filepath.Join(c.Path, config.ToolsDirName)},
	})
	if err != nil {
		return err
	}
	defer p.Close()

	changes, err := p.Watch(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nWatching for changes (Ctrl+C to stop)...")
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			fmt.Fprintln(a.out, "\nChange detected, rebuilding...")
			_ = a.rebuild(c.Path, c.Output, srv)
		}
	}
}

// rebuild runs build, logs failures and publishes the outcome to srv
// when one is running.
func (a *app) rebuild(dir, output string, srv *server.Server) error {
	payload, err := a.build(dir, output)
	if err != nil {
		slog.Error("Build failed", "error", err)
		if srv != nil {
			srv.SetError(err)
		}
		return err
	}
	if srv == nil {
		return nil
	}
	data, err := payload.JSON()
	if err != nil {
		srv.SetError(err)
		return err
	}
	srv.SetPayload(payload.Agents[0].Name, data)
	return nil
}

// build compiles dir, validates the payload and writes it to output (or the
// project build cache when output is empty).
func (a *app) build(dir, output string) (*deployment.Payload, error) {
	payload, report, err := a.compiler().CompileDirectory(a.ctx, dir)
	if err != nil {
		return nil, err
	}
	report.Log(slog.Default())

	if err := deployment.ValidatePayload(payload); err != nil {
		return nil, fmt.Errorf("payload validation failed: %w", err)
	}

	path, err := writePayload(dir, output, payload)
	if err != nil {
		return nil, err
	}

	printBuildSummary(a.out, payload)
	fmt.Fprintf(a.out, "\nBuild output saved to %s\n", displayPath(dir, path))
	return payload, nil
}

func writePayload(dir, output string, payload *deployment.Payload) (string, error) {
	if output == "" {
		return deployment.WriteBuild(dir, payload)
	}
	data, err := payload.JSON()
	if err != nil {
		return "", err
	}
	return output, deployment.WritePayloadFile(output, data)
}

func printBuildSummary(w io.Writer, payload *deployment.Payload) {
	agent := payload.Agent()
	if agent == nil {
		return
	}

	fmt.Fprintln(w, "Build successful!")
	fmt.Fprintf(w, "\nAgent: %s\n", agent.Name)
	fmt.Fprintf(w, "Model: %s\n", agent.Model)
	fmt.Fprintf(w, "Tools: %d functions\n", len(payload.Tools))

	if len(agent.Tools) == 0 {
		return
	}
	fmt.Fprintln(w, "\nCompiled tools:")
	for _, name := range agent.Tools {
		fmt.Fprintf(w, "  - %s: %s\n", name, preview(payload.Tools[name].Description))
	}
}

// preview shortens s to descriptionPreview runes on its first line.
func preview(s string) string {
	truncated := false
	for i, r := range s {
		if r == '\n' {
			s, truncated = s[:i], true
			break
		}
	}
	if utf8.RuneCountInString(s) > descriptionPreview {
		s, truncated = string([]rune(s)[:descriptionPreview]), true
	}
	if truncated {
		return s + "..."
	}
	return s
}

func displayPath(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
