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

// Command flowstack scaffolds, builds and deploys FlowStack agents.
//
// Usage:
//
//	flowstack init my-agent
//	flowstack build --path my-agent --watch
//	flowstack build --path my-agent --serve :8090
//	flowstack deploy --path my-agent
//	flowstack validate my-agent/.flowstack/build.json
//	flowstack schema --payload
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	flowstack "github.com/flowstack/flowstack-go"
	"github.com/flowstack/flowstack-go/pkg/config"
)

// CLI defines the command-line interface.
type CLI struct {
	Init     InitCmd     `cmd:"" help:"Create a new agent project."`
	Build    BuildCmd    `cmd:"" help:"Compile and validate a project."`
	Deploy   DeployCmd   `cmd:"" help:"Build a project and deploy it."`
	Validate ValidateCmd `cmd:"" help:"Validate a saved deployment payload."`
	Schema   SchemaCmd   `cmd:"" help:"Print the JSON Schema of agent.yaml or of the payload."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`

	LogLevel  string `help:"Log level (debug, info, warn, error). Default: $LOG_LEVEL or info."`
	LogFile   string `help:"Log file path (empty = stderr). Default: $LOG_FILE."`
	LogFormat string `help:"Log format (simple, verbose, json). Default: $LOG_FORMAT or simple."`

	Trace         bool   `help:"Record OpenTelemetry spans for compile and deploy."`
	TraceExporter string `help:"Span exporter (stdout, otlp)." enum:"stdout,otlp" default:"stdout"`
	TraceEndpoint string `help:"OTLP gRPC endpoint." default:"localhost:4317"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Fprintln(a.out, flowstack.GetVersion().String())
	return nil
}

func main() {
	envErr := config.LoadEnvFiles(".")

	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("flowstack"),
		kong.Description("FlowStack - build and deploy tool-using AI agents"),
		kong.UsageOnError(),
	)

	cleanup, err := initLogger(cli.LogLevel, cli.LogFile, cli.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}
	if envErr != nil {
		slog.Warn("Failed to load env file", "error", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, os.Stdout, cli.tracingConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracing: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	err = kctx.Run(a)
	kctx.FatalIfErrorf(err)
}
