// Package flowstack turns a directory of Go tool functions plus an agent.yaml
// into a validated deployment payload for the FlowStack hosting service.
//
// FlowStack never compiles or runs tool code. Tools are plain top-level Go
// functions; their signatures are read with go/parser and their source text is
// shipped verbatim for remote execution.
//
// # Quick Start
//
// Install the CLI:
//
//	go install github.com/flowstack/flowstack-go/cmd/flowstack@latest
//
// Scaffold, build and deploy a project:
//
//	flowstack init my-agent
//	cd my-agent
//	flowstack build
//	FLOWSTACK_API_KEY=... flowstack deploy
//
// # Project Layout
//
//	my-agent/
//	  agent.yaml        name, instructions, model, temperature, tool overrides
//	  tools/*.go        one namespace per file, every public func is a tool
//	  .flowstack/       build cache (build.json)
//
// A tool may carry directives in its doc comment:
//
//	// Add two numbers
//	//flowstack:tool description="Add x and y"
//	//flowstack:default y=0
//	func add(x, y int) int { return x + y }
//
// # Using as Go Library
//
//	import (
//	    "github.com/flowstack/flowstack-go/pkg/deployment"
//	    "github.com/flowstack/flowstack-go/pkg/platform"
//	)
//
//	payload, report, err := deployment.NewCompiler().CompileDirectory(ctx, "my-agent")
//	if err != nil {
//	    return err
//	}
//	report.Log(slog.Default())
//	result, err := platform.New(baseURL, apiKey).Deploy(ctx, payload)
//
// # Packages
//
//   - pkg/tool: signature reflection, type mapping, source extraction, safety lint, discovery
//   - pkg/config: agent.yaml loading, tool overrides, .env files, SDK settings
//   - pkg/deployment: compiler, payload, payload validation, build cache
//   - pkg/platform: deployment transport
//   - pkg/datavault: per-account document store client
//   - pkg/scaffold: project templates for `flowstack init`
package flowstack
