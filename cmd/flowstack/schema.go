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
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/flowstack/flowstack-go/pkg/config"
	"github.com/flowstack/flowstack-go/pkg/deployment"
)

// SchemaCmd prints a JSON Schema generated from the Go types.
type SchemaCmd struct {
	Payload bool `help:"Describe the deployment payload instead of agent.yaml."`
	Compact bool `short:"c" help:"Compact JSON output (no indentation)."`
}

func (c *SchemaCmd) Run(a *app) error {
	schema := c.generate()

	enc := json.NewEncoder(a.out)
	if !c.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(schema); err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	return nil
}

func (c *SchemaCmd) generate() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	if c.Payload {
		schema := reflector.Reflect(&deployment.Payload{})
		schema.ID = "https://flowstack.fun/schemas/payload.json"
		schema.Title = "FlowStack Deployment Payload"
		schema.Description = "Compiled agent and tool definitions sent to the hosting service"
		return schema
	}

	schema := reflector.Reflect(&config.AgentConfig{})
	schema.ID = "https://flowstack.fun/schemas/agent.json"
	schema.Title = "FlowStack Agent Configuration"
	schema.Description = "Schema of agent.yaml"
	schema.Examples = []any{
		map[string]any{
			"name":         "calculator",
			"instructions": "You are a calculator.",
			"model":        config.DefaultModel,
			"temperature":  config.DefaultTemperature,
			"tools": map[string]any{
				"multiply": map[string]any{"description": "Multiply numbers"},
			},
		},
	}
	return schema
}
