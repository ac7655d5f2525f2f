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

package deployment

import (
	"encoding/json"
	"fmt"

	"github.com/flowstack/flowstack-go/pkg/tool"
)

// Payload is the deployment document accepted by the hosting service.
type Payload struct {
	Agents []AgentSpec             `json:"agents" jsonschema:"required,minItems=1"`
	Tools  map[string]CompiledTool `json:"tools" jsonschema:"required"`
}

// AgentSpec is the agent entry of a Payload.
type AgentSpec struct {
	Name         string `json:"name" jsonschema:"required"`
	SystemPrompt string `json:"system_prompt" jsonschema:"required"`
	// Tools lists the compiled tool names in discovery order.
	Tools       []string `json:"tools" jsonschema:"required"`
	Temperature float64  `json:"temperature"`
	Model       string   `json:"model"`
}

// CompiledTool is one tool entry of a Payload.
type CompiledTool struct {
	// Serialized is the tool's Go source, starting at its func keyword.
	Serialized  string               `json:"serialized" jsonschema:"required"`
	Description string               `json:"description" jsonschema:"required"`
	Parameters  tool.ParameterSchema `json:"parameters" jsonschema:"required"`
}

// JSON returns the indented wire form of the payload.
func (p *Payload) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return data, nil
}

// Agent returns the first (and only) agent, or nil.
func (p *Payload) Agent() *AgentSpec {
	if p == nil || len(p.Agents) == 0 {
		return nil
	}
	return &p.Agents[0]
}
