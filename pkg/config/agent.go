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

package config

const (
	// DefaultModel is used when agent.yaml does not name a model.
	DefaultModel = "claude-3-sonnet"

	// DefaultTemperature is used when agent.yaml does not set a temperature.
	DefaultTemperature = 0.7

	// AgentFileName is the conventional name of the agent configuration file.
	AgentFileName = "agent.yaml"

	// ToolsDirName is the tools directory expected beside agent.yaml.
	ToolsDirName = "tools"
)

// AgentConfig is the declarative description of an agent, read from agent.yaml.
//
// Example:
//
//	name: calculator
//	instructions: You are a calculator.
//	model: claude-3-sonnet
//	temperature: 0.5
//	tools:
//	  multiply:
//	    description: Multiply numbers
//	    instructions: Use for multiplication
//	  divide: {}
type AgentConfig struct {
	// Name identifies the agent on the hosting service.
	Name string `yaml:"name" json:"name" jsonschema:"title=Agent Name,description=Name of the deployed agent,minLength=1"`

	// Instructions become the agent's system prompt.
	Instructions string `yaml:"instructions" json:"instructions" jsonschema:"title=Instructions,description=System prompt for the agent,minLength=1"`

	// Model selects the hosted model.
	// Default: claude-3-sonnet
	Model string `yaml:"model,omitempty" json:"model,omitempty" jsonschema:"title=Model,description=Hosted model identifier,default=claude-3-sonnet"`

	// Temperature is the sampling temperature.
	// Default: 0.7
	Temperature *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty" jsonschema:"title=Temperature,description=Sampling temperature,minimum=0,default=0.7"`

	// Provider is passed through untouched; the hosting service interprets it.
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty" jsonschema:"title=Provider,description=Model provider hint (not validated locally)"`

	// Tools is either a mapping of tool name to overrides or a list of tool
	// names. Empty means every discovered tool is included.
	Tools ToolOverrides `yaml:"tools,omitempty" json:"tools,omitempty" jsonschema:"title=Tools,description=Tool allow-list with optional per-tool overrides"`
}

// SetDefaults applies default values.
func (c *AgentConfig) SetDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature == nil {
		c.Temperature = Float64Ptr(DefaultTemperature)
	}
	if c.Tools == nil {
		c.Tools = ToolOverrides{}
	}
}

// Validate checks the mandatory fields.
func (c *AgentConfig) Validate() error {
	if c.Name == "" {
		return &ConfigError{Field: "name"}
	}
	if c.Instructions == "" {
		return &ConfigError{Field: "instructions"}
	}
	return nil
}

// TemperatureValue returns the configured temperature or the default.
func (c *AgentConfig) TemperatureValue() float64 {
	return Float64Value(c.Temperature, DefaultTemperature)
}
