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
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PayloadValidationError names the first contract violation found.
type PayloadValidationError struct {
	// Path locates the offending field, e.g. "agents[0].name".
	Path    string
	Message string
	Err     error
}

func (e *PayloadValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PayloadValidationError) Unwrap() error {
	return e.Err
}

var (
	requiredAgentFields = []string{"name", "system_prompt", "tools"}
	requiredToolFields  = []string{"serialized", "description", "parameters"}
)

// agentSchema and parametersSchema check field types once the required
// fields are known to be present.
const agentSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "system_prompt": {"type": "string"},
    "tools": {"type": "array", "items": {"type": "string"}},
    "temperature": {"type": "number"},
    "model": {"type": "string"}
  }
}`

const parametersSchema = `{
  "type": "object",
  "required": ["type", "properties"],
  "properties": {
    "type": {"const": "object"},
    "properties": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "type": {"enum": ["integer", "number", "string", "boolean", "array", "object", "null"]}
        }
      }
    },
    "required": {"type": "array", "items": {"type": "string"}}
  }
}`

var (
	contractOnce       sync.Once
	contractAgent      *jsonschema.Schema
	contractParameters *jsonschema.Schema
	contractErr        error
)

func contractSchemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	contractOnce.Do(func() {
		contractAgent, contractErr = compileSchema("agent.json", []byte(agentSchema))
		if contractErr != nil {
			return
		}
		contractParameters, contractErr = compileSchema("parameters.json", []byte(parametersSchema))
	})
	return contractAgent, contractParameters, contractErr
}

func compileSchema(url string, raw []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", url, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return compiled, nil
}

// ValidatePayload checks p against the hosting service contract.
func ValidatePayload(p *Payload) error {
	if p == nil {
		return &PayloadValidationError{Message: "payload is nil"}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return &PayloadValidationError{Message: "payload cannot be encoded", Err: err}
	}
	return ValidateJSON(data)
}

// ValidateJSON checks an encoded payload, such as a saved build file.
func ValidateJSON(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &PayloadValidationError{Message: "payload is not valid JSON", Err: err}
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return &PayloadValidationError{Message: "payload must be a JSON object"}
	}
	return ValidateDocument(m)
}

// ValidateDocument checks a decoded payload.
//
// Checks run in a fixed order and the first failure is returned:
//  1. agents is present and is a non-empty list
//  2. tools is present and is an object
//  3. every agent has name, system_prompt and tools
//  4. every tool (by name) has serialized, description and parameters
//  5. field types, and each tool's parameters form a valid JSON Schema
//
// The document is not modified.
func ValidateDocument(doc map[string]any) error {
	rawAgents, ok := doc["agents"]
	if !ok {
		return &PayloadValidationError{Path: "agents", Message: "Payload missing 'agents' field"}
	}
	agents, ok := rawAgents.([]any)
	if !ok {
		return &PayloadValidationError{Path: "agents", Message: "'agents' must be a list"}
	}
	if len(agents) == 0 {
		return &PayloadValidationError{Path: "agents", Message: "'agents' must not be empty"}
	}

	rawTools, ok := doc["tools"]
	if !ok {
		return &PayloadValidationError{Path: "tools", Message: "Payload missing 'tools' field"}
	}
	tools, ok := rawTools.(map[string]any)
	if !ok {
		return &PayloadValidationError{Path: "tools", Message: "'tools' must be an object"}
	}

	for i, rawAgent := range agents {
		path := fmt.Sprintf("agents[%d]", i)
		agent, ok := rawAgent.(map[string]any)
		if !ok {
			return &PayloadValidationError{Path: path, Message: fmt.Sprintf("Agent %d must be an object", i)}
		}
		for _, field := range requiredAgentFields {
			if _, ok := agent[field]; !ok {
				return &PayloadValidationError{
					Path:    path + "." + field,
					Message: "Agent missing required field: " + field,
				}
			}
		}
	}

	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := "tools." + name
		entry, ok := tools[name].(map[string]any)
		if !ok {
			return &PayloadValidationError{Path: path, Message: fmt.Sprintf("Tool %s must be an object", name)}
		}
		for _, field := range requiredToolFields {
			if _, ok := entry[field]; !ok {
				return &PayloadValidationError{
					Path:    path + "." + field,
					Message: fmt.Sprintf("Tool %s missing field: %s", name, field),
				}
			}
		}
	}

	return validateTypes(agents, tools, names)
}

func validateTypes(agents []any, tools map[string]any, names []string) error {
	agentContract, paramsContract, err := contractSchemas()
	if err != nil {
		return &PayloadValidationError{Message: "payload contract unavailable", Err: err}
	}

	for i, agent := range agents {
		if err := agentContract.Validate(agent); err != nil {
			return &PayloadValidationError{
				Path:    fmt.Sprintf("agents[%d]", i),
				Message: fmt.Sprintf("Agent %d is malformed", i),
				Err:     leafError(err),
			}
		}
	}

	for _, name := range names {
		entry := tools[name].(map[string]any)
		path := "tools." + name

		for _, field := range []string{"serialized", "description"} {
			if _, ok := entry[field].(string); !ok {
				return &PayloadValidationError{
					Path:    path + "." + field,
					Message: fmt.Sprintf("Tool %s field %s must be a string", name, field),
				}
			}
		}

		params := entry["parameters"]
		if err := paramsContract.Validate(params); err != nil {
			return &PayloadValidationError{
				Path:    path + ".parameters",
				Message: fmt.Sprintf("Tool %s has malformed parameters", name),
				Err:     leafError(err),
			}
		}

		raw, err := json.Marshal(params)
		if err != nil {
			return &PayloadValidationError{Path: path + ".parameters", Message: "parameters cannot be encoded", Err: err}
		}
		if _, err := compileSchema("tool-parameters.json", raw); err != nil {
			return &PayloadValidationError{
				Path:    path + ".parameters",
				Message: fmt.Sprintf("Tool %s parameters are not a valid JSON Schema", name),
				Err:     err,
			}
		}
	}

	return nil
}

// leafError reduces a schema validation error to its most specific cause.
func leafError(err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	loc := strings.TrimPrefix(verr.InstanceLocation, "/")
	if loc == "" {
		return fmt.Errorf("%s", verr.Message)
	}
	return fmt.Errorf("%s: %s", loc, verr.Message)
}
