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

import (
	"fmt"
	"reflect"
	"sort"
)

// ToolOverride adjusts the reflected metadata of one tool.
//
// Fields are pointers because an override applies whenever the key is
// present, even with an empty value.
type ToolOverride struct {
	// Description replaces the reflected description.
	Description *string `yaml:"description,omitempty" json:"description,omitempty" jsonschema:"title=Description,description=Replaces the description taken from the function"`

	// Instructions are appended to the description on a new line.
	Instructions *string `yaml:"instructions,omitempty" json:"instructions,omitempty" jsonschema:"title=Instructions,description=Extra usage guidance appended to the description"`
}

// Apply returns description with the override merged in.
func (o ToolOverride) Apply(description string) string {
	if o.Description != nil {
		description = *o.Description
	}
	if o.Instructions != nil {
		description += "\n" + *o.Instructions
	}
	return description
}

// ToolOverrides maps tool names to their overrides. It doubles as the tool
// allow-list: when non-empty, only the named tools are deployed.
type ToolOverrides map[string]ToolOverride

// Includes reports whether a tool named name is deployed. An empty set
// includes everything.
func (t ToolOverrides) Includes(name string) bool {
	if len(t) == 0 {
		return true
	}
	_, ok := t[name]
	return ok
}

// Names returns the configured tool names, sorted.
func (t ToolOverrides) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var toolOverridesType = reflect.TypeOf(ToolOverrides{})

// toolListHook normalizes a `tools:` sequence of names into ToolOverrides
// with empty overrides.
func toolListHook(from, to reflect.Type, data any) (any, error) {
	if to != toolOverridesType || from.Kind() != reflect.Slice {
		return data, nil
	}

	items, ok := data.([]any)
	if !ok {
		return data, nil
	}

	normalized := make(map[string]any, len(items))
	for i, item := range items {
		name, ok := item.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("tools[%d]: expected a tool name, got %v", i, item)
		}
		normalized[name] = map[string]any{}
	}
	return normalized, nil
}
