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

// Package tool discovers and describes agent tools written as plain Go functions.
//
// Tools live in a directory of Go source files. Every file is parsed with
// go/parser and inspected purely from its syntax tree: nothing is compiled
// or executed during discovery.
//
// # Writing Tools
//
// Any top-level function whose name does not start with an underscore is a
// tool. Its doc comment becomes the tool description, and its parameters
// become the JSON schema the agent sees:
//
//	// Multiply returns the product of x and y.
//	func multiply(x float64, y float64) float64 {
//	    return x * y
//	}
//
// # Directives
//
// Comment directives attached to the function adjust the metadata:
//
//	//flowstack:tool description="Divide x by y"
//	//flowstack:default y=1
//	func divide(x float64, y float64) float64 { ... }
//
// The description from //flowstack:tool wins over the doc comment. Parameters
// named in //flowstack:default are optional and never appear in "required".
//
// # Pipeline
//
//	Discover  -> []*Tool              (per file, sorted by name)
//	ExtractSource(t)   -> source text (directives and comments stripped)
//	ValidateSource(..) -> denylist scan + parse check
//	Reflect(t)         -> Metadata{Name, Description, Parameters}
package tool

import (
	"go/ast"
	"go/token"
)

// Primitive is one of the closed set of JSON schema types a parameter can map to.
type Primitive string

const (
	TypeInteger Primitive = "integer"
	TypeNumber  Primitive = "number"
	TypeString  Primitive = "string"
	TypeBoolean Primitive = "boolean"
	TypeArray   Primitive = "array"
	TypeObject  Primitive = "object"
	TypeNull    Primitive = "null"
)

// PropertySchema describes a single parameter.
type PropertySchema struct {
	Type Primitive `json:"type" jsonschema:"enum=integer,enum=number,enum=string,enum=boolean,enum=array,enum=object,enum=null"`
}

// ParameterSchema is the JSON-schema-like description of a tool's parameters.
type ParameterSchema struct {
	Type       string                    `json:"type" jsonschema:"enum=object"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required"`
}

// NewParameterSchema returns an empty object schema.
// Properties and Required are never nil so they encode as {} and [].
func NewParameterSchema() ParameterSchema {
	return ParameterSchema{
		Type:       "object",
		Properties: make(map[string]PropertySchema),
		Required:   []string{},
	}
}

// Metadata is the reflected description of a tool.
type Metadata struct {
	Name        string
	Description string
	Parameters  ParameterSchema
}

// Tool is a function found in a tools directory.
//
// Namespace is the declaring file name without its extension. A Tool built
// by hand (no backing file) has no source and fails ExtractSource.
type Tool struct {
	Name      string
	Namespace string
	Path      string
	Decl      *ast.FuncDecl

	fset *token.FileSet
	src  []byte
}

// HasSource reports whether the tool is backed by source text.
func (t *Tool) HasSource() bool {
	return t != nil && t.Decl != nil && t.fset != nil && len(t.src) > 0
}
