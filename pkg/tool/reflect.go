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

package tool

import (
	"errors"
	"fmt"
	"go/ast"
	"strings"
)

// Reflect builds the tool metadata from the function signature and doc comment.
//
// Parameters are reported in declaration order. A leading context.Context is
// supplied by the runtime and left out of the schema. A parameter is required
// unless it is variadic or named in //flowstack:default.
//
// Description resolution: //flowstack:tool description, then the doc
// comment, then "Function <name>".
func Reflect(t *Tool) (*Metadata, error) {
	if t == nil {
		return nil, &MetadataExtractionError{Tool: "<nil>", Err: errors.New("no tool")}
	}
	if t.Decl == nil || t.Decl.Type == nil {
		return nil, &MetadataExtractionError{Tool: t.Name, Err: errors.New("no function declaration")}
	}

	dirs, err := parseDirectives(t.Decl.Doc)
	if err != nil {
		return nil, &MetadataExtractionError{Tool: t.Name, Err: err}
	}

	params := NewParameterSchema()
	seen := make(map[string]bool)

	if t.Decl.Type.Params != nil {
		for i, field := range t.Decl.Type.Params.List {
			if len(field.Names) == 0 {
				return nil, &MetadataExtractionError{
					Tool: t.Name,
					Err:  fmt.Errorf("parameter %d has no name", i+1),
				}
			}

			_, variadic := field.Type.(*ast.Ellipsis)
			schema := MapType(field.Type)

			for j, ident := range field.Names {
				if i == 0 && j == 0 && isContextType(field.Type) {
					continue
				}
				if ident.Name == "_" {
					return nil, &MetadataExtractionError{
						Tool: t.Name,
						Err:  fmt.Errorf("parameter %d is blank", i+1),
					}
				}

				seen[ident.Name] = true
				params.Properties[ident.Name] = schema
				if !variadic && !dirs.defaults[ident.Name] {
					params.Required = append(params.Required, ident.Name)
				}
			}
		}
	}

	for _, name := range dirs.defaultOrder {
		if !seen[name] {
			return nil, &MetadataExtractionError{
				Tool: t.Name,
				Err:  fmt.Errorf("default declared for unknown parameter %q", name),
			}
		}
	}

	return &Metadata{
		Name:        t.Name,
		Description: describe(t, dirs),
		Parameters:  params,
	}, nil
}

func describe(t *Tool, dirs *directives) string {
	if dirs.description != "" {
		return dirs.description
	}
	if t.Decl.Doc != nil {
		// Text drops //flowstack: and other directives.
		if doc := strings.TrimSpace(t.Decl.Doc.Text()); doc != "" {
			return doc
		}
	}
	return fmt.Sprintf("Function %s", t.Name)
}

func isContextType(expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "context" && sel.Sel.Name == "Context"
}
