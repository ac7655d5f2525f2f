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
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustParse parses a tools file body and returns its tools by name.
func mustParse(t *testing.T, body string) map[string]*Tool {
	t.Helper()
	tools, err := ParseSource("calc", "calc.go", []byte("package tools\n\n"+body))
	require.NoError(t, err)
	out := make(map[string]*Tool, len(tools))
	for _, tl := range tools {
		out[tl.Name] = tl
	}
	return out
}

func TestReflect_Basic(t *testing.T) {
	tools := mustParse(t, `
// Add two numbers together
func add(x float64, y float64) float64 {
	return x + y
}
`)

	meta, err := Reflect(tools["add"])
	require.NoError(t, err)

	assert.Equal(t, "add", meta.Name)
	assert.Equal(t, "Add two numbers together", meta.Description)
	assert.Equal(t, "object", meta.Parameters.Type)
	assert.Equal(t, map[string]PropertySchema{
		"x": {Type: TypeNumber},
		"y": {Type: TypeNumber},
	}, meta.Parameters.Properties)
	assert.Equal(t, []string{"x", "y"}, meta.Parameters.Required)
}

func TestReflect_DescriptionResolution(t *testing.T) {
	tools := mustParse(t, `
//flowstack:tool description="Decorated description"
// Doc comment that loses to the directive.
func decorated() {}

// Documented only.
//
// Second paragraph.
func documented() {}

func bare() {}

//flowstack:tool description=""
// Falls back to the doc.
func emptyOverride() {}
`)

	tests := []struct {
		name string
		want string
	}{
		{"decorated", "Decorated description"},
		{"documented", "Documented only.\n\nSecond paragraph."},
		{"bare", "Function bare"},
		{"emptyOverride", "Falls back to the doc."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := Reflect(tools[tt.name])
			require.NoError(t, err)
			assert.Equal(t, tt.want, meta.Description)
		})
	}
}

func TestReflect_RequiredFollowsDefaultsOnly(t *testing.T) {
	tools := mustParse(t, `
//flowstack:default limit=10 verbose
func search(query string, limit *int, verbose bool, tags ...string) []string {
	return nil
}
`)

	meta, err := Reflect(tools["search"])
	require.NoError(t, err)

	// *int stays integer even though it is optional; only the default matters.
	assert.Equal(t, TypeInteger, meta.Parameters.Properties["limit"].Type)
	assert.Equal(t, TypeBoolean, meta.Parameters.Properties["verbose"].Type)
	assert.Equal(t, TypeArray, meta.Parameters.Properties["tags"].Type)
	assert.Equal(t, []string{"query"}, meta.Parameters.Required)
}

func TestReflect_PointerWithoutDefaultIsRequired(t *testing.T) {
	tools := mustParse(t, `func lookup(id *int) {}`)

	meta, err := Reflect(tools["lookup"])
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, meta.Parameters.Required)
	assert.Equal(t, PropertySchema{Type: TypeInteger}, meta.Parameters.Properties["id"])
}

func TestReflect_SkipsLeadingContext(t *testing.T) {
	tools := mustParse(t, `func fetch(ctx context.Context, url string, n, m int) {}`)

	meta, err := Reflect(tools["fetch"])
	require.NoError(t, err)

	assert.NotContains(t, meta.Parameters.Properties, "ctx")
	assert.Equal(t, []string{"url", "n", "m"}, meta.Parameters.Required)
	assert.Equal(t, TypeInteger, meta.Parameters.Properties["m"].Type)
}

func TestReflect_NoParameters(t *testing.T) {
	tools := mustParse(t, `func now() string { return "" }`)

	meta, err := Reflect(tools["now"])
	require.NoError(t, err)
	assert.Empty(t, meta.Parameters.Properties)
	assert.NotNil(t, meta.Parameters.Required)
	assert.Empty(t, meta.Parameters.Required)
}

func TestReflect_Errors(t *testing.T) {
	tools := mustParse(t, `
func unnamed(int, string) {}

func blank(_ int) {}

//flowstack:default missing
func unknownDefault(x int) {}

//flowstack:optional x
func unknownDirective(x int) {}

//flowstack:tool description="unterminated
func badQuote() {}
`)

	for _, name := range []string{"unnamed", "blank", "unknownDefault", "unknownDirective", "badQuote"} {
		t.Run(name, func(t *testing.T) {
			_, err := Reflect(tools[name])
			require.Error(t, err)

			var metaErr *MetadataExtractionError
			require.True(t, errors.As(err, &metaErr))
			assert.Equal(t, name, metaErr.Tool)
		})
	}
}

func TestReflect_HandBuiltToolWithoutDeclaration(t *testing.T) {
	_, err := Reflect(&Tool{Name: "ghost"})

	var metaErr *MetadataExtractionError
	require.True(t, errors.As(err, &metaErr))
	assert.Contains(t, err.Error(), "ghost")
}

func TestReflect_HandBuiltDeclarationNeedsNoSource(t *testing.T) {
	decl := &ast.FuncDecl{
		Name: ast.NewIdent("ping"),
		Type: &ast.FuncType{Params: &ast.FieldList{List: []*ast.Field{
			{Names: []*ast.Ident{ast.NewIdent("host")}, Type: ast.NewIdent("string")},
		}}},
	}

	meta, err := Reflect(&Tool{Name: "ping", Decl: decl})
	require.NoError(t, err)
	assert.Equal(t, "Function ping", meta.Description)
	assert.Equal(t, []string{"host"}, meta.Parameters.Required)
}
