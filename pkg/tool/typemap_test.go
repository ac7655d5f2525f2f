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
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// paramType parses `func f(x <typ>)` and returns the type expression of x.
func paramType(t *testing.T, typ string) ast.Expr {
	t.Helper()
	src := "package p\n\nfunc f(x " + typ + ") {}\n"
	file, err := parser.ParseFile(token.NewFileSet(), "f.go", src, 0)
	require.NoError(t, err)
	fn := file.Decls[0].(*ast.FuncDecl)
	return fn.Type.Params.List[0].Type
}

func TestMapType(t *testing.T) {
	tests := []struct {
		typ  string
		want Primitive
	}{
		{"int", TypeInteger},
		{"int64", TypeInteger},
		{"uint8", TypeInteger},
		{"byte", TypeInteger},
		{"rune", TypeInteger},
		{"float32", TypeNumber},
		{"float64", TypeNumber},
		{"string", TypeString},
		{"bool", TypeBoolean},
		{"struct{}", TypeNull},

		// optional wrappers unwrap to the inner type
		{"*int", TypeInteger},
		{"**float64", TypeNumber},
		{"sql.Null[int]", TypeInteger},
		{"sql.Null[bool]", TypeBoolean},
		{"sql.NullInt64", TypeInteger},
		{"sql.NullFloat64", TypeNumber},
		{"sql.NullBool", TypeBoolean},
		{"sql.NullString", TypeString},

		// containers ignore their element type
		{"[]int", TypeArray},
		{"[]map[string]any", TypeArray},
		{"[3]string", TypeArray},
		{"...int", TypeArray},
		{"map[string]any", TypeObject},
		{"map[string][]int", TypeObject},
		{"struct{ A int }", TypeObject},
		{"*[]string", TypeArray},

		// unknown types default to string
		{"any", TypeString},
		{"interface{}", TypeString},
		{"time.Duration", TypeString},
		{"Celsius", TypeString},
		{"func()", TypeString},
		{"chan int", TypeString},
		{"Box[int]", TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got := MapType(paramType(t, tt.typ))
			assert.Equal(t, tt.want, got.Type)
		})
	}
}

func TestMapType_MissingAnnotationDefaultsToString(t *testing.T) {
	assert.Equal(t, PropertySchema{Type: TypeString}, MapType(nil))
}

func TestMapType_OptionalIntegerIsPlainInteger(t *testing.T) {
	got := MapType(paramType(t, "*int"))
	assert.Equal(t, PropertySchema{Type: TypeInteger}, got)
}
