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

import "go/ast"

var identPrimitives = map[string]Primitive{
	"int":     TypeInteger,
	"int8":    TypeInteger,
	"int16":   TypeInteger,
	"int32":   TypeInteger,
	"int64":   TypeInteger,
	"uint":    TypeInteger,
	"uint8":   TypeInteger,
	"uint16":  TypeInteger,
	"uint32":  TypeInteger,
	"uint64":  TypeInteger,
	"uintptr": TypeInteger,
	"byte":    TypeInteger,
	"rune":    TypeInteger,
	"float32": TypeNumber,
	"float64": TypeNumber,
	"string":  TypeString,
	"bool":    TypeBoolean,
}

// database/sql nullable wrappers, keyed by selector name.
var sqlNullPrimitives = map[string]Primitive{
	"NullInt64":   TypeInteger,
	"NullInt32":   TypeInteger,
	"NullInt16":   TypeInteger,
	"NullByte":    TypeInteger,
	"NullFloat64": TypeNumber,
	"NullBool":    TypeBoolean,
	"NullString":  TypeString,
}

// MapType converts a parameter's type expression into a schema primitive.
//
// Optional wrappers (*T, sql.Null[T], sql.NullInt64, ...) are unwrapped and do
// not influence whether the parameter is required. Unknown or absent types map
// to string. MapType never fails.
func MapType(expr ast.Expr) PropertySchema {
	return PropertySchema{Type: mapPrimitive(expr)}
}

func mapPrimitive(expr ast.Expr) Primitive {
	switch t := expr.(type) {
	case nil:
		return TypeString

	case *ast.ParenExpr:
		return mapPrimitive(t.X)

	case *ast.StarExpr:
		return mapPrimitive(t.X)

	case *ast.IndexExpr:
		// sql.Null[T]
		if isSQLSelector(t.X, "Null") {
			return mapPrimitive(t.Index)
		}
		return TypeString

	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok && pkg.Name == "sql" {
			if p, ok := sqlNullPrimitives[t.Sel.Name]; ok {
				return p
			}
		}
		return TypeString

	case *ast.ArrayType, *ast.Ellipsis:
		return TypeArray

	case *ast.MapType:
		return TypeObject

	case *ast.StructType:
		if t.Fields == nil || len(t.Fields.List) == 0 {
			return TypeNull
		}
		return TypeObject

	case *ast.Ident:
		if p, ok := identPrimitives[t.Name]; ok {
			return p
		}
		return TypeString

	default:
		return TypeString
	}
}

func isSQLSelector(expr ast.Expr, name string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "sql" && sel.Sel.Name == name
}
