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
	"go/parser"
	"go/token"
	"strings"
)

// ForbiddenConstruct is one denylist entry.
type ForbiddenConstruct struct {
	// Pattern is matched case-insensitively as a substring.
	Pattern string
	Kind    string
}

// Denylist is checked in order; the first match is reported.
//
// This is a best-effort lint, not a sandbox. Substring matching is trivially
// evaded (for example by building a name from string pieces), and it also
// rejects harmless code such as regexp.MustCompile. Tool source is executed
// by the remote sandbox, which is the real isolation boundary.
var Denylist = []ForbiddenConstruct{
	{Pattern: "exec", Kind: "dynamic-exec"},
	{Pattern: "eval", Kind: "dynamic-eval"},
	{Pattern: "plugin.open", Kind: "dynamic-import"},
	{Pattern: "compile", Kind: "dynamic-compile"},
	{Pattern: "open", Kind: "direct-file-open"},
}

// ValidateSource screens tool source against the Denylist and checks that it
// parses as a Go function declaration.
func ValidateSource(name, source string) error {
	if strings.TrimSpace(source) == "" {
		return &InvalidSourceError{Tool: name, Err: errors.New("empty source")}
	}

	lower := strings.ToLower(source)
	for _, c := range Denylist {
		if strings.Contains(lower, c.Pattern) {
			return &UnsafeToolError{Tool: name, Construct: c.Pattern, Kind: c.Kind}
		}
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name+".go", "package tool\n\n"+source, parser.SkipObjectResolution)
	if err != nil {
		return &InvalidSourceError{Tool: name, Err: err}
	}
	if len(file.Decls) == 0 {
		return &InvalidSourceError{Tool: name, Err: errors.New("no declarations")}
	}

	return nil
}

// Validate extracts the tool source and screens it with ValidateSource.
// The validated source is returned so callers do not extract twice.
func Validate(t *Tool) (string, error) {
	source, err := ExtractSource(t)
	if err != nil {
		return "", err
	}
	if err := ValidateSource(t.Name, source); err != nil {
		return "", err
	}
	return source, nil
}
