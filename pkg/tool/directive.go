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
	"fmt"
	"go/ast"
	"strconv"
	"strings"
	"unicode"
)

const directivePrefix = "//flowstack:"

const (
	directiveTool    = "tool"
	directiveDefault = "default"
)

// directives holds the //flowstack: annotations attached to a function.
type directives struct {
	description string
	defaults    map[string]bool
	// order in which defaults were declared, for error messages
	defaultOrder []string
}

// parseDirectives reads //flowstack: lines from a doc comment group.
func parseDirectives(doc *ast.CommentGroup) (*directives, error) {
	d := &directives{defaults: make(map[string]bool)}
	if doc == nil {
		return d, nil
	}

	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		line := strings.TrimPrefix(c.Text, directivePrefix)
		name, rest, _ := strings.Cut(line, " ")

		args, err := parseDirectiveArgs(rest)
		if err != nil {
			return nil, fmt.Errorf("//flowstack:%s: %w", name, err)
		}

		switch name {
		case directiveTool:
			for _, a := range args {
				switch a.key {
				case "description":
					d.description = a.value
				default:
					return nil, fmt.Errorf("//flowstack:tool: unknown argument %q", a.key)
				}
			}
		case directiveDefault:
			if len(args) == 0 {
				return nil, fmt.Errorf("//flowstack:default: no parameters named")
			}
			for _, a := range args {
				if !d.defaults[a.key] {
					d.defaultOrder = append(d.defaultOrder, a.key)
				}
				d.defaults[a.key] = true
			}
		default:
			return nil, fmt.Errorf("unknown directive //flowstack:%s", name)
		}
	}

	return d, nil
}

type directiveArg struct {
	key   string
	value string
}

// parseDirectiveArgs splits `a=1 b="two words" c` into key/value pairs.
func parseDirectiveArgs(s string) ([]directiveArg, error) {
	var args []directiveArg
	s = strings.TrimSpace(s)

	for s != "" {
		end := strings.IndexFunc(s, func(r rune) bool { return r == '=' || unicode.IsSpace(r) })
		if end == -1 {
			args = append(args, directiveArg{key: s})
			break
		}
		key := s[:end]
		if key == "" {
			return nil, fmt.Errorf("malformed argument near %q", s)
		}
		s = s[end:]

		if s[0] != '=' {
			args = append(args, directiveArg{key: key})
			s = strings.TrimSpace(s)
			continue
		}
		s = s[1:]

		var value string
		if strings.HasPrefix(s, `"`) || strings.HasPrefix(s, "`") {
			quoted, err := strconv.QuotedPrefix(s)
			if err != nil {
				return nil, fmt.Errorf("unterminated value for %s", key)
			}
			value, _ = strconv.Unquote(quoted)
			s = s[len(quoted):]
		} else {
			vEnd := strings.IndexFunc(s, unicode.IsSpace)
			if vEnd == -1 {
				vEnd = len(s)
			}
			value = s[:vEnd]
			s = s[vEnd:]
		}

		args = append(args, directiveArg{key: key, value: value})
		s = strings.TrimSpace(s)
	}

	return args, nil
}
