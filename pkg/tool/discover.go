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
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SourceExt is the extension of tool source files.
const SourceExt = ".go"

// FileFailure records a tool file that could not be loaded.
type FileFailure struct {
	Path string
	Err  error
}

// Collision records a tool name declared in more than one file.
// Winner is the namespace whose declaration was kept.
type Collision struct {
	Name     string
	Previous string
	Winner   string
}

// Discovery is the result of scanning a tools directory.
type Discovery struct {
	// Tools in discovery order: files by name, then declaration order.
	Tools      []*Tool
	Failures   []FileFailure
	Collisions []Collision

	index map[string]int
}

// Lookup returns the tool with the given name.
func (d *Discovery) Lookup(name string) (*Tool, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.Tools[i], true
}

// Names returns tool names in discovery order.
func (d *Discovery) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.Tools))
	for i, t := range d.Tools {
		names[i] = t.Name
	}
	return names
}

func (d *Discovery) add(t *Tool) {
	if i, ok := d.index[t.Name]; ok {
		d.Collisions = append(d.Collisions, Collision{
			Name:     t.Name,
			Previous: d.Tools[i].Namespace,
			Winner:   t.Namespace,
		})
		d.Tools[i] = t
		return
	}
	d.index[t.Name] = len(d.Tools)
	d.Tools = append(d.Tools, t)
}

// Discover scans dir (non-recursively) for tool functions.
//
// A missing directory yields an empty Discovery. Files are visited in
// lexicographic order, so when two files declare the same function the one
// with the greater file name wins; the tool keeps the position of its first
// occurrence. A file that fails to read or parse is recorded in Failures and
// does not stop the scan.
func Discover(dir string) (*Discovery, error) {
	d := &Discovery{index: make(map[string]int)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return d, nil
		}
		return nil, fmt.Errorf("failed to list tools directory %s: %w", dir, err)
	}

	// os.ReadDir returns entries sorted by file name.
	for _, entry := range entries {
		if entry.IsDir() || !isToolFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		tools, err := LoadFile(path)
		if err != nil {
			d.Failures = append(d.Failures, FileFailure{Path: path, Err: err})
			continue
		}
		for _, t := range tools {
			d.add(t)
		}
	}

	return d, nil
}

func isToolFile(name string) bool {
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.HasSuffix(name, "_test"+SourceExt) {
		return false
	}
	return filepath.Ext(name) == SourceExt
}

// LoadFile parses one tool file into its own namespace.
func LoadFile(path string) ([]*Tool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	namespace := strings.TrimSuffix(filepath.Base(path), SourceExt)
	return ParseSource(namespace, path, src)
}

// ParseSource parses src and returns its public top-level functions.
//
// Only func declarations without a receiver are returned. Package-level
// variables bound to functions from other packages belong to another
// namespace and are ignored.
func ParseSource(namespace, path string, src []byte) ([]*Tool, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var tools []*Tool
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || isPrivate(fn.Name.Name) {
			continue
		}
		tools = append(tools, &Tool{
			Name:      fn.Name.Name,
			Namespace: namespace,
			Path:      path,
			Decl:      fn,
			fset:      fset,
			src:       src,
		})
	}

	return tools, nil
}

func isPrivate(name string) bool {
	return strings.HasPrefix(name, "_") || name == "init" || name == "main"
}
