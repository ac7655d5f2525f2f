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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"calc.go": `package tools

import "strings"

// Multiply two numbers
func multiply(x, y float64) float64 { return x * y }

func divide(x, y float64) float64 { return x / y }

func _helper() {}

func init() {}

type Acc struct{}

// Methods are not tools.
func (a *Acc) Add(x int) {}

// Re-exported functions live in another namespace.
var Upper = strings.ToUpper
`,
		"_private.go":   "package tools\n\nfunc hidden() {}\n",
		".hidden.go":    "package tools\n\nfunc dotted() {}\n",
		"calc_test.go":  "package tools\n\nfunc testOnly() {}\n",
		"README.md":     "# tools\n",
		"nested/sub.go": "package sub\n\nfunc deep() {}\n",
	})

	d, err := Discover(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"multiply", "divide"}, d.Names())
	assert.Empty(t, d.Failures)
	assert.Empty(t, d.Collisions)

	mul, ok := d.Lookup("multiply")
	require.True(t, ok)
	assert.Equal(t, "calc", mul.Namespace)
	assert.Equal(t, filepath.Join(dir, "calc.go"), mul.Path)
	assert.True(t, mul.HasSource())

	_, ok = d.Lookup("hidden")
	assert.False(t, ok)
}

func TestDiscover_MissingDirectory(t *testing.T) {
	d, err := Discover(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, d.Tools)
	assert.Empty(t, d.Names())
}

func TestDiscover_PathIsAFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Discover(path)
	assert.Error(t, err)
}

func TestDiscover_CollisionLastFileWins(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.go": "package tools\n\n// From a\nfunc shared() {}\n\nfunc onlyA() {}\n",
		"b.go": "package tools\n\n// From b\nfunc shared(x int) {}\n",
	})

	d, err := Discover(dir)
	require.NoError(t, err)

	// shared keeps the slot of its first occurrence.
	assert.Equal(t, []string{"shared", "onlyA"}, d.Names())

	shared, ok := d.Lookup("shared")
	require.True(t, ok)
	assert.Equal(t, "b", shared.Namespace)

	require.Len(t, d.Collisions, 1)
	assert.Equal(t, Collision{Name: "shared", Previous: "a", Winner: "b"}, d.Collisions[0])

	meta, err := Reflect(shared)
	require.NoError(t, err)
	assert.Equal(t, "From b", meta.Description)
}

func TestDiscover_BrokenFileIsRecorded(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"broken.go": "package tools\n\nfunc oops( {\n",
		"good.go":   "package tools\n\nfunc fine() {}\n",
	})

	d, err := Discover(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"fine"}, d.Names())
	require.Len(t, d.Failures, 1)
	assert.Equal(t, filepath.Join(dir, "broken.go"), d.Failures[0].Path)
	assert.Error(t, d.Failures[0].Err)
}

func TestLoadFile_NamespaceFromFileName(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"weather.go": "package tools\n\nfunc forecast(city string) string { return city }\n",
	})

	tools, err := LoadFile(filepath.Join(dir, "weather.go"))
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "weather", tools[0].Namespace)
	assert.Equal(t, "forecast", tools[0].Name)
}

func TestIsToolFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"calc.go", true},
		{"_calc.go", false},
		{".calc.go", false},
		{"calc_test.go", false},
		{"calc.py", false},
		{"calc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isToolFile(tt.name))
		})
	}
}

func TestDiscoveryNilSafe(t *testing.T) {
	var d *Discovery
	_, ok := d.Lookup("x")
	assert.False(t, ok)
	assert.Nil(t, d.Names())
}
