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

package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProvider_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\n"), 0o644))

	p, err := New(ProviderConfig{Path: path})
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, TypeFile, p.Type())
	data, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "name: a\n", string(data))
}

func TestFileProvider_LoadMissing(t *testing.T) {
	p, err := NewFileProvider(filepath.Join(t.TempDir(), "agent.yaml"))
	require.NoError(t, err)

	_, err = p.Load(context.Background())
	assert.Error(t, err)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(ProviderConfig{})
	assert.Error(t, err)

	_, err = New(ProviderConfig{Type: "consul", Path: "x"})
	assert.Error(t, err)
}

func TestNew_WatchDirs(t *testing.T) {
	dir := t.TempDir()
	tools := filepath.Join(dir, "tools")
	require.NoError(t, os.MkdirAll(tools, 0o755))

	p, err := New(ProviderConfig{Path: filepath.Join(dir, "agent.yaml"), WatchDirs: []string{tools}})
	require.NoError(t, err)
	defer p.Close()

	fp, ok := p.(*FileProvider)
	require.True(t, ok)
	assert.True(t, fp.relevant(filepath.Join(tools, "math.go")))
	assert.False(t, fp.relevant(filepath.Join(tools, "notes.txt")))
}

func TestFileProvider_Relevant(t *testing.T) {
	dir := t.TempDir()
	tools := filepath.Join(dir, "tools")
	config := filepath.Join(dir, "agent.yaml")

	p, err := NewFileProvider(config, WithWatchDir(tools))
	require.NoError(t, err)

	tests := []struct {
		name string
		want bool
	}{
		{config, true},
		{filepath.Join(dir, "other.yaml"), false},
		{filepath.Join(tools, "calc.go"), true},
		{filepath.Join(tools, ".calc.go.swp"), false},
		{filepath.Join(tools, "notes.txt"), false},
		{filepath.Join(tools, "nested", "calc.go"), false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.name), func(t *testing.T) {
			assert.Equal(t, tt.want, p.relevant(tt.name))
		})
	}
}

func TestFileProvider_WatchToolsDir(t *testing.T) {
	dir := t.TempDir()
	tools := filepath.Join(dir, "tools")
	require.NoError(t, os.MkdirAll(tools, 0o755))
	config := filepath.Join(dir, "agent.yaml")
	require.NoError(t, os.WriteFile(config, []byte("name: a\n"), 0o644))

	p, err := NewFileProvider(config, WithWatchDir(tools), WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := p.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(tools, "calc.go"), []byte("package tools\n"), 0o644))

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected change notification for tool file")
	}
}
