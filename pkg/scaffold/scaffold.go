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

// Package scaffold writes the starter layout created by `flowstack init`.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/flowstack/flowstack-go/pkg/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const defaultInstructions = `You are a helpful AI assistant.

## Your Capabilities
- Answer questions accurately
- Help with various tasks
- Use available tools when needed

## Guidelines
- Be helpful and professional
- Provide clear explanations
- Ask for clarification when needed`

const defaultProvider = "bedrock"

// ErrProjectExists is returned when the target already holds an agent.yaml.
var ErrProjectExists = errors.New("project already exists")

// Options controls project creation.
type Options struct {
	// Name is the project directory name and the agent name.
	Name string
	// Path is the parent directory. Default: current directory.
	Path string
	// Force overwrites an existing project.
	Force bool
	// APIURL is written to .env.example. Default: config.DefaultAPIURL.
	APIURL string
}

// Result lists what Create wrote.
type Result struct {
	Dir   string
	Files []string
}

type file struct {
	name     string
	template string
	perm     os.FileMode
}

var templateFiles = []file{
	{filepath.Join(config.ToolsDirName, "calculator.go"), "calculator.go.tmpl", 0o644},
	{".env.example", "env.example.tmpl", 0o644},
	{".gitignore", "gitignore.tmpl", 0o644},
	{"README.md", "README.md.tmpl", 0o644},
}

// Create writes a new project under opts.Path/opts.Name.
func Create(opts Options) (*Result, error) {
	if err := validateName(opts.Name); err != nil {
		return nil, err
	}
	if opts.Path == "" {
		opts.Path = "."
	}
	if opts.APIURL == "" {
		opts.APIURL = config.DefaultAPIURL
	}

	dir, err := filepath.Abs(filepath.Join(opts.Path, opts.Name))
	if err != nil {
		return nil, err
	}

	agentPath := filepath.Join(dir, config.AgentFileName)
	if _, err := os.Stat(agentPath); err == nil && !opts.Force {
		return nil, fmt.Errorf("%w: %s", ErrProjectExists, agentPath)
	}

	if err := os.MkdirAll(filepath.Join(dir, config.ToolsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}

	result := &Result{Dir: dir}

	agentYAML, err := AgentYAML(opts.Name)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(agentPath, agentYAML, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", config.AgentFileName, err)
	}
	result.Files = append(result.Files, config.AgentFileName)

	for _, f := range templateFiles {
		data, err := render(f.template, opts)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), data, f.perm); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		result.Files = append(result.Files, f.name)
	}

	return result, nil
}

// AgentYAML renders the starter agent.yaml for name.
func AgentYAML(name string) ([]byte, error) {
	cfg := config.AgentConfig{
		Name:         name,
		Instructions: defaultInstructions,
		Model:        config.DefaultModel,
		Provider:     defaultProvider,
		Temperature:  config.Float64Ptr(config.DefaultTemperature),
		Tools: config.ToolOverrides{
			"add":      {Instructions: config.StringPtr("Use this for any math operations")},
			"subtract": {},
			"multiply": {},
			"divide":   {Description: config.StringPtr("Divide x by y; fails when y is zero")},
		},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", config.AgentFileName, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(name string, opts Options) ([]byte, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("project name is required")
	case name == "." || name == "..":
		return fmt.Errorf("invalid project name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("project name %q must not contain path separators", name)
	}
	return nil
}
