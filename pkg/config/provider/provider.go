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

// Package provider defines the config source abstraction.
//
// Providers load the agent configuration and signal when it, or the
// tool sources it depends on, change.
package provider

import (
	"context"
	"fmt"
)

// Type identifies the config source type.
type Type string

const (
	TypeFile Type = "file"
)

// Provider abstracts config sources.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	// Type returns the provider type for logging/debugging.
	Type() Type

	// Load reads raw config bytes from the source.
	Load(ctx context.Context) ([]byte, error)

	// Watch starts watching for changes and signals via the returned channel.
	// Cancel the context to stop watching.
	// Returns nil channel if watching is not supported.
	Watch(ctx context.Context) (<-chan struct{}, error)

	// Close releases any resources held by the provider.
	Close() error
}

// ProviderConfig configures provider creation.
type ProviderConfig struct {
	Type Type

	// Path is the agent config file.
	Path string

	// WatchDirs are extra directories whose source files trigger a change.
	WatchDirs []string
}

// New creates a Provider based on ProviderConfig.
func New(opts ProviderConfig) (Provider, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	switch opts.Type {
	case TypeFile, "":
		var fileOpts []FileOption
		for _, dir := range opts.WatchDirs {
			fileOpts = append(fileOpts, WithWatchDir(dir))
		}
		return NewFileProvider(opts.Path, fileOpts...)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", opts.Type)
	}
}
