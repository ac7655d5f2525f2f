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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of file events (editors often write
// a file several times on save).
const DefaultDebounce = 100 * time.Millisecond

// FileProvider loads config from a local file and watches it, plus any
// extra source directories, for changes.
type FileProvider struct {
	path     string
	dirs     []string
	exts     []string
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// FileOption configures a FileProvider.
type FileOption func(*FileProvider)

// WithWatchDir also signals a change when a source file in dir changes.
func WithWatchDir(dir string) FileOption {
	return func(p *FileProvider) {
		if abs, err := filepath.Abs(dir); err == nil {
			p.dirs = append(p.dirs, abs)
		}
	}
}

// WithExtensions restricts watched-directory events to these file
// extensions. Default: .go
func WithExtensions(exts ...string) FileOption {
	return func(p *FileProvider) {
		p.exts = exts
	}
}

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) FileOption {
	return func(p *FileProvider) {
		p.debounce = d
	}
}

// NewFileProvider creates a provider that reads from a local file.
func NewFileProvider(path string, opts ...FileOption) (*FileProvider, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	p := &FileProvider{
		path:     absPath,
		exts:     []string{".go"},
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Type returns TypeFile.
func (p *FileProvider) Type() Type {
	return TypeFile
}

// Path returns the absolute config file path.
func (p *FileProvider) Path() string {
	return p.path
}

// Load reads the config file.
func (p *FileProvider) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}
	return data, nil
}

// Watch starts watching the config file and extra directories.
// Returns a channel that receives a value when something relevant changes.
func (p *FileProvider) Watch(ctx context.Context) (<-chan struct{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("provider is closed")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	p.watcher = watcher

	// Watch the directory containing the file
	// (some systems don't support watching files directly)
	configDir := filepath.Dir(p.path)
	if err := watcher.Add(configDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", configDir, err)
	}

	for _, dir := range p.dirs {
		if dir == configDir {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			slog.Warn("Cannot watch directory", "path", dir, "error", err)
		}
	}

	ch := make(chan struct{}, 1)

	go p.watchLoop(ctx, watcher, ch)

	slog.Info("Watching for changes", "config", p.path, "dirs", p.dirs)
	return ch, nil
}

// relevant reports whether an event on name should trigger a reload.
func (p *FileProvider) relevant(name string) bool {
	name = filepath.Clean(name)
	if name == p.path {
		return true
	}

	dir := filepath.Dir(name)
	for _, d := range p.dirs {
		if dir != d {
			continue
		}
		base := filepath.Base(name)
		if strings.HasPrefix(base, ".") {
			return false
		}
		for _, ext := range p.exts {
			if filepath.Ext(base) == ext {
				return true
			}
		}
	}
	return false
}

func (p *FileProvider) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, ch chan<- struct{}) {
	defer close(ch)
	defer watcher.Close()

	var debounceTimer *time.Timer

	signal := func(name string) {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(p.debounce, func() {
			select {
			case ch <- struct{}{}:
				slog.Debug("Change detected", "path", name)
			default:
				// change already pending
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !p.relevant(event.Name) {
				continue
			}

			isConfig := filepath.Clean(event.Name) == p.path
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				signal(event.Name)
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				if isConfig {
					slog.Warn("Config file was removed", "path", p.path)
					go p.tryRewatch(ctx, watcher, ch)
					continue
				}
				// a deleted tool file changes the build too
				signal(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

func (p *FileProvider) tryRewatch(ctx context.Context, watcher *fsnotify.Watcher, ch chan<- struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; i < 10; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := os.Stat(p.path); err == nil {
				if err := watcher.Add(filepath.Dir(p.path)); err == nil {
					slog.Info("Re-established watch on config file", "path", p.path)
					select {
					case ch <- struct{}{}:
					default:
					}
					return
				}
			}
		}
	}
	slog.Warn("Failed to re-establish watch on config file", "path", p.path)
}

// Close stops watching and releases resources.
func (p *FileProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.watcher != nil {
		err := p.watcher.Close()
		p.watcher = nil
		return err
	}
	return nil
}

var _ Provider = (*FileProvider)(nil)
