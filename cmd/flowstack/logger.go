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

package main

import (
	"os"

	"github.com/flowstack/flowstack-go/pkg/config"
	"github.com/flowstack/flowstack-go/pkg/logger"
)

// initLogger initializes the logger from CLI flags and environment variables.
// Priority: CLI flags > env vars > defaults
func initLogger(level, file, format string) (func(), error) {
	cfg := config.ResolveLoggerConfig(level, file, format)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	output := os.Stderr
	var cleanup func()
	if cfg.File != "" {
		f, closeFn, err := logger.OpenLogFile(cfg.File)
		if err != nil {
			return nil, err
		}
		output = f
		cleanup = closeFn
	}

	logger.Init(logger.ParseLevel(cfg.Level), output, cfg.Format)
	return cleanup, nil
}
