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

package config

import (
	"fmt"
	"os"
)

const (
	// LogLevelEnvVar is the environment variable name for log level
	LogLevelEnvVar = "LOG_LEVEL"
	// LogFileEnvVar is the environment variable name for log file path
	LogFileEnvVar = "LOG_FILE"
	// LogFormatEnvVar is the environment variable name for log format
	LogFormatEnvVar = "LOG_FORMAT"
)

// LoggerConfig configures logging behavior.
//
// Priority order (highest to lowest):
//  1. CLI flags (--log-level, --log-file, --log-format)
//  2. Environment variables (LOG_LEVEL, LOG_FILE, LOG_FORMAT)
//  3. Defaults (info level, simple format, stderr)
type LoggerConfig struct {
	// Level specifies the log level (debug, info, warn, error).
	// Default: info
	Level string

	// File specifies the log file path.
	// If empty, logs go to stderr.
	File string

	// Format specifies the log format.
	// Values: "simple" (level + message), "verbose" (time + level + message),
	// "json".
	// Default: simple
	Format string
}

// ResolveLoggerConfig merges CLI flag values with the environment.
func ResolveLoggerConfig(level, file, format string) LoggerConfig {
	c := LoggerConfig{Level: level, File: file, Format: format}
	if c.Level == "" {
		c.Level = os.Getenv(LogLevelEnvVar)
	}
	if c.File == "" {
		c.File = os.Getenv(LogFileEnvVar)
	}
	if c.Format == "" {
		c.Format = os.Getenv(LogFormatEnvVar)
	}
	c.SetDefaults()
	return c
}

// SetDefaults applies default values to LoggerConfig.
func (c *LoggerConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "simple"
	}
}

// Validate checks the logger configuration.
func (c *LoggerConfig) Validate() error {
	validLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warn":    true,
		"warning": true,
		"error":   true,
	}
	if !validLevels[c.Level] {
		return fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", c.Level)
	}
	return nil
}
