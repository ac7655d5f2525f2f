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

package observability

import (
	"fmt"
	"time"
)

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled turns on tracing.
	// Default: false
	Enabled bool

	// Exporter specifies the trace exporter type.
	// Values: "stdout" (default), "otlp"
	Exporter string

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: localhost:4317
	Endpoint string

	// SamplingRate controls what fraction of traces are sampled.
	// Range: 0.0 (none) to 1.0 (all)
	// Default: 1.0
	SamplingRate float64

	// ServiceName identifies this process in traces.
	// Default: "flowstack"
	ServiceName string

	// ServiceVersion is reported as service.version.
	ServiceVersion string

	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure *bool

	// Headers are sent with OTLP export requests.
	Headers map[string]string

	// Timeout for exporter operations.
	// Default: 10s
	Timeout time.Duration
}

// SetDefaults applies default values to TracingConfig.
func (c *TracingConfig) SetDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.SamplingRate == 0 {
		c.SamplingRate = DefaultSamplingRate
	}
	if c.Exporter == "" {
		c.Exporter = ExporterStdout
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultOTLPEndpoint
	}
	if c.Insecure == nil {
		insecure := true
		c.Insecure = &insecure
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
}

// Validate checks TracingConfig for errors.
func (c *TracingConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("sampling_rate must be between 0 and 1, got %f", c.SamplingRate)
	}

	switch c.Exporter {
	case ExporterStdout:
	case ExporterOTLP:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("invalid exporter %q (valid: stdout, otlp)", c.Exporter)
	}

	return nil
}

// IsInsecure returns whether to use insecure connection.
func (c *TracingConfig) IsInsecure() bool {
	if c.Insecure == nil {
		return true
	}
	return *c.Insecure
}
