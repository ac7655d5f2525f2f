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
	"fmt"

	"github.com/flowstack/flowstack-go/pkg/config"
	"github.com/flowstack/flowstack-go/pkg/platform"
)

// DeployCmd builds a project and sends it to the hosting service.
type DeployCmd struct {
	Path   string `short:"p" help:"Project directory." default:"." type:"path"`
	APIKey string `name:"api-key" help:"FlowStack API key (default: $FLOWSTACK_API_KEY)."`
	APIURL string `name:"api-url" help:"FlowStack API base URL (default: $FLOWSTACK_API_URL or https://api.flowstack.fun)."`
}

func (c *DeployCmd) Run(a *app) error {
	loadEnv(c.Path, ".")

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if c.APIKey != "" {
		settings.APIKey = c.APIKey
	}
	if c.APIURL != "" {
		settings.BaseURL = c.APIURL
		settings.SetDefaults()
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("no API key provided: %w", err)
	}

	fmt.Fprintln(a.out, "Building project...")
	payload, err := a.build(c.Path, "")
	if err != nil {
		return err
	}

	client, err := platform.NewFromSettings(settings, platform.WithTracer(a.tracer))
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nDeploying to FlowStack...")
	result, err := client.Deploy(a.ctx, payload)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nDeployment successful!")
	fmt.Fprintf(a.out, "Deployment ID: %s\n", result.DeploymentID)
	fmt.Fprintf(a.out, "Namespace: %s\n", result.Namespace)
	return nil
}
