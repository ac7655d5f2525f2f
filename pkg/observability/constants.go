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

const (
	AttrAgentName     = "flowstack.agent.name"
	AttrAgentModel    = "flowstack.agent.model"
	AttrToolName      = "flowstack.tool.name"
	AttrToolNamespace = "flowstack.tool.namespace"
	AttrToolCount     = "flowstack.tools.included"
	AttrSkipCount     = "flowstack.tools.skipped"
	AttrStage         = "flowstack.compile.stage"
	AttrDeploymentID  = "flowstack.deployment.id"
	AttrCollection    = "flowstack.datavault.collection"
	AttrOperation     = "flowstack.datavault.operation"
	AttrErrorType     = "error.type"
	AttrStatusCode    = "http.status_code"
	AttrHTTPMethod    = "http.method"
	AttrHTTPRoute     = "http.route"
	AttrResponseSize  = "http.response_size"

	SpanCompile         = "flowstack.compile"
	SpanCompileTool     = "flowstack.compile_tool"
	SpanValidatePayload = "flowstack.validate_payload"
	SpanDeploy          = "flowstack.deploy"
	SpanDataVault       = "flowstack.datavault"
	SpanHTTPRequest     = "http.request"

	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"

	DefaultServiceName  = "flowstack"
	DefaultOTLPEndpoint = "localhost:4317"
	DefaultSamplingRate = 1.0
)
