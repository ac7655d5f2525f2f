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

package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
	// Message is the server supplied "error" field, empty when the body had none.
	Message string
	Service string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s error: %d %s", e.Service, e.StatusCode, e.Status)
}

// ConnectionError is a request that never produced a response.
type ConnectionError struct {
	Service string
	URL     string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s connection error: %v", e.Service, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func parseAPIError(service string, resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Service:    service,
	}

	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	switch v := payload.Error.(type) {
	case string:
		apiErr.Message = v
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			apiErr.Message = msg
		}
	}
	return apiErr
}
