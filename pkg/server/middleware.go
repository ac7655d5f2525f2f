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
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/flowstack/flowstack-go/pkg/observability"
)

// responseWriter captures the status code and body size.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// observe wraps each request in a span and records request metrics
// labelled by the matched chi route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx, span := s.tracer.Start(r.Context(), observability.SpanHTTPRequest,
			attribute.String(observability.AttrHTTPMethod, r.Method),
			attribute.String("http.path", r.URL.Path),
		)
		defer span.End()
		r = r.WithContext(ctx)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		route := routePattern(r)

		span.SetAttributes(
			attribute.String(observability.AttrHTTPRoute, route),
			attribute.Int(observability.AttrStatusCode, wrapped.statusCode),
			attribute.Int(observability.AttrResponseSize, wrapped.size),
		)
		if wrapped.statusCode >= 500 {
			span.SetStatus(codes.Error, http.StatusText(wrapped.statusCode))
		}

		s.metrics.RecordHTTPRequest(ctx, r.Method, route, wrapped.statusCode, duration)
		s.logger.Debug("Handled request",
			"method", r.Method, "route", route, "status", wrapped.statusCode, "duration", duration)
	})
}

// routePattern returns the matched route, falling back to the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}
