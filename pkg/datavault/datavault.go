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

// Package datavault is a client for the per-account document store exposed
// at {base}/datavault. Every account sees only its own collections; the
// service prefixes stored collection names with the account namespace.
package datavault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	flowstack "github.com/flowstack/flowstack-go"
	"github.com/flowstack/flowstack-go/pkg/config"
	"github.com/flowstack/flowstack-go/pkg/httpclient"
	"github.com/flowstack/flowstack-go/pkg/observability"
)

const (
	// Endpoint is the path below the API base URL.
	Endpoint = "datavault"

	opStore    = "store"
	opRetrieve = "retrieve"
	opUpdate   = "update"
	opDelete   = "delete"
	opCount    = "count"
	opClear    = "clear"

	keySuffixLen = 12
)

var (
	ErrEmptyCollection = errors.New("collection name is required")
	ErrEmptyKey        = errors.New("key is required")
	ErrNilData         = errors.New("data must be an object")
)

// Document is a stored item. Filter is a MongoDB-style query document.
type (
	Document = map[string]any
	Filter   = map[string]any
)

// Vault is a DataVault client.
type Vault struct {
	http   *httpclient.Client
	logger *slog.Logger
	tracer *observability.Tracer
}

type options struct {
	httpOpts []httpclient.Option
	logger   *slog.Logger
	tracer   *observability.Tracer
}

type Option func(*options)

func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, opts...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithTracer(tracer *observability.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// New creates a client for the vault below baseURL.
func New(baseURL, apiKey string, opts ...Option) *Vault {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	httpOpts := append([]httpclient.Option{
		httpclient.WithAPIKey(apiKey),
		httpclient.WithUserAgent(flowstack.UserAgent()),
		httpclient.WithErrorPrefix("DataVault"),
	}, o.httpOpts...)

	vaultURL := strings.TrimRight(baseURL, "/") + "/" + Endpoint
	return &Vault{
		http:   httpclient.New(vaultURL, httpOpts...),
		logger: o.logger,
		tracer: o.tracer,
	}
}

// NewFromSettings requires an API key and applies the remaining settings.
func NewFromSettings(s config.Settings, opts ...Option) (*Vault, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	httpOpts, err := httpclient.SettingsOptions(s)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithHTTPOptions(httpOpts...)}, opts...)
	return New(s.BaseURL, s.APIKey, opts...), nil
}

// NewKey generates "<collection>_<12 hex chars>".
func NewKey(collection string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return collection + "_" + id[:keySuffixLen]
}

// Store saves data under key, generating one when key is empty. It returns
// the key the service reports, or the sent key when the response has none.
func (v *Vault) Store(ctx context.Context, collection string, data Document, key string) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}
	if data == nil {
		return "", ErrNilData
	}
	if key == "" {
		key = NewKey(collection)
	}

	ctx, span := v.start(ctx, collection, opStore)
	defer span.End()

	body := map[string]any{
		"collection": collection,
		"key":        key,
		"data":       data,
		"operation":  opStore,
	}

	var resp struct {
		Key string `json:"key"`
	}
	if err := v.http.DoJSON(ctx, http.MethodPost, "", nil, body, &resp); err != nil {
		observability.RecordError(span, err)
		return "", err
	}
	if resp.Key != "" {
		key = resp.Key
	}

	v.logger.Debug("Stored document", "collection", collection, "key", key)
	return key, nil
}

// Retrieve returns the document stored under key, or nil when none exists.
func (v *Vault) Retrieve(ctx context.Context, collection, key string) (Document, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	query := url.Values{"key": {key}}
	items, err := v.retrieve(ctx, collection, query)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

// Find returns the documents matching filter, or every document when filter
// is empty.
func (v *Vault) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	query := url.Values{}
	if len(filter) > 0 {
		encoded, err := encodeFilter(filter)
		if err != nil {
			return nil, err
		}
		query.Set("filter", encoded)
	}
	return v.retrieve(ctx, collection, query)
}

// Query is Find with a required filter.
func (v *Vault) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	return v.Find(ctx, collection, filter)
}

func (v *Vault) retrieve(ctx context.Context, collection string, query url.Values) ([]Document, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}

	ctx, span := v.start(ctx, collection, opRetrieve)
	defer span.End()

	query.Set("collection", collection)
	query.Set("operation", opRetrieve)

	var resp struct {
		Data []Document `json:"data"`
	}
	if err := v.http.DoJSON(ctx, http.MethodGet, "", query, nil, &resp); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []Document{}
	}
	return resp.Data, nil
}

// Update applies updates to the document under key. It reports whether the
// service found and changed it.
func (v *Vault) Update(ctx context.Context, collection, key string, updates Document) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	if updates == nil {
		return false, ErrNilData
	}
	return v.mutate(ctx, http.MethodPut, collection, opUpdate, map[string]any{
		"key":     key,
		"updates": updates,
	})
}

// Delete removes the document under key.
func (v *Vault) Delete(ctx context.Context, collection, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	return v.mutate(ctx, http.MethodDelete, collection, opDelete, map[string]any{"key": key})
}

// Clear removes every document in collection.
func (v *Vault) Clear(ctx context.Context, collection string) (bool, error) {
	return v.mutate(ctx, http.MethodDelete, collection, opClear, map[string]any{})
}

func (v *Vault) mutate(ctx context.Context, method, collection, op string, body map[string]any) (bool, error) {
	if collection == "" {
		return false, ErrEmptyCollection
	}

	ctx, span := v.start(ctx, collection, op)
	defer span.End()

	body["collection"] = collection
	body["operation"] = op

	var resp struct {
		Success bool `json:"success"`
	}
	if err := v.http.DoJSON(ctx, method, "", nil, body, &resp); err != nil {
		observability.RecordError(span, err)
		return false, err
	}
	return resp.Success, nil
}

// Count returns the number of documents matching filter (all when empty).
func (v *Vault) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	if collection == "" {
		return 0, ErrEmptyCollection
	}

	ctx, span := v.start(ctx, collection, opCount)
	defer span.End()

	query := url.Values{
		"collection": {collection},
		"operation":  {opCount},
	}
	if len(filter) > 0 {
		encoded, err := encodeFilter(filter)
		if err != nil {
			return 0, err
		}
		query.Set("filter", encoded)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := v.http.DoJSON(ctx, http.MethodGet, "", query, nil, &resp); err != nil {
		observability.RecordError(span, err)
		return 0, err
	}
	return resp.Count, nil
}

// ListCollections returns the account's collection names with the namespace
// prefix removed, deduplicated and sorted.
func (v *Vault) ListCollections(ctx context.Context) ([]string, error) {
	var resp struct {
		Collections []string `json:"collections"`
	}
	if err := v.http.DoJSON(ctx, http.MethodGet, "collections", nil, nil, &resp); err != nil {
		return nil, err
	}
	return stripNamespaces(resp.Collections), nil
}

// Health returns the service health document.
func (v *Vault) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := v.http.DoJSON(ctx, http.MethodGet, "health", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *Vault) start(ctx context.Context, collection, op string) (context.Context, trace.Span) {
	return v.tracer.Start(ctx, observability.SpanDataVault,
		attribute.String(observability.AttrCollection, collection),
		attribute.String(observability.AttrOperation, op),
	)
}

// stripNamespaces turns "ns_users" into "users". Names without a prefix are
// not account collections and are dropped.
func stripNamespaces(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		_, rest, ok := strings.Cut(name, "_")
		if !ok || rest == "" {
			continue
		}
		if _, dup := seen[rest]; dup {
			continue
		}
		seen[rest] = struct{}{}
		out = append(out, rest)
	}
	sort.Strings(out)
	return out
}

func encodeFilter(filter Filter) (string, error) {
	data, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("failed to encode filter: %w", err)
	}
	return string(data), nil
}
