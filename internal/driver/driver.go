/*
 * Driver - generic dispatch shared by every backend.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package driver implements the backend independent part of every driver:
// construction, route dispatch, envelope decoding and the error policy.
// Backends are configuration values (see Backend), not subclasses.
package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"node-dns-drivers/internal/metrics"
	"node-dns-drivers/internal/model"

	log "github.com/sirupsen/logrus"
)

const (
	schemeHTTP  = "http"
	schemeHTTPS = "https"
)

// Call contains the per-call values of a request.
type Call struct {
	// Values for the {name} placeholders of the route path.
	Params map[string]string
	Query  url.Values
	// Body is encoded as JSON.
	Body  any
	Form  url.Values
	Files []File
}

// Option configures a driver.
type Option func(d *Driver)

// WithTransport sets the transport.
func WithTransport(t Transport) Option {
	return func(d *Driver) {
		d.transport = t
	}
}

// WithHTTPClient uses the given client in the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Driver) {
		d.transport = NewHTTPTransport(hc)
	}
}

// WithScheme overrides the scheme derived from the endpoint.
func WithScheme(scheme string) Option {
	return func(d *Driver) {
		d.scheme = scheme
	}
}

// WithLogger sets the log entry used by the driver.
func WithLogger(entry *log.Entry) Option {
	return func(d *Driver) {
		d.log = entry
	}
}

// Driver is one configured connection to one backend. It is not modified
// after construction.
type Driver struct {
	backend   Backend
	key       string
	scheme    string
	host      string
	basePath  string
	transport Transport
	log       *log.Entry
}

// New creates a driver for backend. The key is mandatory; the endpoint can
// be omitted when the backend has a default host. No request is made.
func New(backend Backend, key, endpoint string, opts ...Option) (*Driver, error) {
	if key == "" {
		return nil, &model.ConfigurationError{Driver: backend.Name, Field: "key", Reason: "api key not specified"}
	}
	if endpoint == "" {
		endpoint = backend.DefaultHost
	}
	scheme, host, basePath := splitEndpoint(endpoint)
	if host == "" {
		return nil, &model.ConfigurationError{Driver: backend.Name, Field: "endpoint", Reason: "endpoint not specified"}
	}

	d := &Driver{
		backend:  backend,
		key:      key,
		scheme:   scheme,
		host:     host,
		basePath: basePath,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.transport == nil {
		d.transport = NewHTTPTransport(nil)
	}
	if d.log == nil {
		d.log = log.WithField("driver", backend.Name)
	}
	d.log.Debugf("Configured %s driver for host %s with API key %s", backend.Name, host, maskAPIKey(key))
	return d, nil
}

// splitEndpoint strips the protocol prefixes from the endpoint and splits it
// into scheme, bare host and base path.
func splitEndpoint(endpoint string) (scheme, host, basePath string) {
	scheme = schemeHTTPS
	host = strings.TrimSpace(endpoint)
	for _, prefix := range []string{schemeHTTP + "://", schemeHTTPS + "://"} {
		if strings.HasPrefix(host, prefix) {
			scheme = strings.TrimSuffix(prefix, "://")
			host = strings.TrimPrefix(host, prefix)
		}
	}
	host = strings.TrimRight(host, "/")
	if idx := strings.Index(host, "/"); idx >= 0 {
		basePath = host[idx:]
		host = host[:idx]
	}
	return scheme, host, basePath
}

// maskAPIKey hides all but the first three characters of the key.
func maskAPIKey(key string) string {
	if len(key) <= 3 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", len(key)-3)
}

// Type returns the backend type tag.
func (d *Driver) Type() string {
	return d.backend.Type
}

// Name returns the backend display name.
func (d *Driver) Name() string {
	return d.backend.Name
}

// Host returns the bare host the driver is bound to.
func (d *Driver) Host() string {
	return d.host
}

// Key returns the API key.
func (d *Driver) Key() string {
	return d.key
}

// Backend returns the backend configuration.
func (d *Driver) Backend() Backend {
	return d.backend
}

// Supports returns true if the backend supports op.
func (d *Driver) Supports(op Operation) bool {
	return d.backend.Supports(op)
}

// Log returns the log entry of the driver.
func (d *Driver) Log() *log.Entry {
	return d.log
}

// State translates a backend status using the state mapping table. Unknown
// statuses become the backend fallback state.
func (d *Driver) State(status string) model.NodeState {
	if state, ok := d.backend.States[status]; ok {
		return state
	}
	d.log.WithField("status", status).Debugf("Unknown status, using %s", d.backend.Fallback)
	metrics.GetOpenMetricsInstance().IncUnknownStatesTotal(d.backend.Name, status)
	return d.backend.Fallback
}

// backendError builds a BackendError for op.
func (d *Driver) backendError(op Operation, status int, message string, err error) error {
	return &model.BackendError{
		Driver:     d.backend.Name,
		Operation:  string(op),
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

// buildRequest builds the transport request for a call.
func (d *Driver) buildRequest(op Operation, route Route, call Call) (*Request, error) {
	path := route.Path
	for k, v := range call.Params {
		path = strings.ReplaceAll(path, "{"+k+"}", v)
	}
	if strings.Contains(path, "{") {
		return nil, d.backendError(op, 0, "", fmt.Errorf("unresolved parameters in path %q", path))
	}

	req := &Request{
		Scheme: d.scheme,
		Host:   d.host,
		Method: route.Method,
		Path:   d.basePath + path,
		Query:  url.Values{},
		Form:   call.Form,
		Files:  call.Files,
	}
	for k, v := range route.Params {
		req.Query.Set(k, v)
	}
	for k, values := range call.Query {
		for _, v := range values {
			req.Query.Add(k, v)
		}
	}
	if call.Body != nil {
		body, err := json.Marshal(call.Body)
		if err != nil {
			return nil, d.backendError(op, 0, "", fmt.Errorf("cannot encode request body: %w", err))
		}
		req.Body = body
	}
	if d.backend.Authorize != nil {
		d.backend.Authorize(req, d.key)
	}
	return req, nil
}

// Do issues the request for op and returns the raw response whatever its
// status code. Only unsupported operations and transport failures are
// reported as errors.
func (d *Driver) Do(ctx context.Context, op Operation, call Call) (*Response, error) {
	route, err := d.backend.route(op)
	if err != nil {
		return nil, err
	}
	req, err := d.buildRequest(op, route, call)
	if err != nil {
		return nil, err
	}

	m := metrics.GetOpenMetricsInstance()
	start := time.Now()
	resp, err := d.transport.Do(ctx, req)
	delay := time.Since(start)
	if err != nil {
		m.IncFailedApiCallsTotal(d.backend.Name, string(op))
		d.log.WithFields(log.Fields{
			"action": op,
			"method": req.Method,
			"path":   req.Path,
		}).Debugf("Request failed: %v", err)
		return nil, d.backendError(op, 0, "", err)
	}
	if d.backend.isSuccess(resp.StatusCode) {
		m.IncSuccessfulApiCallsTotal(d.backend.Name, string(op))
	} else {
		m.IncFailedApiCallsTotal(d.backend.Name, string(op))
	}
	m.AddApiDelayHist(d.backend.Name, string(op), delay.Milliseconds())
	m.SetRateLimits(d.backend.Name, resp.Header)

	d.log.WithFields(log.Fields{
		"action": op,
		"method": req.Method,
		"path":   req.Path,
		"status": resp.StatusCode,
		"delay":  delay,
	}).Debug("Request completed")
	return resp, nil
}

// decode issues the request and decodes the envelope of a successful
// response.
func (d *Driver) decode(ctx context.Context, op Operation, call Call) (*Response, *Envelope, error) {
	resp, err := d.Do(ctx, op, call)
	if err != nil {
		return nil, nil, err
	}
	format := d.backend.Envelope
	env, decErr := format.Decode(resp.Body)
	if !d.backend.isSuccess(resp.StatusCode) {
		msg := http.StatusText(resp.StatusCode)
		if decErr == nil && env.Message != "" {
			msg = env.Message
		}
		return resp, env, d.backendError(op, resp.StatusCode, msg, nil)
	}
	if decErr != nil {
		return resp, nil, d.backendError(op, resp.StatusCode, "", decErr)
	}
	return resp, env, nil
}

// List issues the list request for op and returns the records found at the
// route's data path, in backend order. A null or empty collection is a
// valid result.
func (d *Driver) List(ctx context.Context, op Operation, call Call) ([]Fields, error) {
	_, env, err := d.decode(ctx, op, call)
	if err != nil {
		return nil, err
	}
	if !d.backend.Envelope.IsSuccess(env) {
		return nil, d.backendError(op, 0, env.Message, fmt.Errorf("status %q", env.Status))
	}
	route, _ := d.backend.route(op)
	data, err := env.Data(route.DataPath)
	if err != nil {
		return nil, d.backendError(op, 0, "", err)
	}

	var items []any
	switch v := data.(type) {
	case nil:
		return []Fields{}, nil
	case []any:
		items = v
	case map[string]any:
		// Some backends return collections as objects keyed by identifier.
		for _, k := range Fields(v).keys() {
			items = append(items, v[k])
		}
	default:
		return nil, d.backendError(op, 0, "", fmt.Errorf("unexpected data of type %T", data))
	}

	records := make([]Fields, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, d.backendError(op, 0, "", fmt.Errorf("element %d is of type %T", i, item))
		}
		records = append(records, Fields(obj))
	}
	return records, nil
}

// Get issues the request for op, scoped to the resource of the given kind
// and id, and returns its record. The absence of the resource is reported
// as a ResourceNotFoundError.
func (d *Driver) Get(ctx context.Context, op Operation, call Call, kind, id string) (Fields, error) {
	notFound := &model.ResourceNotFoundError{Driver: d.backend.Name, Kind: kind, ID: id}
	resp, env, err := d.decode(ctx, op, call)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, notFound
		}
		return nil, err
	}
	format := d.backend.Envelope
	if format.IsNotFound(env) {
		return nil, notFound
	}
	if !format.IsSuccess(env) {
		return nil, d.backendError(op, 0, env.Message, fmt.Errorf("status %q", env.Status))
	}
	route, _ := d.backend.route(op)
	data, err := env.Data(route.DataPath)
	if err != nil {
		if errors.Is(err, errMissingData) {
			return nil, notFound
		}
		return nil, d.backendError(op, 0, "", err)
	}
	switch v := data.(type) {
	case map[string]any:
		if len(v) == 0 {
			return nil, notFound
		}
		return Fields(v), nil
	case []any:
		if len(v) == 0 {
			return nil, notFound
		}
		if obj, ok := v[0].(map[string]any); ok {
			return Fields(obj), nil
		}
		return nil, d.backendError(op, 0, "", fmt.Errorf("unexpected element of type %T", v[0]))
	case nil:
		return nil, notFound
	default:
		return nil, d.backendError(op, 0, "", fmt.Errorf("unexpected data of type %T", data))
	}
}

// Succeeded issues the request for a delete or action operation and reports
// whether the status code is in the success set. When the body carries an
// envelope status, it must report success as well. Transport failures and
// bodies that cannot be decoded are returned as errors.
func (d *Driver) Succeeded(ctx context.Context, op Operation, call Call) (bool, error) {
	resp, err := d.Do(ctx, op, call)
	if err != nil {
		return false, err
	}
	if !d.backend.isSuccess(resp.StatusCode) {
		d.log.WithFields(log.Fields{
			"action": op,
			"status": resp.StatusCode,
		}).Warn("Backend reported a failure")
		return false, nil
	}
	format := d.backend.Envelope
	if format.StatusField == "" || len(resp.Body) == 0 {
		return true, nil
	}
	env, err := format.Decode(resp.Body)
	if err != nil {
		return false, d.backendError(op, resp.StatusCode, "", err)
	}
	if obj, ok := env.Body.(map[string]any); ok {
		if _, present := obj[format.StatusField]; present && !format.IsSuccess(env) {
			d.log.WithFields(log.Fields{
				"action":  op,
				"status":  env.Status,
				"message": env.Message,
			}).Warn("Backend reported a failure")
			return false, nil
		}
	}
	return true, nil
}
