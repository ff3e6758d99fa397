/*
 * Backend - per-backend configuration of the generic driver.
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
package driver

import (
	"net/http"

	"node-dns-drivers/internal/model"
)

// Operation is the name of a logical driver operation.
type Operation string

const (
	OpListNodes     Operation = "list_nodes"
	OpGetNode       Operation = "get_node"
	OpCreateNode    Operation = "create_node"
	OpRebootNode    Operation = "reboot_node"
	OpStartNode     Operation = "start_node"
	OpStopNode      Operation = "stop_node"
	OpDestroyNode   Operation = "destroy_node"
	OpListLocations Operation = "list_locations"
	OpListSizes     Operation = "list_sizes"
	OpListImages    Operation = "list_images"
	OpListKeyPairs  Operation = "list_key_pairs"
	OpCreateKeyPair Operation = "create_key_pair"
	OpListZones     Operation = "list_zones"
	OpGetZone       Operation = "get_zone"
	OpCreateZone    Operation = "create_zone"
	OpDeleteZone    Operation = "delete_zone"
	OpListRecords   Operation = "list_records"
	OpGetRecord     Operation = "get_record"
	OpCreateRecord  Operation = "create_record"
	OpUpdateRecord  Operation = "update_record"
	OpDeleteRecord  Operation = "delete_record"
)

// Capability tells whether a backend can perform an operation. The zero
// value is Unsupported, so a route has to opt in explicitly.
type Capability int

const (
	Unsupported Capability = iota
	Supported
)

// Route maps a logical operation onto one backend request.
type Route struct {
	Capability Capability
	// HTTP method.
	Method string
	// Path relative to the endpoint. Placeholders in the form {name} are
	// replaced with the call parameters.
	Path string
	// Fixed query parameters, e.g. the action name of RPC-style APIs.
	Params map[string]string
	// Dotted path to the data inside the decoded envelope. Empty means the
	// whole body.
	DataPath string
}

// StateMap translates backend statuses to generic node states.
type StateMap map[string]model.NodeState

// DefaultSuccessCodes is the success set shared by the shipped backends.
var DefaultSuccessCodes = []int{http.StatusOK, http.StatusCreated, http.StatusAccepted}

// Backend is the configuration value that specializes the generic driver for
// one vendor API.
type Backend struct {
	// Type is the short type tag, e.g. "clearapi".
	Type string
	// Name is the display name, e.g. "ClearAPI".
	Name string
	// DefaultHost is used when no endpoint is given. Empty means the
	// endpoint is mandatory.
	DefaultHost string
	// Routes contains one entry per logical operation.
	Routes map[Operation]Route
	// States translates backend statuses.
	States StateMap
	// Fallback is the state used for statuses not in States.
	Fallback model.NodeState
	// SuccessCodes is the set of status codes considered successful.
	SuccessCodes []int
	// Envelope describes the response envelope.
	Envelope EnvelopeFormat
	// Authorize adds the credentials to a request.
	Authorize func(req *Request, key string)
}

// route returns the route for op or a NotSupportedError.
func (b Backend) route(op Operation) (Route, error) {
	r, ok := b.Routes[op]
	if !ok || r.Capability != Supported {
		return Route{}, &model.NotSupportedError{Driver: b.Name, Operation: string(op)}
	}
	return r, nil
}

// Supports returns true if the backend supports op.
func (b Backend) Supports(op Operation) bool {
	_, err := b.route(op)
	return err == nil
}

// isSuccess returns true if code is in the success set.
func (b Backend) isSuccess(code int) bool {
	codes := b.SuccessCodes
	if len(codes) == 0 {
		codes = DefaultSuccessCodes
	}
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// BearerAuth sets the Authorization header with a bearer token.
func BearerAuth(req *Request, key string) {
	req.SetHeader("Authorization", "Bearer "+key)
}

// HeaderAuth returns an authorizer that puts the key in the given header.
func HeaderAuth(header string) func(req *Request, key string) {
	return func(req *Request, key string) {
		req.SetHeader(header, key)
	}
}
