/*
 * Envelope - decoding of the top-level response wrapper.
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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// EnvelopeFormat describes how a backend wraps its responses.
type EnvelopeFormat struct {
	// StatusField is the top-level field carrying the logical status. Empty
	// means the backend only reports status through the HTTP code.
	StatusField string
	// SuccessValues are the status values meaning success. Empty means any.
	SuccessValues []string
	// NotFoundValues are the status values meaning that the requested
	// resource does not exist.
	NotFoundValues []string
	// MessageField is the top-level field carrying an error message.
	MessageField string
}

// Envelope is a decoded response.
type Envelope struct {
	Status  string
	Message string
	// Body is the whole decoded body.
	Body any
}

// errMissingData is returned by Data when the data path does not exist.
var errMissingData = errors.New("data not found")

// decodeJSON decodes a body keeping numbers as json.Number.
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode decodes body into an envelope.
func (f EnvelopeFormat) Decode(body []byte) (*Envelope, error) {
	v, err := decodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	env := &Envelope{Body: v}
	if obj, ok := v.(map[string]any); ok {
		if f.StatusField != "" {
			env.Status = cast.ToString(obj[f.StatusField])
		}
		if f.MessageField != "" {
			env.Message = messageString(obj[f.MessageField])
		}
	}
	return env, nil
}

// messageString flattens an error message that may be a list or a map.
func messageString(v any) string {
	switch m := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			parts = append(parts, messageString(p))
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		parts := make([]string, 0, len(m))
		for _, k := range Fields(m).keys() {
			parts = append(parts, k+": "+messageString(m[k]))
		}
		return strings.Join(parts, "; ")
	default:
		return cast.ToString(m)
	}
}

// IsSuccess returns true if the envelope reports success. Envelopes without
// a status field always succeed.
func (f EnvelopeFormat) IsSuccess(env *Envelope) bool {
	if f.StatusField == "" || len(f.SuccessValues) == 0 {
		return true
	}
	return contains(f.SuccessValues, env.Status)
}

// IsNotFound returns true if the envelope reports a missing resource.
func (f EnvelopeFormat) IsNotFound(env *Envelope) bool {
	return f.StatusField != "" && contains(f.NotFoundValues, env.Status)
}

// Data returns the value at the dotted path. An empty path returns the whole
// body.
func (e *Envelope) Data(path string) (any, error) {
	cur := e.Body
	if path == "" {
		return cur, nil
	}
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w at %q", errMissingData, path)
		}
		next, ok := obj[key]
		if !ok {
			return nil, fmt.Errorf("%w at %q", errMissingData, path)
		}
		cur = next
	}
	return cur, nil
}

// contains returns true if list contains value, ignoring case.
func contains(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
