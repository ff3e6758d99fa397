/*
 * Errors - error kinds shared by every driver.
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
package model

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every ConfigurationError.
	ErrConfiguration = errors.New("invalid driver configuration")
	// ErrResourceNotFound matches every ResourceNotFoundError.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrNotSupported matches every NotSupportedError.
	ErrNotSupported = errors.New("operation not supported")
	// ErrBackend matches every BackendError.
	ErrBackend = errors.New("backend error")
	// ErrNoDriver is returned by entity methods when the entity has no
	// driver to route the call through.
	ErrNoDriver = errors.New("entity is not bound to a driver")
)

// ConfigurationError reports a missing or invalid credential or endpoint at
// driver construction.
type ConfigurationError struct {
	Driver string
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Driver, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) work.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ResourceNotFoundError reports that the backend confirmed the absence of
// the requested identifier.
type ResourceNotFoundError struct {
	Driver string
	Kind   string
	ID     string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %q does not exist", e.Driver, e.Kind, e.ID)
}

// Is makes errors.Is(err, ErrResourceNotFound) work.
func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

// NotSupportedError reports an operation that has no equivalent on the
// backend.
type NotSupportedError struct {
	Driver    string
	Operation string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%s: operation %s is not supported", e.Driver, e.Operation)
}

// Is makes errors.Is(err, ErrNotSupported) work.
func (e *NotSupportedError) Is(target error) bool {
	return target == ErrNotSupported
}

// BackendError reports an unexpected status code, a malformed envelope, an
// error reported by the backend or a transport failure.
type BackendError struct {
	Driver     string
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	msg := fmt.Sprintf("%s: %s failed", e.Driver, e.Operation)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" with status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrBackend) work.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

// Unwrap returns the underlying cause, if any.
func (e *BackendError) Unwrap() error {
	return e.Err
}
