/*
 * Fields - tolerant accessors over a decoded backend record.
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
	"sort"
	"strings"
	"time"

	"node-dns-drivers/internal/model"

	"github.com/spf13/cast"
)

// Fields is a decoded backend record. All the accessors return the zero
// value when the key is missing or has an unexpected type, so that mappers
// built on them never fail.
type Fields map[string]any

// Has returns true if key is present, even with a null value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the value as a string. Null becomes "".
func (f Fields) String(key string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// Int returns the value as an int. Strings are read as decimal numbers, and
// fractions are truncated.
func (f Fields) Int(key string) int {
	v := f[key]
	if s, ok := v.(string); ok {
		n, err := cast.ToFloat64E(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return int(n)
	}
	if n, err := cast.ToIntE(v); err == nil {
		return n
	}
	return int(cast.ToFloat64(v))
}

// Bool returns the value as a bool. "true", "1" and non-zero numbers are
// true.
func (f Fields) Bool(key string) bool {
	return cast.ToBool(f[key])
}

// Time returns the value as a time, or nil if it is missing or cannot be
// parsed. Strings in the common formats and UNIX timestamps are accepted.
func (f Fields) Time(key string) *time.Time {
	v, ok := f[key]
	if !ok || v == nil {
		return nil
	}
	t, err := cast.ToTimeE(v)
	if err != nil || t.IsZero() {
		return nil
	}
	return &t
}

// Map returns a nested record, or an empty one.
func (f Fields) Map(key string) Fields {
	if m, ok := f[key].(map[string]any); ok {
		return Fields(m)
	}
	return Fields{}
}

// Slice returns a nested list, or nil.
func (f Fields) Slice(key string) []any {
	if s, ok := f[key].([]any); ok {
		return s
	}
	return nil
}

// Records returns the objects of a nested list. Elements that are not
// objects are skipped.
func (f Fields) Records(key string) []Fields {
	var out []Fields
	for _, e := range f.Slice(key) {
		if m, ok := e.(map[string]any); ok {
			out = append(out, Fields(m))
		}
	}
	return out
}

// Strings returns a nested list of strings.
func (f Fields) Strings(key string) []string {
	s := f.Slice(key)
	if s == nil {
		return nil
	}
	return cast.ToStringSlice(s)
}

// Extra copies every field of the record.
func (f Fields) Extra() model.Extra {
	e := make(model.Extra, len(f))
	for k, v := range f {
		e[k] = v
	}
	return e
}

// ExtraWith copies every field of the record and makes sure that every key in
// keys is present, set to nil when the backend did not send it.
func (f Fields) ExtraWith(keys []string) model.Extra {
	e := f.Extra()
	for _, k := range keys {
		if _, ok := e[k]; !ok {
			e[k] = nil
		}
	}
	return e
}

// keys returns the sorted keys.
func (f Fields) keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
