/*
 * State - generic node states.
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

import "strings"

// NodeState is the closed set of states a node can be in, regardless of the
// backend that reports it.
type NodeState int

const (
	NodeStateUnknown NodeState = iota
	NodeStateRunning
	NodeStateRebooting
	NodeStateTerminated
	NodeStatePending
	NodeStateStopped
	NodeStateSuspended
	NodeStateError
	NodeStatePaused
)

var nodeStateNames = map[NodeState]string{
	NodeStateUnknown:    "unknown",
	NodeStateRunning:    "running",
	NodeStateRebooting:  "rebooting",
	NodeStateTerminated: "terminated",
	NodeStatePending:    "pending",
	NodeStateStopped:    "stopped",
	NodeStateSuspended:  "suspended",
	NodeStateError:      "error",
	NodeStatePaused:     "paused",
}

// String returns the lowercase name of the state.
func (s NodeState) String() string {
	if name, ok := nodeStateNames[s]; ok {
		return name
	}
	return nodeStateNames[NodeStateUnknown]
}

// MarshalText renders the state by name.
func (s NodeState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseNodeState returns the state with the given name. Unknown names
// return NodeStateUnknown and false.
func ParseNodeState(name string) (NodeState, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for state, n := range nodeStateNames {
		if n == name {
			return state, true
		}
	}
	return NodeStateUnknown, false
}
