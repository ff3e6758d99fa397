/*
 * Compute - backend independent access to the node drivers.
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
package compute

import (
	"context"
	"fmt"
	"strings"

	"node-dns-drivers/internal/compute/clearapi"
	"node-dns-drivers/internal/compute/maxihost"
	"node-dns-drivers/internal/driver"
	"node-dns-drivers/internal/model"
)

// Node actions accepted by Action.
const (
	ActionReboot     = "reboot"
	ActionStart      = "start"
	ActionStop       = "stop"
	ActionDestroy    = "destroy"
	ActionPowerReset = "power-reset"
)

// DefaultResetType is the reset type used by the power-reset action.
const DefaultResetType = "ForceRestart"

// Driver is the interface shared by every node driver.
type Driver interface {
	model.NodeDriver
	// ListNodes returns every node known to the backend.
	ListNodes(ctx context.Context) ([]model.Node, error)
}

// powerDriver is implemented by drivers able to power nodes on and off.
type powerDriver interface {
	StartNode(ctx context.Context, node model.Node) (bool, error)
	StopNode(ctx context.Context, node model.Node) (bool, error)
}

// resetDriver is implemented by drivers able to reset the power of a host.
type resetDriver interface {
	PowerReset(ctx context.Context, node model.Node, resetType string) (bool, error)
}

// Types returns the supported driver types.
func Types() []string {
	return []string{clearapi.Type, maxihost.Type}
}

// New creates the node driver of the given type. The endpoint is mandatory
// for ClearAPI and optional for Maxihost.
func New(kind, key, endpoint string, opts ...driver.Option) (Driver, error) {
	switch strings.ToLower(kind) {
	case clearapi.Type:
		d, err := clearapi.NewDriver(key, endpoint, opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	case maxihost.Type:
		d, err := maxihost.NewDriver(key,
			maxihost.WithEndpoint(endpoint),
			maxihost.WithDriverOptions(opts...),
		)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, &model.ConfigurationError{
			Driver: "compute",
			Field:  "driver",
			Reason: fmt.Sprintf("unknown driver type %q, expected one of %s", kind, strings.Join(Types(), ", ")),
		}
	}
}

// FindNode returns the node with the given identifier. Not every backend
// offers a lookup by identifier, so the node list is scanned.
func FindNode(ctx context.Context, d Driver, id string) (model.Node, error) {
	nodes, err := d.ListNodes(ctx)
	if err != nil {
		return model.Node{}, err
	}
	for _, n := range nodes {
		if n.ID == id {
			return n, nil
		}
	}
	return model.Node{}, &model.ResourceNotFoundError{Driver: d.Name(), Kind: "node", ID: id}
}

// Action runs the named action on node. Actions the driver does not offer
// fail with a NotSupportedError.
func Action(ctx context.Context, d Driver, node model.Node, action string) (bool, error) {
	switch action {
	case ActionReboot:
		return d.RebootNode(ctx, node)
	case ActionDestroy:
		return d.DestroyNode(ctx, node)
	case ActionStart:
		if p, ok := d.(powerDriver); ok {
			return p.StartNode(ctx, node)
		}
	case ActionStop:
		if p, ok := d.(powerDriver); ok {
			return p.StopNode(ctx, node)
		}
	case ActionPowerReset:
		if r, ok := d.(resetDriver); ok {
			return r.PowerReset(ctx, node, DefaultResetType)
		}
	}
	return false, &model.NotSupportedError{Driver: d.Name(), Operation: action}
}
