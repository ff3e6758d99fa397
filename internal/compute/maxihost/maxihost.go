/*
 * Maxihost - node driver for the Maxihost bare metal API.
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
package maxihost

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"node-dns-drivers/internal/driver"
	"node-dns-drivers/internal/model"
)

const (
	// Type is the backend type tag.
	Type = "maxihost"
	// DefaultHost is the public API host.
	DefaultHost = "api.maxihost.com"

	actionPowerOn    = "power_on"
	actionPowerOff   = "power_off"
	actionPowerCycle = "power_cycle"

	billingMonthly = "monthly"
)

// route returns a supported route.
func route(method, path, dataPath string) driver.Route {
	return driver.Route{
		Capability: driver.Supported,
		Method:     method,
		Path:       path,
		DataPath:   dataPath,
	}
}

// Backend is the Maxihost backend configuration.
var Backend = driver.Backend{
	Type:        Type,
	Name:        "Maxihost",
	DefaultHost: DefaultHost,
	Routes: map[driver.Operation]driver.Route{
		driver.OpListNodes:     route(http.MethodGet, "/devices", "devices"),
		driver.OpCreateNode:    route(http.MethodPost, "/devices", ""),
		driver.OpStartNode:     route(http.MethodPut, "/devices/{id}/actions", ""),
		driver.OpStopNode:      route(http.MethodPut, "/devices/{id}/actions", ""),
		driver.OpRebootNode:    route(http.MethodPut, "/devices/{id}/actions", ""),
		driver.OpDestroyNode:   route(http.MethodDelete, "/devices/{id}", ""),
		driver.OpListLocations: route(http.MethodGet, "/regions", "regions"),
		driver.OpListSizes:     route(http.MethodGet, "/plans", "servers"),
		driver.OpListImages:    route(http.MethodGet, "/plans/operating-systems", "operating-systems"),
		driver.OpListKeyPairs:  route(http.MethodGet, "/account/keys", "ssh_keys"),
		driver.OpCreateKeyPair: route(http.MethodPost, "/account/keys", ""),
		driver.OpGetNode:       {Capability: driver.Unsupported},
	},
	States: driver.StateMap{
		"true":  model.NodeStateRunning,
		"false": model.NodeStateStopped,
	},
	Fallback:     model.NodeStateUnknown,
	SuccessCodes: driver.DefaultSuccessCodes,
	Envelope: driver.EnvelopeFormat{
		MessageField: "error_messages",
	},
	Authorize: driver.BearerAuth,
}

// Driver is a Maxihost node driver.
type Driver struct {
	*driver.Driver
}

// CreateNodeRequest contains the parameters of a new device.
type CreateNodeRequest struct {
	Name     string
	Size     model.Size
	Image    model.Image
	Location model.Location
	// SSHKeyIDs are the identifiers of registered keys to install.
	SSHKeyIDs []string
}

// NewDriver creates a driver for the Maxihost API. The public API host is
// used unless the endpoint option is given.
func NewDriver(key string, opts ...Option) (*Driver, error) {
	o := options{endpoint: DefaultHost}
	for _, opt := range opts {
		opt(&o)
	}
	d, err := driver.New(Backend, key, o.endpoint, o.driverOptions...)
	if err != nil {
		return nil, err
	}
	return &Driver{Driver: d}, nil
}

// options are the construction options.
type options struct {
	endpoint      string
	driverOptions []driver.Option
}

// Option configures NewDriver.
type Option func(o *options)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		if endpoint != "" {
			o.endpoint = endpoint
		}
	}
}

// WithDriverOptions passes options to the generic driver.
func WithDriverOptions(opts ...driver.Option) Option {
	return func(o *options) {
		o.driverOptions = append(o.driverOptions, opts...)
	}
}

// ListNodes returns every device.
func (d *Driver) ListNodes(ctx context.Context) ([]model.Node, error) {
	devices, err := d.List(ctx, driver.OpListNodes, driver.Call{})
	if err != nil {
		return nil, err
	}
	nodes := make([]model.Node, 0, len(devices))
	for _, dev := range devices {
		nodes = append(nodes, d.toNode(dev))
	}
	return nodes, nil
}

// CreateNode provisions a new device on a monthly billing cycle.
func (d *Driver) CreateNode(ctx context.Context, req CreateNodeRequest) (model.Node, error) {
	body := map[string]any{
		"hostname":         req.Name,
		"plan":             req.Size.ID,
		"operating_system": req.Image.ID,
		"facility":         strings.ToLower(req.Location.ID),
		"billing_cycle":    billingMonthly,
	}
	if len(req.SSHKeyIDs) > 0 {
		body["ssh_keys"] = req.SSHKeyIDs
	}
	f, err := d.Get(ctx, driver.OpCreateNode, driver.Call{Body: body}, "device", req.Name)
	if err != nil {
		return model.Node{}, err
	}
	// Some API versions wrap the new device in a list.
	if devices := f.Records("devices"); len(devices) > 0 {
		f = devices[0]
	}
	return d.toNode(f), nil
}

// powerAction runs a power action on a device.
func (d *Driver) powerAction(ctx context.Context, op driver.Operation, node model.Node, action string) (bool, error) {
	return d.Succeeded(ctx, op, driver.Call{
		Params: map[string]string{"id": node.ID},
		Query:  url.Values{"type": []string{action}},
	})
}

// StartNode powers a device on.
func (d *Driver) StartNode(ctx context.Context, node model.Node) (bool, error) {
	return d.powerAction(ctx, driver.OpStartNode, node, actionPowerOn)
}

// StopNode powers a device off.
func (d *Driver) StopNode(ctx context.Context, node model.Node) (bool, error) {
	return d.powerAction(ctx, driver.OpStopNode, node, actionPowerOff)
}

// RebootNode power cycles a device.
func (d *Driver) RebootNode(ctx context.Context, node model.Node) (bool, error) {
	return d.powerAction(ctx, driver.OpRebootNode, node, actionPowerCycle)
}

// DestroyNode deletes a device.
func (d *Driver) DestroyNode(ctx context.Context, node model.Node) (bool, error) {
	return d.Succeeded(ctx, driver.OpDestroyNode, driver.Call{
		Params: map[string]string{"id": node.ID},
	})
}

// ListLocations returns the regions. With available set, only the regions
// currently accepting orders are returned.
func (d *Driver) ListLocations(ctx context.Context, available bool) ([]model.Location, error) {
	regions, err := d.List(ctx, driver.OpListLocations, driver.Call{})
	if err != nil {
		return nil, err
	}
	locations := make([]model.Location, 0, len(regions))
	for _, r := range regions {
		if available && !r.Bool("available") {
			continue
		}
		locations = append(locations, toLocation(r))
	}
	return locations, nil
}

// ListSizes returns the hardware plans.
func (d *Driver) ListSizes(ctx context.Context) ([]model.Size, error) {
	plans, err := d.List(ctx, driver.OpListSizes, driver.Call{})
	if err != nil {
		return nil, err
	}
	sizes := make([]model.Size, 0, len(plans))
	for _, p := range plans {
		sizes = append(sizes, toSize(p))
	}
	return sizes, nil
}

// ListImages returns the operating systems.
func (d *Driver) ListImages(ctx context.Context) ([]model.Image, error) {
	systems, err := d.List(ctx, driver.OpListImages, driver.Call{})
	if err != nil {
		return nil, err
	}
	images := make([]model.Image, 0, len(systems))
	for _, s := range systems {
		images = append(images, toImage(s))
	}
	return images, nil
}

// ListKeyPairs returns the SSH keys of the account.
func (d *Driver) ListKeyPairs(ctx context.Context) ([]model.KeyPair, error) {
	keys, err := d.List(ctx, driver.OpListKeyPairs, driver.Call{})
	if err != nil {
		return nil, err
	}
	pairs := make([]model.KeyPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, toKeyPair(k))
	}
	return pairs, nil
}

// CreateKeyPair registers a public key.
func (d *Driver) CreateKeyPair(ctx context.Context, name, publicKey string) (model.KeyPair, error) {
	body := map[string]any{"name": name, "public_key": publicKey}
	f, err := d.Get(ctx, driver.OpCreateKeyPair, driver.Call{Body: body}, "key pair", name)
	if err != nil {
		return model.KeyPair{}, err
	}
	return toKeyPair(f), nil
}
