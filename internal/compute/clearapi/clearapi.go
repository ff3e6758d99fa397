/*
 * ClearAPI - node driver for ClearOS ClearAPI hosts.
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

// Package clearapi implements the node driver for the ClearAPI REST API. A
// node is either a host or a guest; follow-up actions address it by the
// uuid found in its extra attributes.
package clearapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"node-dns-drivers/internal/driver"
	"node-dns-drivers/internal/model"
)

const (
	// Type is the backend type tag.
	Type = "clearapi"

	basePath = "/clearos/clearapi/v2/rest/host"

	OpGetHost        driver.Operation = "get_host"
	OpPowerReset     driver.Operation = "power_reset"
	OpUploadFirmware driver.Operation = "upload_firmware"
	OpPutFirmware    driver.Operation = "put_firmware"
	OpDeleteFirmware driver.Operation = "delete_firmware"
	OpBackupFirmware driver.Operation = "backup_firmware"
)

// ErrMissingUUID is returned by the host actions when the node does not carry
// a uuid.
var ErrMissingUUID = errors.New("node has no uuid")

// post returns a supported POST route.
func post(path, dataPath string) driver.Route {
	return driver.Route{
		Capability: driver.Supported,
		Method:     http.MethodPost,
		Path:       basePath + path,
		DataPath:   dataPath,
	}
}

// Backend is the ClearAPI backend configuration. There is no default host:
// every installation has its own.
var Backend = driver.Backend{
	Type: Type,
	Name: "ClearAPI",
	Routes: map[driver.Operation]driver.Route{
		driver.OpListNodes: {
			Capability: driver.Supported,
			Method:     http.MethodGet,
			Path:       basePath + "/get_all_host",
			DataPath:   "data",
		},
		driver.OpRebootNode:  {Capability: driver.Unsupported},
		driver.OpDestroyNode: {Capability: driver.Unsupported},
		driver.OpCreateNode:  {Capability: driver.Unsupported},
		OpGetHost:            post("/get_host", "data"),
		OpPowerReset:         post("/power_reset", ""),
		OpUploadFirmware:     post("/upload_firmware", ""),
		OpPutFirmware:        post("/put_firmware", ""),
		OpDeleteFirmware:     post("/delete_firmware", ""),
		OpBackupFirmware:     post("/take_backup_firmware", ""),
	},
	States: driver.StateMap{
		"Active": model.NodeStateRunning,
		"off":    model.NodeStateStopped,
	},
	Fallback:     model.NodeStateStopped,
	SuccessCodes: driver.DefaultSuccessCodes,
	Authorize:    driver.HeaderAuth("apikey"),
}

// Driver is a ClearAPI node driver.
type Driver struct {
	*driver.Driver
}

// HostInfo contains the power details of a host.
type HostInfo struct {
	ID               string
	UUID             string
	PowerControlInfo any
	PowerSupplyInfo  any
}

// NewDriver creates a driver for the ClearAPI installation at endpoint.
func NewDriver(key, endpoint string, opts ...driver.Option) (*Driver, error) {
	d, err := driver.New(Backend, key, endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return &Driver{Driver: d}, nil
}

// ListNodes returns every host.
func (d *Driver) ListNodes(ctx context.Context) ([]model.Node, error) {
	hosts, err := d.List(ctx, driver.OpListNodes, driver.Call{})
	if err != nil {
		return nil, err
	}
	nodes := make([]model.Node, 0, len(hosts))
	for _, h := range hosts {
		nodes = append(nodes, d.toNode(h))
	}
	return nodes, nil
}

// RebootNode is not supported by ClearAPI; use PowerReset.
func (d *Driver) RebootNode(ctx context.Context, node model.Node) (bool, error) {
	return d.Succeeded(ctx, driver.OpRebootNode, driver.Call{})
}

// DestroyNode is not supported by ClearAPI.
func (d *Driver) DestroyNode(ctx context.Context, node model.Node) (bool, error) {
	return d.Succeeded(ctx, driver.OpDestroyNode, driver.Call{})
}

// uuidBody returns the body shared by the host actions.
func uuidBody(node model.Node) (map[string]any, error) {
	uuid := node.Extra.String("uuid")
	if uuid == "" {
		return nil, ErrMissingUUID
	}
	return map[string]any{"uuid": uuid}, nil
}

// GetHost returns the power details of the host behind node.
func (d *Driver) GetHost(ctx context.Context, node model.Node) (HostInfo, error) {
	body, err := uuidBody(node)
	if err != nil {
		return HostInfo{}, err
	}
	f, err := d.Get(ctx, OpGetHost, driver.Call{Body: body}, "host", node.Extra.String("uuid"))
	if err != nil {
		return HostInfo{}, err
	}
	return HostInfo{
		ID:               f.String("id"),
		UUID:             f.String("uuid"),
		PowerControlInfo: f["power_control_info"],
		PowerSupplyInfo:  f["power_supply_info"],
	}, nil
}

// PowerReset resets the power of the host. The accepted reset types depend on
// the host's management controller.
func (d *Driver) PowerReset(ctx context.Context, node model.Node, resetType string) (bool, error) {
	body, err := uuidBody(node)
	if err != nil {
		return false, err
	}
	body["reset_type"] = resetType
	return d.Succeeded(ctx, OpPowerReset, driver.Call{Body: body})
}

// UploadFirmware uploads a zipped firmware image for the host.
func (d *Driver) UploadFirmware(ctx context.Context, node model.Node, name string, zip io.Reader) (bool, error) {
	uuid := node.Extra.String("uuid")
	if uuid == "" {
		return false, ErrMissingUUID
	}
	return d.Succeeded(ctx, OpUploadFirmware, driver.Call{
		Form:  url.Values{"uuid": []string{uuid}},
		Files: []driver.File{{Param: "zip_file", Name: name, Reader: zip}},
	})
}

// firmwareAction runs an action on an uploaded firmware.
func (d *Driver) firmwareAction(ctx context.Context, op driver.Operation, node model.Node, firmwareID string) (bool, error) {
	body, err := uuidBody(node)
	if err != nil {
		return false, err
	}
	body["firmware_id"] = firmwareID
	return d.Succeeded(ctx, op, driver.Call{Body: body})
}

// PutFirmware flashes an uploaded firmware onto the host.
func (d *Driver) PutFirmware(ctx context.Context, node model.Node, firmwareID string) (bool, error) {
	return d.firmwareAction(ctx, OpPutFirmware, node, firmwareID)
}

// DeleteFirmware deletes an uploaded firmware.
func (d *Driver) DeleteFirmware(ctx context.Context, node model.Node, firmwareID string) (bool, error) {
	return d.firmwareAction(ctx, OpDeleteFirmware, node, firmwareID)
}

// BackupFirmware takes a backup of the firmware running on the host.
func (d *Driver) BackupFirmware(ctx context.Context, node model.Node) (bool, error) {
	body, err := uuidBody(node)
	if err != nil {
		return false, err
	}
	return d.Succeeded(ctx, OpBackupFirmware, driver.Call{Body: body})
}
