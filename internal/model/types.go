/*
 * API-independent types.
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

// Package model contains the backend independent entities returned by the
// drivers. Entities are value snapshots: they are built fresh on every call
// and never modified afterwards. Every entity keeps a handle to the driver
// that produced it, so that follow-up operations can be routed back. The
// handle is a plain interface value; using an entity after its driver has
// been discarded is not supported.
package model

import (
	"context"
	"time"
)

// NodeDriver is the handle kept by nodes to route follow-up operations.
type NodeDriver interface {
	// Name returns the display name of the driver.
	Name() string
	// RebootNode reboots a node.
	RebootNode(ctx context.Context, node Node) (bool, error)
	// DestroyNode destroys a node.
	DestroyNode(ctx context.Context, node Node) (bool, error)
}

// DNSDriver is the handle kept by zones and records to route follow-up
// operations.
type DNSDriver interface {
	// Name returns the display name of the driver.
	Name() string
	// ListRecords returns the records of a zone.
	ListRecords(ctx context.Context, zone Zone) ([]Record, error)
	// DeleteZone deletes a zone.
	DeleteZone(ctx context.Context, zone Zone) (bool, error)
	// UpdateRecord updates a record and returns the server-confirmed result.
	UpdateRecord(ctx context.Context, record Record, spec RecordSpec) (Record, error)
	// DeleteRecord deletes a record.
	DeleteRecord(ctx context.Context, record Record) (bool, error)
}

// Node represents a compute node: a physical host, a device or a guest.
type Node struct {
	ID         string
	Name       string
	State      NodeState
	PrivateIPs []string
	PublicIPs  []string
	CreatedAt  *time.Time
	Extra      Extra
	Driver     NodeDriver
}

// Reboot reboots the node through its driver.
func (n Node) Reboot(ctx context.Context) (bool, error) {
	if n.Driver == nil {
		return false, ErrNoDriver
	}
	return n.Driver.RebootNode(ctx, n)
}

// Destroy destroys the node through its driver.
func (n Node) Destroy(ctx context.Context) (bool, error) {
	if n.Driver == nil {
		return false, ErrNoDriver
	}
	return n.Driver.DestroyNode(ctx, n)
}

// Zone represents a DNS zone.
type Zone struct {
	ID     string
	Domain string
	Type   string
	TTL    int
	Extra  Extra
	Driver DNSDriver
}

// ListRecords lists the records of the zone through its driver.
func (z Zone) ListRecords(ctx context.Context) ([]Record, error) {
	if z.Driver == nil {
		return nil, ErrNoDriver
	}
	return z.Driver.ListRecords(ctx, z)
}

// Delete deletes the zone through its driver.
func (z Zone) Delete(ctx context.Context) (bool, error) {
	if z.Driver == nil {
		return false, ErrNoDriver
	}
	return z.Driver.DeleteZone(ctx, z)
}

// Record represents a DNS record. An empty name means the zone apex.
type Record struct {
	ID     string
	Name   string
	Type   RecordType
	Data   string
	TTL    int
	Zone   Zone
	Extra  Extra
	Driver DNSDriver
}

// Update updates the record through its driver. The receiver is left
// untouched; the updated snapshot is returned.
func (r Record) Update(ctx context.Context, spec RecordSpec) (Record, error) {
	if r.Driver == nil {
		return Record{}, ErrNoDriver
	}
	return r.Driver.UpdateRecord(ctx, r, spec)
}

// Delete deletes the record through its driver.
func (r Record) Delete(ctx context.Context) (bool, error) {
	if r.Driver == nil {
		return false, ErrNoDriver
	}
	return r.Driver.DeleteRecord(ctx, r)
}

// FQDN returns the fully qualified name of the record, without the trailing
// dot.
func (r Record) FQDN() string {
	if r.Name == "" {
		return r.Zone.Domain
	}
	return r.Name + "." + r.Zone.Domain
}

// RecordSpec contains the values used to create or update a record. On
// update, zero values keep the current value of the record.
type RecordSpec struct {
	Name  string
	Type  RecordType
	Data  string
	TTL   int
	Extra Extra
}

// Location is a facility where nodes can be created.
type Location struct {
	ID      string
	Name    string
	Country string
}

// Size is a hardware plan.
type Size struct {
	ID    string
	Name  string
	RAM   int
	Extra Extra
}

// Image is an operating system image.
type Image struct {
	ID    string
	Name  string
	Extra Extra
}

// KeyPair is an SSH key registered with the backend.
type KeyPair struct {
	Name        string
	Fingerprint string
	PublicKey   string
	Extra       Extra
}
