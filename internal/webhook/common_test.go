/*
 * Common test functions - fake DNS client used by the webhook tests.
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
package webhook

import (
	"context"
	"fmt"

	"node-dns-drivers/internal/model"
)

// testZone is the zone used by most tests.
var testZone = model.Zone{ID: "1234", Domain: "example.com", Type: "master"}

// testRecord returns a record of testZone.
func testRecord(id, name string, rt model.RecordType, data string, ttl int) model.Record {
	return model.Record{ID: id, Name: name, Type: rt, Data: data, TTL: ttl, Zone: testZone}
}

// fakeClient simulates the DNS driver and keeps track of the calls.
type fakeClient struct {
	zones   []model.Zone
	records map[string][]model.Record

	zonesErr   error
	recordsErr error
	createErr  error
	updateErr  error
	deleteErr  error
	deleteOK   bool

	calls []string
}

// newFakeClient returns a client serving testZone with records.
func newFakeClient(records ...model.Record) *fakeClient {
	return &fakeClient{
		zones:    []model.Zone{testZone},
		records:  map[string][]model.Record{testZone.ID: records},
		deleteOK: true,
	}
}

func (c *fakeClient) ListZones(ctx context.Context) ([]model.Zone, error) {
	c.calls = append(c.calls, "ListZones")
	return c.zones, c.zonesErr
}

func (c *fakeClient) ListRecords(ctx context.Context, zone model.Zone) ([]model.Record, error) {
	c.calls = append(c.calls, "ListRecords "+zone.Domain)
	return c.records[zone.ID], c.recordsErr
}

func (c *fakeClient) CreateRecord(ctx context.Context, zone model.Zone, spec model.RecordSpec) (model.Record, error) {
	c.calls = append(c.calls, fmt.Sprintf("CreateRecord %s %q %s %s %d%s", zone.Domain, spec.Name, spec.Type, spec.Data, spec.TTL, prioSuffix(spec.Extra)))
	if c.createErr != nil {
		return model.Record{}, c.createErr
	}
	return model.Record{Name: spec.Name, Type: spec.Type, Data: spec.Data, TTL: spec.TTL, Zone: zone}, nil
}

func (c *fakeClient) UpdateRecord(ctx context.Context, record model.Record, spec model.RecordSpec) (model.Record, error) {
	c.calls = append(c.calls, fmt.Sprintf("UpdateRecord %s %q %s %s %d%s", record.ID, spec.Name, spec.Type, spec.Data, spec.TTL, prioSuffix(spec.Extra)))
	if c.updateErr != nil {
		return model.Record{}, c.updateErr
	}
	return record, nil
}

func (c *fakeClient) DeleteRecord(ctx context.Context, record model.Record) (bool, error) {
	c.calls = append(c.calls, "DeleteRecord "+record.ID)
	return c.deleteOK, c.deleteErr
}

// prioSuffix formats the priority of a spec, if any.
func prioSuffix(extra model.Extra) string {
	if prio := extra.String("prio"); prio != "" {
		return " prio=" + prio
	}
	return ""
}
