/*
 * CLI - test fixtures.
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
package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"node-dns-drivers/internal/compute"
	"node-dns-drivers/internal/model"
	"node-dns-drivers/internal/profile"

	"github.com/stretchr/testify/require"
)

const testProfiles = `current: prod
profiles:
  prod:
    compute:
      driver: maxihost
      apiKey: key
    dns:
      email: ops@example.com
      apiKey: cf-key
  nodns:
    compute:
      driver: maxihost
      apiKey: key
`

var testZone = model.Zone{ID: "1234", Domain: "example.com"}

// fakeCompute is a node driver over a fixed list of nodes.
type fakeCompute struct {
	nodes []model.Node
	calls []string
}

func (d *fakeCompute) Name() string { return "Fake" }

func (d *fakeCompute) ListNodes(ctx context.Context) ([]model.Node, error) {
	return d.nodes, nil
}

func (d *fakeCompute) RebootNode(ctx context.Context, node model.Node) (bool, error) {
	d.calls = append(d.calls, "reboot "+node.ID)
	return true, nil
}

func (d *fakeCompute) DestroyNode(ctx context.Context, node model.Node) (bool, error) {
	d.calls = append(d.calls, "destroy "+node.ID)
	return true, nil
}

// fakeDNS is a DNS driver over a single zone.
type fakeDNS struct {
	records []model.Record
	calls   []string
	nextID  int
}

func (d *fakeDNS) Name() string { return "FakeDNS" }

func (d *fakeDNS) ListZones(ctx context.Context) ([]model.Zone, error) {
	return []model.Zone{testZone}, nil
}

func (d *fakeDNS) ListRecords(ctx context.Context, zone model.Zone) ([]model.Record, error) {
	return d.records, nil
}

func (d *fakeDNS) GetRecord(ctx context.Context, zone model.Zone, id string) (model.Record, error) {
	for _, r := range d.records {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Record{}, &model.ResourceNotFoundError{Driver: d.Name(), Kind: "record", ID: id}
}

func (d *fakeDNS) CreateRecord(ctx context.Context, zone model.Zone, spec model.RecordSpec) (model.Record, error) {
	d.nextID++
	call := fmt.Sprintf("create %q %s %s %d", spec.Name, spec.Type, spec.Data, spec.TTL)
	if prio := spec.Extra.String("prio"); prio != "" {
		call += " prio=" + prio
	}
	d.calls = append(d.calls, call)
	return model.Record{
		ID:    fmt.Sprintf("new-%d", d.nextID),
		Name:  spec.Name,
		Type:  spec.Type,
		Data:  spec.Data,
		TTL:   spec.TTL,
		Zone:  zone,
		Extra: spec.Extra,
	}, nil
}

func (d *fakeDNS) DeleteRecord(ctx context.Context, record model.Record) (bool, error) {
	d.calls = append(d.calls, "delete "+record.ID)
	return true, nil
}

// testEnv is an app wired to fake drivers.
type testEnv struct {
	app     *app
	compute *fakeCompute
	dns     *fakeDNS
	config  string
}

func newTestEnv(t *testing.T) *testEnv {
	config := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(config, []byte(testProfiles), 0o600))

	env := &testEnv{config: config}
	env.compute = &fakeCompute{}
	env.compute.nodes = []model.Node{
		{ID: "1", Name: "web-1", State: model.NodeStateRunning, PublicIPs: []string{"10.0.0.1"}, Driver: env.compute},
		{ID: "2", Name: "db-1", State: model.NodeStateStopped, Driver: env.compute},
	}
	env.dns = &fakeDNS{records: []model.Record{
		{ID: "r1", Name: "www", Type: model.RecordTypeA, Data: "10.0.0.1", TTL: 1, Zone: testZone},
		{ID: "r2", Type: model.RecordTypeMX, Data: "mail.example.com", TTL: 300, Zone: testZone, Extra: model.Extra{"prio": "10"}},
	}}

	env.app = &app{
		newCompute: func(p profile.Compute) (compute.Driver, error) {
			return env.compute, nil
		},
		newDNS: func(p profile.DNS) (dnsDriver, error) {
			return env.dns, nil
		},
		now: func() time.Time {
			return time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
		},
	}
	return env
}

// run executes the command line and returns the standard output.
func (e *testEnv) run(args ...string) (string, error) {
	root := newRootCommand(e.app)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.Execute()
	return stdout.String(), err
}
