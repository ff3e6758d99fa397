/*
 * Maxihost - unit tests.
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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"node-dns-drivers/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is the canned response for a method and path.
type fixture struct {
	status int
	file   string
}

// captured is the last request received by the fake server.
type captured struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]any
}

// newTestDriver returns a driver bound to a server replaying the fixtures,
// keyed by "METHOD /path".
func newTestDriver(t *testing.T, fixtures map[string]fixture, last *captured) *Driver {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.method = r.Method
		last.path = r.URL.Path
		last.query = r.URL.RawQuery
		last.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		last.body = nil
		_ = json.Unmarshal(raw, &last.body)

		fx, ok := fixtures[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(fx.status)
		if fx.file != "" {
			content, err := os.ReadFile(filepath.Join("testdata", fx.file))
			require.NoError(t, err)
			_, _ = w.Write(content)
		}
	}))
	t.Cleanup(srv.Close)

	d, err := NewDriver("token", WithEndpoint(srv.URL))
	require.NoError(t, err)
	return d
}

// Test_NewDriver tests NewDriver().
func Test_NewDriver(t *testing.T) {
	d, err := NewDriver("token")
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, d.Host())
	assert.Equal(t, "Maxihost", d.Name())

	d, err = NewDriver("token", WithEndpoint("https://api.staging.maxihost.com/"))
	require.NoError(t, err)
	assert.Equal(t, "api.staging.maxihost.com", d.Host())

	_, err = NewDriver("")
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

// Test_Driver_ListNodes tests Driver.ListNodes().
func Test_Driver_ListNodes(t *testing.T) {
	var last captured
	d := newTestDriver(t, map[string]fixture{
		"GET /devices": {status: http.StatusOK, file: "devices.json"},
	}, &last)

	nodes, err := d.ListNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "Bearer token", last.auth)

	web := nodes[0]
	assert.Equal(t, "5837", web.ID)
	assert.Equal(t, "web-01", web.Name)
	assert.Equal(t, model.NodeStateRunning, web.State)
	assert.Equal(t, []string{"10.100.0.12"}, web.PrivateIPs)
	assert.Equal(t, []string{"200.189.186.130"}, web.PublicIPs)
	assert.NotNil(t, web.CreatedAt)
	assert.Equal(t, "mh1", web.Extra.String("facility"))

	assert.Equal(t, model.NodeStateStopped, nodes[1].State)
	assert.Empty(t, nodes[1].PublicIPs)

	// Missing optional fields do not break the mapping.
	assert.Equal(t, model.NodeStateUnknown, nodes[2].State)
	assert.Empty(t, nodes[2].PrivateIPs)
	assert.Nil(t, nodes[2].CreatedAt)
}

// Test_Driver_powerActions tests the power actions and destroy.
func Test_Driver_powerActions(t *testing.T) {
	type testCase struct {
		name     string
		status   int
		action   func(d *Driver, node model.Node) (bool, error)
		expected struct {
			ok     bool
			method string
			path   string
			query  string
		}
	}

	run := func(t *testing.T, tc testCase) {
		var last captured
		d := newTestDriver(t, map[string]fixture{
			"PUT /devices/5837/actions": {status: tc.status},
			"DELETE /devices/5837":      {status: tc.status},
		}, &last)

		exp := tc.expected
		ok, err := tc.action(d, model.Node{ID: "5837", Driver: d})
		assert.NoError(t, err)
		assert.Equal(t, exp.ok, ok)
		assert.Equal(t, exp.method, last.method)
		assert.Equal(t, exp.path, last.path)
		assert.Equal(t, exp.query, last.query)
	}

	testCases := []testCase{
		{
			name:   "start",
			status: http.StatusOK,
			action: func(d *Driver, node model.Node) (bool, error) {
				return d.StartNode(context.Background(), node)
			},
			expected: struct {
				ok     bool
				method string
				path   string
				query  string
			}{true, http.MethodPut, "/devices/5837/actions", "type=power_on"},
		},
		{
			name:   "stop",
			status: http.StatusAccepted,
			action: func(d *Driver, node model.Node) (bool, error) {
				return d.StopNode(context.Background(), node)
			},
			expected: struct {
				ok     bool
				method string
				path   string
				query  string
			}{true, http.MethodPut, "/devices/5837/actions", "type=power_off"},
		},
		{
			name:   "reboot through the node",
			status: http.StatusOK,
			action: func(d *Driver, node model.Node) (bool, error) {
				return node.Reboot(context.Background())
			},
			expected: struct {
				ok     bool
				method string
				path   string
				query  string
			}{true, http.MethodPut, "/devices/5837/actions", "type=power_cycle"},
		},
		{
			name:   "reboot refused",
			status: http.StatusUnprocessableEntity,
			action: func(d *Driver, node model.Node) (bool, error) {
				return d.RebootNode(context.Background(), node)
			},
			expected: struct {
				ok     bool
				method string
				path   string
				query  string
			}{false, http.MethodPut, "/devices/5837/actions", "type=power_cycle"},
		},
		{
			name:   "destroy",
			status: http.StatusOK,
			action: func(d *Driver, node model.Node) (bool, error) {
				return node.Destroy(context.Background())
			},
			expected: struct {
				ok     bool
				method string
				path   string
				query  string
			}{true, http.MethodDelete, "/devices/5837", ""},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

// Test_Driver_CreateNode tests Driver.CreateNode().
func Test_Driver_CreateNode(t *testing.T) {
	req := CreateNodeRequest{
		Name:      "web-02",
		Size:      model.Size{ID: "c1.small.x86"},
		Image:     model.Image{ID: "ubuntu_18_04_x64_lts"},
		Location:  model.Location{ID: "MH1"},
		SSHKeyIDs: []string{"101"},
	}

	t.Run("created", func(t *testing.T) {
		var last captured
		d := newTestDriver(t, map[string]fixture{
			"POST /devices": {status: http.StatusCreated, file: "device_created.json"},
		}, &last)

		node, err := d.CreateNode(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "6001", node.ID)
		assert.Equal(t, "web-02", node.Name)
		assert.Equal(t, model.NodeStateStopped, node.State)
		assert.Equal(t, []string{"200.189.186.131"}, node.PublicIPs)

		assert.Equal(t, map[string]any{
			"hostname":         "web-02",
			"plan":             "c1.small.x86",
			"operating_system": "ubuntu_18_04_x64_lts",
			"facility":         "mh1",
			"billing_cycle":    "monthly",
			"ssh_keys":         []any{"101"},
		}, last.body)
	})

	t.Run("refused", func(t *testing.T) {
		var last captured
		d := newTestDriver(t, map[string]fixture{
			"POST /devices": {status: http.StatusUnprocessableEntity, file: "create_error.json"},
		}, &last)

		_, err := d.CreateNode(context.Background(), req)
		assert.True(t, errors.Is(err, model.ErrBackend))
		assert.EqualError(t, err, "Maxihost: create_node failed with status 422: Plan c1.small.x86 is out of stock in facility mh1")
	})
}

// Test_Driver_ListLocations tests Driver.ListLocations().
func Test_Driver_ListLocations(t *testing.T) {
	var last captured
	d := newTestDriver(t, map[string]fixture{
		"GET /regions": {status: http.StatusOK, file: "regions.json"},
	}, &last)

	locations, err := d.ListLocations(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []model.Location{{ID: "MH1", Name: "São Paulo", Country: "Brazil"}}, locations)

	locations, err = d.ListLocations(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, locations, 2)
	assert.Equal(t, "Miami", locations[1].Name)
}

// Test_Driver_ListSizes tests Driver.ListSizes().
func Test_Driver_ListSizes(t *testing.T) {
	var last captured
	d := newTestDriver(t, map[string]fixture{
		"GET /plans": {status: http.StatusOK, file: "plans.json"},
	}, &last)

	sizes, err := d.ListSizes(context.Background())
	require.NoError(t, err)
	require.Len(t, sizes, 2)
	assert.Equal(t, "c1.small.x86", sizes[0].ID)
	assert.Equal(t, 32768, sizes[0].RAM)
	assert.Equal(t, []string{"MH1"}, sizes[0].Extra["regions"])
	assert.Equal(t, 0, sizes[1].RAM)
	assert.Equal(t, []string{}, sizes[1].Extra["regions"])
	assert.Equal(t, "c1.custom", sizes[1].Extra.String("slug"))
	assert.Equal(t, "12", sizes[1].Extra.String("id"))
}

// Test_Driver_ListImages tests Driver.ListImages().
func Test_Driver_ListImages(t *testing.T) {
	var last captured
	d := newTestDriver(t, map[string]fixture{
		"GET /plans/operating-systems": {status: http.StatusOK, file: "operating_systems.json"},
	}, &last)

	images, err := d.ListImages(context.Background())
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "ubuntu_18_04_x64_lts", images[0].ID)
	assert.Equal(t, "Ubuntu 18.04 x64 LTS", images[0].Name)
	assert.Equal(t, "18.04", images[0].Extra.String("version"))
	assert.Equal(t, []string{"distro", "name", "operating_system", "pricing", "slug", "version"}, images[1].Extra.Keys())
}

// Test_Driver_KeyPairs tests Driver.ListKeyPairs() and Driver.CreateKeyPair().
func Test_Driver_KeyPairs(t *testing.T) {
	var last captured
	d := newTestDriver(t, map[string]fixture{
		"GET /account/keys":  {status: http.StatusOK, file: "keys.json"},
		"POST /account/keys": {status: http.StatusCreated, file: "key_created.json"},
	}, &last)

	pairs, err := d.ListKeyPairs(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "deploy", pairs[0].Name)
	assert.Equal(t, "101", pairs[0].Extra.String("id"))
	assert.Equal(t, "deploy", pairs[0].Extra.String("name"))

	pair, err := d.CreateKeyPair(context.Background(), "ops", "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAI ops@example")
	require.NoError(t, err)
	assert.Equal(t, "ops", pair.Name)
	assert.Equal(t, "5e:06:74:60:ee:31:58:a4:96:c7:2f:3a:91:d2:5b:78", pair.Fingerprint)
	assert.Equal(t, map[string]any{
		"name":       "ops",
		"public_key": "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAI ops@example",
	}, last.body)
}

// Test_Driver_getNode tests that the backend has no get by identifier.
func Test_Driver_getNode(t *testing.T) {
	d, err := NewDriver("token")
	require.NoError(t, err)
	assert.False(t, d.Supports("get_node"))
}

// Test_parseMemory tests parseMemory().
func Test_parseMemory(t *testing.T) {
	testCases := map[string]int{
		"32GB":  32768,
		"1 TB":  1048576,
		"512MB": 512,
		"2048":  2048,
		"":      0,
		"lots":  0,
	}
	for input, expected := range testCases {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, parseMemory(input))
		})
	}
}
