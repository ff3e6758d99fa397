/*
 * CLI - unit tests.
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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"node-dns-drivers/internal/gateway"
	"node-dns-drivers/internal/model"
	"node-dns-drivers/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_nodes(t *testing.T) {
	type expected struct {
		output []string
		calls  []string
		err    string
	}

	type testCase struct {
		name     string
		args     []string
		expected expected
	}

	run := func(t *testing.T, tc testCase) {
		env := newTestEnv(t)
		out, err := env.run(tc.args...)
		if tc.expected.err != "" {
			assert.ErrorContains(t, err, tc.expected.err)
		} else {
			assert.NoError(t, err)
		}
		for _, s := range tc.expected.output {
			assert.Contains(t, out, s)
		}
		assert.Equal(t, tc.expected.calls, env.compute.calls)
	}

	testCases := []testCase{
		{
			name:     "list",
			args:     []string{"nodes", "list"},
			expected: expected{output: []string{"ID", "web-1", "running", "10.0.0.1", "db-1", "stopped"}},
		},
		{
			name:     "get",
			args:     []string{"nodes", "get", "2"},
			expected: expected{output: []string{"db-1"}},
		},
		{
			name:     "get unknown",
			args:     []string{"nodes", "get", "9"},
			expected: expected{err: `Fake: node "9" does not exist`},
		},
		{
			name:     "reboot",
			args:     []string{"nodes", "reboot", "1"},
			expected: expected{output: []string{"reboot", "true"}, calls: []string{"reboot 1"}},
		},
		{
			name:     "destroy without confirmation",
			args:     []string{"nodes", "destroy", "1"},
			expected: expected{err: "refusing to destroy node 1 without --yes"},
		},
		{
			name:     "destroy",
			args:     []string{"nodes", "destroy", "--yes", "2"},
			expected: expected{calls: []string{"destroy 2"}},
		},
		{
			name:     "unsupported action",
			args:     []string{"nodes", "power-reset", "1"},
			expected: expected{err: "Fake: operation power-reset is not supported"},
		},
		{
			name:     "invalid output",
			args:     []string{"-o", "xml", "nodes", "list"},
			expected: expected{err: "invalid output format 'xml'"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_nodes_json(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run("-o", "json", "nodes", "list")
	require.NoError(t, err)

	var views []gateway.NodeView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "web-1", views[0].Name)
	assert.Equal(t, "Fake", views[0].Driver)
}

func Test_records(t *testing.T) {
	type expected struct {
		output []string
		calls  []string
		err    string
	}

	type testCase struct {
		name     string
		args     []string
		expected expected
	}

	run := func(t *testing.T, tc testCase) {
		env := newTestEnv(t)
		out, err := env.run(tc.args...)
		if tc.expected.err != "" {
			assert.ErrorContains(t, err, tc.expected.err)
		} else {
			assert.NoError(t, err)
		}
		for _, s := range tc.expected.output {
			assert.Contains(t, out, s)
		}
		assert.Equal(t, tc.expected.calls, env.dns.calls)
	}

	testCases := []testCase{
		{
			name:     "zones",
			args:     []string{"zones", "list"},
			expected: expected{output: []string{"1234", "example.com"}},
		},
		{
			name:     "list by domain",
			args:     []string{"records", "list", "Example.com."},
			expected: expected{output: []string{"www.example.com", "auto", "10 mail.example.com", "300"}},
		},
		{
			name:     "list by id",
			args:     []string{"records", "list", "1234"},
			expected: expected{output: []string{"r1", "r2"}},
		},
		{
			name:     "unknown zone",
			args:     []string{"records", "list", "example.org"},
			expected: expected{err: `FakeDNS: zone "example.org" does not exist`},
		},
		{
			name: "create",
			args: []string{"records", "create", "example.com", "ftp", "a", "10.0.0.7", "--ttl", "120"},
			expected: expected{
				output: []string{"new-1", "ftp.example.com"},
				calls:  []string{`create "ftp" A 10.0.0.7 120`},
			},
		},
		{
			name:     "create mx at apex",
			args:     []string{"records", "create", "example.com", "@", "MX", "mx2.example.com", "--prio", "20"},
			expected: expected{calls: []string{`create "" MX mx2.example.com 1 prio=20`}},
		},
		{
			name:     "create unknown type",
			args:     []string{"records", "create", "example.com", "x", "PTR", "host"},
			expected: expected{err: "unknown record type 'PTR'"},
		},
		{
			name:     "delete",
			args:     []string{"records", "delete", "example.com", "r1"},
			expected: expected{output: []string{"deleted record r1 (www.example.com A)"}, calls: []string{"delete r1"}},
		},
		{
			name:     "delete unknown",
			args:     []string{"records", "delete", "example.com", "r9"},
			expected: expected{err: `record "r9" does not exist`},
		},
		{
			name: "export",
			args: []string{"records", "export", "example.com"},
			expected: expected{output: []string{
				"$ORIGIN example.com.",
				"2026101700",
				"www.example.com.\t3600\tIN\tA\t10.0.0.1",
				"example.com.\t300\tIN\tMX\t10 mail.example.com.",
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_records_import(t *testing.T) {
	zone := `$ORIGIN example.com.
$TTL 600
www	IN	A	10.0.0.1
ftp	IN	A	10.0.0.7
@	IN	MX	20 mx2.example.com.
`
	file := filepath.Join(t.TempDir(), "example.com.zone")
	require.NoError(t, os.WriteFile(file, []byte(zone), 0o600))

	t.Run("dry run", func(t *testing.T) {
		env := newTestEnv(t)
		out, err := env.run("records", "import", "example.com", file, "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "would create ftp.example.com A 10.0.0.7")
		assert.Contains(t, out, "2 records created, 1 already present")
		assert.Empty(t, env.dns.calls)
	})

	t.Run("applied", func(t *testing.T) {
		env := newTestEnv(t)
		out, err := env.run("records", "import", "example.com", file)
		require.NoError(t, err)
		assert.Equal(t, []string{
			`create "ftp" A 10.0.0.7 600`,
			`create "" MX mx2.example.com 600 prio=20`,
		}, env.dns.calls)
		assert.Contains(t, out, "2 records created, 1 already present")
	})
}

func Test_profiles(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("profiles", "list")
	require.NoError(t, err)
	assert.Equal(t, []string{"  nodns", "* prod"}, strings.Split(strings.TrimRight(out, "\n"), "\n"))

	_, err = env.run("profiles", "use", "missing")
	assert.EqualError(t, err, "profile 'missing' does not exist")

	_, err = env.run("profiles", "use", "nodns")
	require.NoError(t, err)
	f, err := profile.Load(env.config)
	require.NoError(t, err)
	assert.Equal(t, "nodns", f.Current)

	_, err = env.run("zones", "list")
	assert.EqualError(t, err, "the profile has no dns settings")

	_, err = env.run("--profile", "prod", "zones", "list")
	assert.NoError(t, err)
}

func Test_findZone(t *testing.T) {
	env := newTestEnv(t)
	zone, err := findZone(t.Context(), env.dns, "EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, testZone, zone)

	_, err = findZone(t.Context(), env.dns, "example.net")
	assert.ErrorIs(t, err, model.ErrResourceNotFound)
}
