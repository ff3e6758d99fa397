/*
 * Configuration - unit tests.
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
package configuration

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// variables lists the variables read by Init.
var variables = []string{
	"SERVER_HOST", "SERVER_PORT", "METRICS_HOST", "METRICS_PORT",
	"COMPUTE_DRIVER", "COMPUTE_API_KEY", "COMPUTE_ENDPOINT", "REQUEST_TIMEOUT",
	"NATS_URL", "NATS_CLIENT_NAME", "LOG_LEVEL", "LOG_FORMAT",
}

func Test_Init(t *testing.T) {
	type expected struct {
		config Config
		err    string
	}

	type testCase struct {
		name     string
		env      map[string]string
		expected expected
	}

	defaults := Config{
		ServerHost:     "localhost",
		ServerPort:     8888,
		MetricsHost:    "0.0.0.0",
		MetricsPort:    8080,
		ComputeDriver:  "maxihost",
		ComputeAPIKey:  "secret",
		RequestTimeout: 30000,
		NATSName:       "node-gateway",
		LogLevel:       "info",
		LogFormat:      "text",
	}

	run := func(t *testing.T, tc testCase) {
		for _, k := range variables {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
		for k, v := range tc.env {
			t.Setenv(k, v)
		}
		actual, err := Init()
		if tc.expected.err != "" {
			assert.ErrorContains(t, err, tc.expected.err)
			return
		}
		assert.NoError(t, err)
		assert.Equal(t, tc.expected.config, actual)
	}

	custom := defaults
	custom.ServerHost = "0.0.0.0"
	custom.ServerPort = 9000
	custom.ComputeDriver = "clearapi"
	custom.ComputeEndpoint = "clear.example.com:8443"
	custom.RequestTimeout = 5000
	custom.NATSURL = "nats://nats:4222"
	custom.LogLevel = "debug"
	custom.LogFormat = "json"

	testCases := []testCase{
		{
			name: "defaults",
			env: map[string]string{
				"COMPUTE_DRIVER":  "maxihost",
				"COMPUTE_API_KEY": "secret",
			},
			expected: expected{config: defaults},
		},
		{
			name: "custom values",
			env: map[string]string{
				"SERVER_HOST":      "0.0.0.0",
				"SERVER_PORT":      "9000",
				"COMPUTE_DRIVER":   "clearapi",
				"COMPUTE_API_KEY":  "secret",
				"COMPUTE_ENDPOINT": "clear.example.com:8443",
				"REQUEST_TIMEOUT":  "5000",
				"NATS_URL":         "nats://nats:4222",
				"LOG_LEVEL":        "debug",
				"LOG_FORMAT":       "json",
			},
			expected: expected{config: custom},
		},
		{
			name:     "missing driver",
			env:      map[string]string{"COMPUTE_API_KEY": "secret"},
			expected: expected{err: "COMPUTE_DRIVER"},
		},
		{
			name: "empty key",
			env: map[string]string{
				"COMPUTE_DRIVER":  "maxihost",
				"COMPUTE_API_KEY": "",
			},
			expected: expected{err: "COMPUTE_API_KEY"},
		},
		{
			name: "metrics port out of range",
			env: map[string]string{
				"COMPUTE_DRIVER":  "maxihost",
				"COMPUTE_API_KEY": "secret",
				"METRICS_PORT":    "70000",
			},
			expected: expected{err: "value out of range"},
		},
		{
			name: "negative server port",
			env: map[string]string{
				"COMPUTE_DRIVER":  "maxihost",
				"COMPUTE_API_KEY": "secret",
				"SERVER_PORT":     "-1",
			},
			expected: expected{err: "ServerPort"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_Config_addresses(t *testing.T) {
	cfg := Config{ServerHost: "localhost", ServerPort: 8888, MetricsHost: "0.0.0.0", MetricsPort: 8080, RequestTimeout: 1500}
	assert.Equal(t, "localhost:8888", cfg.GetServerAddress())
	assert.Equal(t, "0.0.0.0:8080", cfg.GetMetricsAddress())
	assert.Equal(t, 1500*time.Millisecond, cfg.GetRequestTimeout())
}
