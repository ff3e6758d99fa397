/*
 * Options - listen addresses and timeouts of the servers.
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
package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v8"
)

// SocketOptions contains the options, read from environment variables, that
// influence the listening sockets.
type SocketOptions struct {
	// Webhook host
	WebhookHost string `env:"WEBHOOK_HOST" envDefault:"localhost"`
	// Webhook port
	WebhookPort uint16 `env:"WEBHOOK_PORT" envDefault:"8888"`
	// Metrics, liveness and readiness host
	MetricsHost string `env:"METRICS_HOST" envDefault:"0.0.0.0"`
	// Metrics, liveness and readiness port
	MetricsPort uint16 `env:"METRICS_PORT" envDefault:"8080"`
	// Read timeout in milliseconds
	ReadTimeout int `env:"READ_TIMEOUT" envDefault:"60000"`
	// Write timeout in milliseconds
	WriteTimeout int `env:"WRITE_TIMEOUT" envDefault:"60000"`
}

// ReadSocketOptions reads the socket options from the environment.
func ReadSocketOptions() (*SocketOptions, error) {
	opts := &SocketOptions{}
	if err := env.Parse(opts); err != nil {
		return nil, fmt.Errorf("reading socket options failed: %w", err)
	}
	return opts, nil
}

// GetWebhookAddress returns the webhook address as "host:port".
func (o SocketOptions) GetWebhookAddress() string {
	return fmt.Sprintf("%s:%d", o.WebhookHost, o.WebhookPort)
}

// GetMetricsAddress returns the address of the metrics socket as
// "host:port".
func (o SocketOptions) GetMetricsAddress() string {
	return fmt.Sprintf("%s:%d", o.MetricsHost, o.MetricsPort)
}

// GetReadTimeout returns the read timeout.
func (o SocketOptions) GetReadTimeout() time.Duration {
	return time.Duration(o.ReadTimeout) * time.Millisecond
}

// GetWriteTimeout returns the write timeout.
func (o SocketOptions) GetWriteTimeout() time.Duration {
	return time.Duration(o.WriteTimeout) * time.Millisecond
}
