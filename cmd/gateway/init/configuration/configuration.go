/*
 * Configuration - node gateway configuration.
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
	"fmt"
	"time"

	"github.com/caarlos0/env/v8"
)

// Config struct for configuration environmental variables
type Config struct {
	ServerHost string `env:"SERVER_HOST" envDefault:"localhost"`
	ServerPort uint16 `env:"SERVER_PORT" envDefault:"8888"`

	MetricsHost string `env:"METRICS_HOST" envDefault:"0.0.0.0"`
	MetricsPort uint16 `env:"METRICS_PORT" envDefault:"8080"`

	ComputeDriver   string `env:"COMPUTE_DRIVER,required,notEmpty"`
	ComputeAPIKey   string `env:"COMPUTE_API_KEY,required,notEmpty"`
	ComputeEndpoint string `env:"COMPUTE_ENDPOINT" envDefault:""`
	// Timeout of the calls to the backend, in milliseconds
	RequestTimeout int `env:"REQUEST_TIMEOUT" envDefault:"30000"`

	// Events are not published when empty
	NATSURL  string `env:"NATS_URL" envDefault:""`
	NATSName string `env:"NATS_CLIENT_NAME" envDefault:"node-gateway"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Init sets up configuration by reading set environmental variables
func Init() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading configuration from environment failed: %w", err)
	}
	return cfg, nil
}

// GetServerAddress returns the address of the API server.
func (c Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// GetMetricsAddress returns the address of the metrics server.
func (c Config) GetMetricsAddress() string {
	return fmt.Sprintf("%s:%d", c.MetricsHost, c.MetricsPort)
}

// GetRequestTimeout returns the backend timeout as a duration.
func (c Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Millisecond
}
