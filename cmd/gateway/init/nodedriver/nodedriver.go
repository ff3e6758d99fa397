/*
 * Node driver - node driver initialization.
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
package nodedriver

import (
	"fmt"
	"net/http"

	"node-dns-drivers/cmd/gateway/init/configuration"
	"node-dns-drivers/internal/compute"
	"node-dns-drivers/internal/driver"

	log "github.com/sirupsen/logrus"
)

// Init creates the node driver selected by the configuration.
func Init(config configuration.Config) (compute.Driver, error) {
	d, err := compute.New(
		config.ComputeDriver,
		config.ComputeAPIKey,
		config.ComputeEndpoint,
		driver.WithHTTPClient(&http.Client{Timeout: config.GetRequestTimeout()}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating the %s node driver failed: %w", config.ComputeDriver, err)
	}
	log.Infof("Using the %s node driver", d.Name())
	return d, nil
}
