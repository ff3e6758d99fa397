/*
 * DNS provider - creation of the CloudFlare webhook provider.
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
package dnsprovider

import (
	"fmt"

	"node-dns-drivers/internal/webhook"

	"sigs.k8s.io/external-dns/provider"
)

// Init reads the provider configuration from the environment and creates
// the CloudFlare provider.
func Init() (provider.Provider, error) {
	config, err := webhook.NewConfiguration()
	if err != nil {
		return nil, err
	}
	p, err := webhook.NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("creating the CloudFlare provider failed: %w", err)
	}
	return p, nil
}
