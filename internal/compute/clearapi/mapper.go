/*
 * Mapper - conversion of ClearAPI hosts to nodes.
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
package clearapi

import (
	"node-dns-drivers/internal/driver"
	"node-dns-drivers/internal/model"
)

// toNode converts a host record. Hosts only expose a private address.
func (d *Driver) toNode(f driver.Fields) model.Node {
	privateIPs := []string{}
	if ip := f.String("ipv4"); ip != "" {
		privateIPs = append(privateIPs, ip)
	}
	return model.Node{
		ID:         f.String("id"),
		Name:       f.String("model_name"),
		State:      d.State(f.String("status")),
		PrivateIPs: privateIPs,
		PublicIPs:  []string{},
		CreatedAt:  f.Time("add_date"),
		Extra:      f.Extra(),
		Driver:     d,
	}
}
