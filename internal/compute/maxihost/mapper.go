/*
 * Mapper - conversion of Maxihost records to entities.
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
	"strconv"
	"strings"

	"node-dns-drivers/internal/driver"
	"node-dns-drivers/internal/model"

	"github.com/spf13/cast"
)

// privateMarker identifies private addresses in ip_description.
const privateMarker = "Private"

// toNode converts a device record.
func (d *Driver) toNode(f driver.Fields) model.Node {
	privateIPs := []string{}
	publicIPs := []string{}
	for _, ip := range f.Records("ips") {
		addr := ip.String("ip_address")
		if addr == "" {
			continue
		}
		if strings.Contains(ip.String("ip_description"), privateMarker) {
			privateIPs = append(privateIPs, addr)
		} else {
			publicIPs = append(publicIPs, addr)
		}
	}

	state := model.NodeStateUnknown
	if f.Has("power_status") {
		state = d.State(strconv.FormatBool(f.Bool("power_status")))
	}

	return model.Node{
		ID:         f.String("id"),
		Name:       f.String("description"),
		State:      state,
		PrivateIPs: privateIPs,
		PublicIPs:  publicIPs,
		CreatedAt:  f.Time("created_at"),
		Extra:      f.Extra(),
		Driver:     d,
	}
}

// toLocation converts a region record.
func toLocation(f driver.Fields) model.Location {
	loc := f.Map("location")
	return model.Location{
		ID:      f.String("slug"),
		Name:    loc.String("city"),
		Country: loc.String("country"),
	}
}

// toSize converts a plan record. Only the regions with stock are kept.
func toSize(f driver.Fields) model.Size {
	regions := []string{}
	for _, r := range f.Records("regions") {
		if r.Bool("in_stock") {
			regions = append(regions, r.String("code"))
		}
	}
	specs := f.Map("specs")
	extra := f.Extra()
	extra["specs"] = map[string]any(specs)
	extra["regions"] = regions
	return model.Size{
		ID:    f.String("slug"),
		Name:  f.String("name"),
		RAM:   parseMemory(specs.Map("memory").String("total")),
		Extra: extra,
	}
}

// imageKeys are always present in the extra of an image.
var imageKeys = []string{"operating_system", "distro", "version", "pricing"}

// toImage converts an operating system record.
func toImage(f driver.Fields) model.Image {
	return model.Image{
		ID:   f.String("slug"),
		Name: f.String("name"),
		Extra: f.ExtraWith(imageKeys),
	}
}

// toKeyPair converts an SSH key record.
func toKeyPair(f driver.Fields) model.KeyPair {
	return model.KeyPair{
		Name:        f.String("name"),
		Fingerprint: f.String("fingerprint"),
		PublicKey:   f.String("public_key"),
		Extra:       f.ExtraWith([]string{"id"}),
	}
}

// parseMemory converts a memory amount such as "64GB" to megabytes. Plain
// numbers are taken as megabytes; unparsable values give 0.
func parseMemory(total string) int {
	s := strings.ToUpper(strings.TrimSpace(total))
	multiplier := 1
	switch {
	case strings.HasSuffix(s, "TB"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "TB")
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		s = strings.TrimSuffix(s, "MB")
	}
	n, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return int(n) * multiplier
}
