/*
 * Mapper - conversion of CloudFlare zones and records to entities.
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
package cloudflare

import (
	"strings"

	"node-dns-drivers/internal/driver"
	"node-dns-drivers/internal/model"

	"github.com/miekg/dns"
)

// toZone converts a zone record.
func (d *Driver) toZone(f driver.Fields) model.Zone {
	return model.Zone{
		ID:     f.String("zone_id"),
		Domain: f.String("zone_name"),
		Type:   ZoneType,
		Extra:  f.ExtraWith(ZoneExtraAttributes),
		Driver: d,
	}
}

// toRecord converts a DNS record of zone.
func (d *Driver) toRecord(zone model.Zone, f driver.Fields) model.Record {
	origin := f.String("zone_name")
	if origin == "" {
		origin = zone.Domain
	}
	extra := f.ExtraWith(RecordExtraAttributes)
	if !f.Has("props") {
		extra["props"] = map[string]any{}
	}
	rt, _ := model.ParseRecordType(f.String("type"))
	return model.Record{
		ID:     f.String("rec_id"),
		Name:   relativeName(f.String("name"), origin),
		Type:   rt,
		Data:   f.String("content"),
		TTL:    f.Int("ttl"),
		Zone:   zone,
		Extra:  extra,
		Driver: d,
	}
}

// relativeName returns name relative to the zone origin. The apex gives an
// empty name; names outside the zone are returned unchanged.
func relativeName(name, origin string) string {
	if name == "" {
		return ""
	}
	fqdn := dns.CanonicalName(name)
	zone := dns.CanonicalName(origin)
	if fqdn == zone {
		return ""
	}
	if origin == "" || !dns.IsSubDomain(zone, fqdn) {
		return strings.TrimSuffix(fqdn, ".")
	}
	return strings.TrimSuffix(fqdn, "."+zone)
}
