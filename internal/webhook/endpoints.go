/*
 * Endpoints - conversion between records and ExternalDNS endpoints.
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
package webhook

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"node-dns-drivers/internal/dns/cloudflare"
	"node-dns-drivers/internal/model"

	"github.com/miekg/dns"
	log "github.com/sirupsen/logrus"
	"sigs.k8s.io/external-dns/endpoint"
	"sigs.k8s.io/external-dns/provider"
)

// IsSupportedRecordType checks if a record type is managed by this webhook.
// provider.SupportedRecordType does not include MX.
func IsSupportedRecordType(recordType string) bool {
	switch recordType {
	case "MX":
		return true
	default:
		return provider.SupportedRecordType(recordType)
	}
}

// makeEndpointName returns the record name relative to the zone. The zone
// apex gives an empty name.
func makeEndpointName(zoneName, dnsName string) string {
	fqdn := dns.CanonicalName(dnsName)
	zone := dns.CanonicalName(zoneName)
	if fqdn == zone {
		return ""
	}
	return strings.TrimSuffix(strings.TrimSuffix(fqdn, "."+zone), ".")
}

// makeEndpointTarget makes an endpoint target that conforms to CloudFlare's
// representation: host names are stored fully qualified without the
// trailing dot. Without a zone the target is returned unchanged.
func makeEndpointTarget(domain, entryTarget string) string {
	if domain == "" {
		return entryTarget
	}
	return strings.TrimSuffix(entryTarget, ".")
}

// splitPriority splits an MX target into priority and host. Targets without
// a numeric priority are returned unchanged.
func splitPriority(recordType, target string) (string, string) {
	if recordType != endpoint.RecordTypeMX {
		return "", target
	}
	prio, host, found := strings.Cut(strings.TrimSpace(target), " ")
	if !found {
		return "", target
	}
	if _, err := strconv.Atoi(prio); err != nil {
		return "", target
	}
	return prio, strings.TrimSpace(host)
}

// recordTarget returns the endpoint target for a record. MX records carry
// their priority in front of the host.
func recordTarget(r model.Record) string {
	if r.Type == model.RecordTypeMX {
		if prio := r.Extra.String("prio"); prio != "" {
			return prio + " " + r.Data
		}
	}
	return r.Data
}

// recordTTL returns the endpoint TTL for a record. The automatic TTL is
// reported as not configured.
func recordTTL(r model.Record) endpoint.TTL {
	if r.TTL <= cloudflare.AutomaticTTL {
		return 0
	}
	return endpoint.TTL(r.TTL)
}

// createEndpointFromRecord creates an endpoint from a record.
func createEndpointFromRecord(r model.Record) *endpoint.Endpoint {
	ep := endpoint.NewEndpoint(r.FQDN(), string(r.Type), recordTarget(r))
	ep.RecordTTL = recordTTL(r)
	return ep
}

// mergeEndpointsByNameType merges Endpoints with the same Name and Type into a
// single endpoint with multiple Targets.
func mergeEndpointsByNameType(endpoints []*endpoint.Endpoint) []*endpoint.Endpoint {
	endpointsByNameType := map[string][]*endpoint.Endpoint{}
	keys := []string{}

	for _, e := range endpoints {
		key := fmt.Sprintf("%s-%s", e.DNSName, e.RecordType)
		if _, ok := endpointsByNameType[key]; !ok {
			keys = append(keys, key)
		}
		endpointsByNameType[key] = append(endpointsByNameType[key], e)
	}

	// If no merge occurred, just return the existing endpoints.
	if len(endpointsByNameType) == len(endpoints) {
		return endpoints
	}

	result := make([]*endpoint.Endpoint, 0, len(keys))
	for _, key := range keys {
		group := endpointsByNameType[key]
		targets := make([]string, 0, len(group))
		for _, e := range group {
			targets = append(targets, e.Targets...)
		}
		sort.Strings(targets)

		e := endpoint.NewEndpoint(group[0].DNSName, group[0].RecordType, targets...)
		e.RecordTTL = group[0].RecordTTL
		result = append(result, e)
	}

	return result
}

// endpointsByZoneID arranges the endpoints in a map by zone ID.
func endpointsByZoneID(zoneIDNameMapper provider.ZoneIDName, endpoints []*endpoint.Endpoint) map[string][]*endpoint.Endpoint {
	endpointsByZoneID := make(map[string][]*endpoint.Endpoint)

	for _, ep := range endpoints {
		zoneID, _ := zoneIDNameMapper.FindZone(ep.DNSName)
		if zoneID == "" {
			log.Debugf("Skipping record %s because no hosted zone matching record DNS Name was detected", ep.DNSName)
			continue
		}
		endpointsByZoneID[zoneID] = append(endpointsByZoneID[zoneID], ep)
	}

	return endpointsByZoneID
}

// getMatchingDomainRecords returns the records that match an endpoint.
func getMatchingDomainRecords(records []model.Record, zoneName string, ep *endpoint.Endpoint) []model.Record {
	name := makeEndpointName(zoneName, ep.DNSName)

	var result []model.Record
	for _, r := range records {
		if r.Name == name && string(r.Type) == ep.RecordType {
			result = append(result, r)
		}
	}
	return result
}

// getEndpointTTL returns the TTL of the endpoint, or the default when the
// endpoint has none.
func getEndpointTTL(ep *endpoint.Endpoint, defaultTTL int) int {
	if !ep.RecordTTL.IsConfigured() {
		return defaultTTL
	}
	return int(ep.RecordTTL)
}
