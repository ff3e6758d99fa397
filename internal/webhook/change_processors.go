/*
 * Change processors - planning of record changes from ExternalDNS endpoints.
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
	"node-dns-drivers/internal/model"

	log "github.com/sirupsen/logrus"
	"sigs.k8s.io/external-dns/endpoint"
)

// recordSpec builds the record values for one target of an endpoint.
func recordSpec(zone model.Zone, ep *endpoint.Endpoint, target string, defaultTTL int) model.RecordSpec {
	prio, data := splitPriority(ep.RecordType, makeEndpointTarget(zone.Domain, target))
	spec := model.RecordSpec{
		Name: makeEndpointName(zone.Domain, ep.DNSName),
		Type: model.RecordType(ep.RecordType),
		Data: data,
		TTL:  getEndpointTTL(ep, defaultTTL),
	}
	if prio != "" {
		spec.Extra = model.Extra{"prio": prio}
	}
	return spec
}

// processCreateActionsByZone processes the create actions for one zone.
func processCreateActionsByZone(zone model.Zone, records []model.Record, endpoints []*endpoint.Endpoint, defaultTTL int, changes *changes) {
	for _, ep := range endpoints {
		// Warn if there are existing records since we expect to create only new records.
		if len(getMatchingDomainRecords(records, zone.Domain, ep)) > 0 {
			log.WithFields(log.Fields{
				"zoneName":   zone.Domain,
				"dnsName":    ep.DNSName,
				"recordType": ep.RecordType,
			}).Warn("Preexisting records exist which should not exist for creation actions.")
		}

		for _, target := range ep.Targets {
			changes.AddChangeCreate(zone, recordSpec(zone, ep, target, defaultTTL))
		}
	}
}

// processUpdateEndpoint generates updates for the targets already present
// and creates for the new ones. Matched records are removed from
// matchingRecordsByTarget.
func processUpdateEndpoint(zone model.Zone, matchingRecordsByTarget map[string]model.Record, ep *endpoint.Endpoint, defaultTTL int, changes *changes) {
	for _, target := range ep.Targets {
		spec := recordSpec(zone, ep, target, defaultTTL)
		key := makeEndpointTarget(zone.Domain, target)
		if record, ok := matchingRecordsByTarget[key]; ok {
			changes.AddChangeUpdate(record, spec)
			delete(matchingRecordsByTarget, key)
		} else {
			changes.AddChangeCreate(zone, spec)
		}
	}
}

// processUpdateActionsByZone processes update actions for a single zone.
func processUpdateActionsByZone(zone model.Zone, records []model.Record, endpoints []*endpoint.Endpoint, defaultTTL int, changes *changes) {
	for _, ep := range endpoints {
		matchingRecords := getMatchingDomainRecords(records, zone.Domain, ep)

		if len(matchingRecords) == 0 {
			log.WithFields(log.Fields{
				"zoneName":   zone.Domain,
				"dnsName":    ep.DNSName,
				"recordType": ep.RecordType,
			}).Warn("Planning an update but no existing records found.")
		}

		matchingRecordsByTarget := map[string]model.Record{}
		for _, r := range matchingRecords {
			matchingRecordsByTarget[recordTarget(r)] = r
		}

		processUpdateEndpoint(zone, matchingRecordsByTarget, ep, defaultTTL, changes)

		// Any remaining records have been removed, delete them.
		for _, record := range matchingRecordsByTarget {
			changes.AddChangeDelete(record)
		}
	}
}

// processDeleteActionsByZone processes delete actions for a single zone.
func processDeleteActionsByZone(zone model.Zone, records []model.Record, endpoints []*endpoint.Endpoint, changes *changes) {
	for _, ep := range endpoints {
		matchingRecords := getMatchingDomainRecords(records, zone.Domain, ep)

		if len(matchingRecords) == 0 {
			log.WithFields(log.Fields{
				"zoneName":   zone.Domain,
				"dnsName":    ep.DNSName,
				"recordType": ep.RecordType,
			}).Warn("Records to delete not found.")
		}

		targets := map[string]bool{}
		for _, t := range ep.Targets {
			targets[makeEndpointTarget(zone.Domain, t)] = true
		}
		for _, record := range matchingRecords {
			if targets[recordTarget(record)] {
				changes.AddChangeDelete(record)
			}
		}
	}
}

// zoneAction processes the endpoints of one zone.
type zoneAction func(zone model.Zone, records []model.Record, endpoints []*endpoint.Endpoint)

// processActions runs action for every zone that has endpoints. Zones that
// are no longer known are skipped.
func processActions(
	zonesByID map[string]model.Zone,
	recordsByZoneID map[string][]model.Record,
	endpointsByZoneID map[string][]*endpoint.Endpoint,
	action zoneAction,
) {
	for zoneID, endpoints := range endpointsByZoneID {
		zone, ok := zonesByID[zoneID]
		if !ok || len(endpoints) == 0 {
			log.WithFields(log.Fields{
				"zoneID": zoneID,
			}).Debug("Skipping zone, no changes found.")
			continue
		}
		action(zone, recordsByZoneID[zoneID], endpoints)
	}
}
