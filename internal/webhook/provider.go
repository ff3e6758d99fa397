/*
 * Provider - ExternalDNS provider backed by the CloudFlare driver.
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

// Package webhook exposes the CloudFlare DNS driver as an ExternalDNS
// webhook provider.
package webhook

import (
	"context"

	"node-dns-drivers/internal/dns/cloudflare"
	"node-dns-drivers/internal/driver"
	"node-dns-drivers/internal/metrics"
	"node-dns-drivers/internal/model"

	log "github.com/sirupsen/logrus"
	"sigs.k8s.io/external-dns/endpoint"
	"sigs.k8s.io/external-dns/plan"
	"sigs.k8s.io/external-dns/provider"
)

// dnsClient is the subset of the DNS driver used by the provider.
type dnsClient interface {
	ListZones(ctx context.Context) ([]model.Zone, error)
	ListRecords(ctx context.Context, zone model.Zone) ([]model.Record, error)
	CreateRecord(ctx context.Context, zone model.Zone, spec model.RecordSpec) (model.Record, error)
	UpdateRecord(ctx context.Context, record model.Record, spec model.RecordSpec) (model.Record, error)
	DeleteRecord(ctx context.Context, record model.Record) (bool, error)
}

// Provider implements ExternalDNS' provider.Provider interface for
// CloudFlare.
type Provider struct {
	provider.BaseProvider
	client           dnsClient
	dryRun           bool
	defaultTTL       int
	zoneIDNameMapper provider.ZoneIDName
	zonesByID        map[string]model.Zone
	domainFilter     endpoint.DomainFilter
}

// NewProvider creates a new Provider using the CloudFlare driver.
func NewProvider(config *Configuration, opts ...driver.Option) (*Provider, error) {
	if config.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	client, err := cloudflare.NewDriver(config.Email, config.APIKey,
		cloudflare.WithEndpoint(config.Endpoint),
		cloudflare.WithDriverOptions(opts...),
	)
	if err != nil {
		return nil, err
	}

	return newProvider(client, config), nil
}

// newProvider creates a provider over client.
func newProvider(client dnsClient, config *Configuration) *Provider {
	return &Provider{
		client:       client,
		dryRun:       config.DryRun,
		defaultTTL:   config.DefaultTTL,
		domainFilter: GetDomainFilter(*config),
	}
}

// GetDomainFilter returns the domain filter of the provider.
func (p *Provider) GetDomainFilter() endpoint.DomainFilter {
	return p.domainFilter
}

// Zones returns the list of the hosted DNS zones.
// If a domain filter is set, it only returns the zones that match it.
func (p *Provider) Zones(ctx context.Context) ([]model.Zone, error) {
	zones, err := p.client.ListZones(ctx)
	if err != nil {
		return nil, err
	}

	result := []model.Zone{}
	for _, zone := range zones {
		if p.domainFilter.Match(zone.Domain) {
			result = append(result, zone)
		}
	}
	metrics.GetOpenMetricsInstance().SetFilteredOutZones(len(zones) - len(result))

	p.ensureZoneIDMappingPresent(result)

	return result, nil
}

// ensureZoneIDMappingPresent prepares the zoneIDNameMapper, that associates
// each zone ID with the zone name.
func (p *Provider) ensureZoneIDMappingPresent(zones []model.Zone) {
	zoneIDNameMapper := provider.ZoneIDName{}
	zonesByID := make(map[string]model.Zone, len(zones))
	for _, z := range zones {
		zoneIDNameMapper.Add(z.ID, z.Domain)
		zonesByID[z.ID] = z
	}
	p.zoneIDNameMapper = zoneIDNameMapper
	p.zonesByID = zonesByID
}

// AdjustEndpoints adjusts the endpoints according to the provider
// requirements.
func (p *Provider) AdjustEndpoints(endpoints []*endpoint.Endpoint) ([]*endpoint.Endpoint, error) {
	adjustedEndpoints := []*endpoint.Endpoint{}

	for _, ep := range endpoints {
		_, zoneName := p.zoneIDNameMapper.FindZone(ep.DNSName)
		adjustedTargets := endpoint.Targets{}
		for _, t := range ep.Targets {
			adjustedTargets = append(adjustedTargets, makeEndpointTarget(zoneName, t))
		}

		ep.Targets = adjustedTargets
		adjustedEndpoints = append(adjustedEndpoints, ep)
	}

	return adjustedEndpoints, nil
}

// Records returns the list of records in all zones as a slice of endpoints.
func (p *Provider) Records(ctx context.Context) ([]*endpoint.Endpoint, error) {
	recordsByZoneID, err := p.getRecordsByZoneID(ctx)
	if err != nil {
		return nil, err
	}

	metrics := metrics.GetOpenMetricsInstance()
	endpoints := []*endpoint.Endpoint{}
	for zoneID, records := range recordsByZoneID {
		skipped := 0
		for _, r := range records {
			if IsSupportedRecordType(string(r.Type)) {
				endpoints = append(endpoints, createEndpointFromRecord(r))
			} else {
				skipped++
			}
		}
		metrics.SetSkippedRecords(p.zoneIDNameMapper[zoneID], skipped)
	}

	// Merge endpoints with the same name and type (e.g., multiple A records for a single
	// DNS name) into one endpoint with multiple targets.
	endpoints = mergeEndpointsByNameType(endpoints)

	log.WithFields(log.Fields{
		"endpoints": endpoints,
	}).Debug("Endpoints generated from CloudFlare DNS")

	return endpoints, nil
}

// getRecordsByZoneID returns a map that associates each zone ID with the
// records contained in that zone.
func (p *Provider) getRecordsByZoneID(ctx context.Context) (map[string][]model.Record, error) {
	zones, err := p.Zones(ctx)
	if err != nil {
		return nil, err
	}

	recordsByZoneID := map[string][]model.Record{}
	for _, zone := range zones {
		records, err := p.client.ListRecords(ctx, zone)
		if err != nil {
			return nil, err
		}
		recordsByZoneID[zone.ID] = records
	}

	return recordsByZoneID, nil
}

// ApplyChanges applies the given set of generic changes to the provider.
func (p *Provider) ApplyChanges(ctx context.Context, planChanges *plan.Changes) error {
	if !planChanges.HasChanges() {
		return nil
	}

	recordsByZoneID, err := p.getRecordsByZoneID(ctx)
	if err != nil {
		return err
	}

	changes := changes{
		dryRun: p.dryRun,
	}

	processActions(p.zonesByID, recordsByZoneID, endpointsByZoneID(p.zoneIDNameMapper, planChanges.Create),
		func(zone model.Zone, records []model.Record, endpoints []*endpoint.Endpoint) {
			processCreateActionsByZone(zone, records, endpoints, p.defaultTTL, &changes)
		})
	processActions(p.zonesByID, recordsByZoneID, endpointsByZoneID(p.zoneIDNameMapper, planChanges.UpdateNew),
		func(zone model.Zone, records []model.Record, endpoints []*endpoint.Endpoint) {
			processUpdateActionsByZone(zone, records, endpoints, p.defaultTTL, &changes)
		})
	processActions(p.zonesByID, recordsByZoneID, endpointsByZoneID(p.zoneIDNameMapper, planChanges.Delete),
		func(zone model.Zone, records []model.Record, endpoints []*endpoint.Endpoint) {
			processDeleteActionsByZone(zone, records, endpoints, &changes)
		})

	return changes.ApplyChanges(ctx, p.client)
}
