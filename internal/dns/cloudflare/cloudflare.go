/*
 * CloudFlare - DNS driver for the CloudFlare client API v1.
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

// Package cloudflare implements the DNS driver for the CloudFlare client API
// v1. Every call is a GET on a single endpoint, with the action selected by
// the "a" query parameter and the credentials passed as "tkn" and "email".
package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"node-dns-drivers/internal/driver"
	"node-dns-drivers/internal/model"
)

const (
	// Type is the backend type tag.
	Type = "cloudflare"
	// DefaultHost is the public API host.
	DefaultHost = "www.cloudflare.com"

	apiPath = "/api/json.html"

	// AutomaticTTL is the TTL value meaning "let CloudFlare decide".
	AutomaticTTL = 1

	// ZoneType is the type of every CloudFlare zone.
	ZoneType = "master"

	OpZoneStats    driver.Operation = "zone_stats"
	OpZoneCheck    driver.Operation = "zone_check"
	OpIPLookup     driver.Operation = "ip_lookup"
	OpZoneSettings driver.Operation = "zone_settings"
)

// ErrUnsupportedRecordType is returned when a record type is not handled by
// CloudFlare.
var ErrUnsupportedRecordType = errors.New("unsupported record type")

// ZoneExtraAttributes are always present in the extra attributes of a zone.
var ZoneExtraAttributes = []string{
	"display_name",
	"zone_status",
	"zone_type",
	"host_id",
	"host_pubname",
	"host_website",
	"fqdns",
	"vtxt",
	"step",
	"zone_status_class",
	"zone_status_desc",
	"orig_registrar",
	"orig_dnshost",
	"orig_ns_names",
}

// RecordExtraAttributes are always present in the extra attributes of a
// record.
var RecordExtraAttributes = []string{
	"rec_tag",
	"display_name",
	"pro",
	"display_content",
	"ttl_ceil",
	"ssl_id",
	"ssl_status",
	"ssl_expires_on",
	"auto_ttl",
	"service_mode",
}

// action returns the route for an API action.
func action(name, dataPath string) driver.Route {
	return driver.Route{
		Capability: driver.Supported,
		Method:     http.MethodGet,
		Path:       apiPath,
		Params:     map[string]string{"a": name},
		DataPath:   dataPath,
	}
}

// Backend is the CloudFlare backend configuration. The credentials are
// added by the driver, since they include the account e-mail.
var Backend = driver.Backend{
	Type:        Type,
	Name:        "CloudFlare",
	DefaultHost: DefaultHost,
	Routes: map[driver.Operation]driver.Route{
		driver.OpListZones:    action("zone_load_multi", "response.zones.objs"),
		driver.OpGetZone:      action("zone_load_multi", "response.zones.objs"),
		driver.OpCreateZone:   {Capability: driver.Unsupported},
		driver.OpDeleteZone:   {Capability: driver.Unsupported},
		driver.OpListRecords:  action("rec_load_all", "response.recs.objs"),
		driver.OpGetRecord:    action("rec_load_all", "response.recs.objs"),
		driver.OpCreateRecord: action("rec_new", "response.rec.obj"),
		driver.OpUpdateRecord: action("rec_edit", "response.rec.obj"),
		driver.OpDeleteRecord: action("rec_delete", ""),
		OpZoneStats:           action("stats", "response.result.objs"),
		OpZoneCheck:           action("zone_check", "response.zones"),
		OpIPLookup:            action("ip_lkup", "response"),
		OpZoneSettings:        action("zone_settings", "response.result.objs"),
	},
	SuccessCodes: driver.DefaultSuccessCodes,
	Envelope: driver.EnvelopeFormat{
		StatusField:   "result",
		SuccessValues: []string{"success"},
		MessageField:  "msg",
	},
}

// Driver is a CloudFlare DNS driver.
type Driver struct {
	*driver.Driver
	email string
}

// options are the construction options.
type options struct {
	endpoint      string
	driverOptions []driver.Option
}

// Option configures NewDriver.
type Option func(o *options)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		if endpoint != "" {
			o.endpoint = endpoint
		}
	}
}

// WithDriverOptions passes options to the generic driver.
func WithDriverOptions(opts ...driver.Option) Option {
	return func(o *options) {
		o.driverOptions = append(o.driverOptions, opts...)
	}
}

// NewDriver creates a driver for the account identified by email and API
// key.
func NewDriver(email, key string, opts ...Option) (*Driver, error) {
	if email == "" {
		return nil, &model.ConfigurationError{Driver: Backend.Name, Field: "email", Reason: "account e-mail not specified"}
	}
	o := options{endpoint: DefaultHost}
	for _, opt := range opts {
		opt(&o)
	}
	backend := Backend
	backend.Authorize = func(req *driver.Request, key string) {
		req.SetQuery("tkn", key)
		req.SetQuery("email", email)
	}
	d, err := driver.New(backend, key, o.endpoint, o.driverOptions...)
	if err != nil {
		return nil, err
	}
	return &Driver{Driver: d, email: email}, nil
}

// Email returns the account e-mail.
func (d *Driver) Email() string {
	return d.email
}

// query builds the query parameters of a call.
func query(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return q
}

// ListRecordTypes returns the record types CloudFlare can manage.
func (d *Driver) ListRecordTypes() []model.RecordType {
	types := make([]model.RecordType, len(model.RecordTypes))
	copy(types, model.RecordTypes)
	return types
}

// checkRecordType returns the normalized record type or an error.
func (d *Driver) checkRecordType(t model.RecordType) (model.RecordType, error) {
	rt, ok := model.ParseRecordType(string(t))
	if !ok {
		return rt, fmt.Errorf("%w: %q", ErrUnsupportedRecordType, t)
	}
	return rt, nil
}

// ListZones returns every zone of the account.
func (d *Driver) ListZones(ctx context.Context) ([]model.Zone, error) {
	items, err := d.List(ctx, driver.OpListZones, driver.Call{})
	if err != nil {
		return nil, err
	}
	zones := make([]model.Zone, 0, len(items))
	for _, item := range items {
		zones = append(zones, d.toZone(item))
	}
	return zones, nil
}

// GetZone returns the zone with the given identifier. The API has no single
// zone lookup, so the zone is searched in the full list.
func (d *Driver) GetZone(ctx context.Context, id string) (model.Zone, error) {
	items, err := d.List(ctx, driver.OpGetZone, driver.Call{})
	if err != nil {
		return model.Zone{}, err
	}
	for _, item := range items {
		if item.String("zone_id") == id {
			return d.toZone(item), nil
		}
	}
	return model.Zone{}, &model.ResourceNotFoundError{Driver: d.Name(), Kind: "zone", ID: id}
}

// CreateZone is not supported by the API.
func (d *Driver) CreateZone(ctx context.Context, domain string) (model.Zone, error) {
	_, err := d.Do(ctx, driver.OpCreateZone, driver.Call{})
	return model.Zone{}, err
}

// DeleteZone is not supported by the API.
func (d *Driver) DeleteZone(ctx context.Context, zone model.Zone) (bool, error) {
	return d.Succeeded(ctx, driver.OpDeleteZone, driver.Call{})
}

// ListRecords returns every record of the zone.
func (d *Driver) ListRecords(ctx context.Context, zone model.Zone) ([]model.Record, error) {
	items, err := d.List(ctx, driver.OpListRecords, driver.Call{Query: query("z", zone.Domain)})
	if err != nil {
		return nil, err
	}
	records := make([]model.Record, 0, len(items))
	for _, item := range items {
		records = append(records, d.toRecord(zone, item))
	}
	return records, nil
}

// GetRecord returns the record of the zone with the given identifier.
func (d *Driver) GetRecord(ctx context.Context, zone model.Zone, id string) (model.Record, error) {
	items, err := d.List(ctx, driver.OpGetRecord, driver.Call{Query: query("z", zone.Domain)})
	if err != nil {
		return model.Record{}, err
	}
	for _, item := range items {
		if item.String("rec_id") == id {
			return d.toRecord(zone, item), nil
		}
	}
	return model.Record{}, &model.ResourceNotFoundError{Driver: d.Name(), Kind: "record", ID: id}
}

// recordName returns the name sent for a record: the zone domain for the
// apex, the relative name otherwise.
func recordName(name string, zone model.Zone) string {
	if name == "" || name == "@" {
		return zone.Domain
	}
	return name
}

// ttlParam returns the TTL parameter, automatic when unset.
func ttlParam(ttl int) string {
	if ttl <= 0 {
		ttl = AutomaticTTL
	}
	return strconv.Itoa(ttl)
}

// CreateRecord creates a record in the zone and returns it as stored by
// CloudFlare.
func (d *Driver) CreateRecord(ctx context.Context, zone model.Zone, spec model.RecordSpec) (model.Record, error) {
	rt, err := d.checkRecordType(spec.Type)
	if err != nil {
		return model.Record{}, err
	}
	q := query(
		"z", zone.Domain,
		"name", recordName(spec.Name, zone),
		"type", string(rt),
		"content", spec.Data,
		"ttl", ttlParam(spec.TTL),
	)
	addPriority(q, spec.Extra)
	item, err := d.Get(ctx, driver.OpCreateRecord, driver.Call{Query: q}, "record", spec.Name)
	if err != nil {
		return model.Record{}, err
	}
	return d.toRecord(zone, item), nil
}

// UpdateRecord updates a record. Unset values in spec keep the current
// values of the record.
func (d *Driver) UpdateRecord(ctx context.Context, record model.Record, spec model.RecordSpec) (model.Record, error) {
	if spec.Name == "" {
		spec.Name = record.Name
	}
	if spec.Type == "" {
		spec.Type = record.Type
	}
	if spec.Data == "" {
		spec.Data = record.Data
	}
	if spec.TTL == 0 {
		spec.TTL = record.TTL
	}
	rt, err := d.checkRecordType(spec.Type)
	if err != nil {
		return model.Record{}, err
	}
	q := query(
		"z", record.Zone.Domain,
		"id", record.ID,
		"name", recordName(spec.Name, record.Zone),
		"type", string(rt),
		"content", spec.Data,
		"ttl", ttlParam(spec.TTL),
	)
	if spec.Extra == nil {
		spec.Extra = record.Extra
	}
	addPriority(q, spec.Extra)
	item, err := d.Get(ctx, driver.OpUpdateRecord, driver.Call{Query: q}, "record", record.ID)
	if err != nil {
		return model.Record{}, err
	}
	return d.toRecord(record.Zone, item), nil
}

// addPriority adds the priority of MX and SRV records, when known.
func addPriority(q url.Values, extra model.Extra) {
	if prio := extra.String("prio"); prio != "" {
		q.Set("prio", prio)
	}
}

// DeleteRecord deletes a record. The result is true only when CloudFlare
// confirms the deletion.
func (d *Driver) DeleteRecord(ctx context.Context, record model.Record) (bool, error) {
	return d.Succeeded(ctx, driver.OpDeleteRecord, driver.Call{
		Query: query("z", record.Zone.Domain, "id", record.ID),
	})
}

// firstObject returns the first object of a result list.
func (d *Driver) firstObject(ctx context.Context, op driver.Operation, q url.Values, kind, id string) (map[string]any, error) {
	items, err := d.List(ctx, op, driver.Call{Query: q})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &model.ResourceNotFoundError{Driver: d.Name(), Kind: kind, ID: id}
	}
	return map[string]any(items[0]), nil
}

// ZoneStats returns the traffic statistics of the zone. The interval selects
// the period as documented by CloudFlare, 20 being the last 30 days.
func (d *Driver) ZoneStats(ctx context.Context, zone model.Zone, interval int) (map[string]any, error) {
	if interval <= 0 {
		interval = 20
	}
	q := query("z", zone.Domain, "interval", strconv.Itoa(interval))
	return d.firstObject(ctx, OpZoneStats, q, "zone stats", zone.Domain)
}

// ZoneSettings returns the settings of the zone.
func (d *Driver) ZoneSettings(ctx context.Context, zone model.Zone) (map[string]any, error) {
	return d.firstObject(ctx, OpZoneSettings, query("z", zone.Domain), "zone settings", zone.Domain)
}

// ZoneCheck returns the CloudFlare identifiers of the given zones, keyed by
// domain.
func (d *Driver) ZoneCheck(ctx context.Context, zones []model.Zone) (map[string]int, error) {
	domains := make([]string, 0, len(zones))
	for _, z := range zones {
		domains = append(domains, z.Domain)
	}
	values, err := d.lookup(ctx, OpZoneCheck, query("zones", strings.Join(domains, ",")))
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(values))
	for domain := range values {
		out[domain] = values.Int(domain)
	}
	return out, nil
}

// IPThreatScore returns the threat score of an address. False means that
// the address is not known as a threat.
func (d *Driver) IPThreatScore(ctx context.Context, ip string) (map[string]any, error) {
	values, err := d.lookup(ctx, OpIPLookup, query("ip", ip))
	if err != nil {
		return nil, err
	}
	return map[string]any(values), nil
}

// lookup runs an action returning a single object.
func (d *Driver) lookup(ctx context.Context, op driver.Operation, q url.Values) (driver.Fields, error) {
	f, err := d.Get(ctx, op, driver.Call{Query: q}, string(op), q.Encode())
	if err != nil {
		return nil, err
	}
	return f, nil
}
