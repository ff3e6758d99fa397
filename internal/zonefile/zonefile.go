/*
 * Zonefile - conversion between records and RFC 1035 zone files.
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

// Package zonefile writes the records of a zone as a zone file and reads
// zone files back into record specifications.
package zonefile

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"node-dns-drivers/internal/model"

	"github.com/miekg/dns"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultTTL is used when neither the zone nor the record have a TTL.
	DefaultTTL = 3600
	// prioKey is the extra attribute holding the MX priority.
	prioKey = "prio"
)

// SOA timers of the exported zones.
const (
	soaRefresh = 10800
	soaRetry   = 3600
	soaExpire  = 604800
	soaMinTTL  = 300
)

// Write writes zone and its records to w. Records that cannot be expressed
// in the zone file format are skipped; their number is returned.
func Write(w io.Writer, zone model.Zone, records []model.Record, serial Serial) (int, error) {
	origin := dns.Fqdn(zone.Domain)
	ttl := uint32(DefaultTTL)
	if zone.TTL > 1 {
		ttl = uint32(zone.TTL)
	}

	sorted := make([]model.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Data < b.Data
	})

	rrs := make([]dns.RR, 0, len(sorted))
	skipped := 0
	nameServer := ""
	for _, r := range sorted {
		rr, err := toRR(origin, r, ttl)
		if err != nil {
			log.WithFields(log.Fields{
				"zone":     zone.Domain,
				"recordID": r.ID,
				"type":     r.Type,
			}).Warnf("skipping record: %v", err)
			skipped++
			continue
		}
		if ns, ok := rr.(*dns.NS); ok && nameServer == "" && ns.Hdr.Name == origin {
			nameServer = ns.Ns
		}
		rrs = append(rrs, rr)
	}

	if nameServer == "" {
		nameServer = "ns1." + origin
	}
	soa := &dns.SOA{
		Hdr:     dns.RR_Header{Name: origin, Rrtype: dns.TypeSOA, Class: dns.ClassINET, Ttl: ttl},
		Ns:      nameServer,
		Mbox:    "hostmaster." + origin,
		Serial:  serial.Uint32(),
		Refresh: soaRefresh,
		Retry:   soaRetry,
		Expire:  soaExpire,
		Minttl:  soaMinTTL,
	}

	if _, err := fmt.Fprintf(w, "$ORIGIN %s\n$TTL %d\n%s\n", origin, ttl, soa.String()); err != nil {
		return skipped, err
	}
	for _, rr := range rrs {
		if _, err := fmt.Fprintln(w, rr.String()); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}

// toRR converts a record to a resource record of the zone.
func toRR(origin string, r model.Record, defaultTTL uint32) (dns.RR, error) {
	name := origin
	if r.Name != "" {
		name = r.Name + "." + origin
	}
	ttl := defaultTTL
	if r.TTL > 1 {
		ttl = uint32(r.TTL)
	}

	data := r.Data
	switch r.Type {
	case model.RecordTypeCNAME, model.RecordTypeNS:
		data = dns.Fqdn(data)
	case model.RecordTypeMX:
		prio := r.Extra.String(prioKey)
		if prio == "" {
			prio = "0"
		}
		data = prio + " " + dns.Fqdn(data)
	case model.RecordTypeTXT, model.RecordTypeSPF:
		if !strings.HasPrefix(data, `"`) {
			data = strconv.Quote(data)
		}
	}

	rr, err := dns.NewRR(fmt.Sprintf("%s %d IN %s %s", name, ttl, r.Type, data))
	if err != nil {
		return nil, err
	}
	if rr == nil {
		return nil, fmt.Errorf("empty %s record", r.Type)
	}
	return rr, nil
}

// Read parses a zone file for zone. The SOA record and the records outside
// the zone are ignored.
func Read(r io.Reader, zone model.Zone) ([]model.RecordSpec, error) {
	origin := dns.Fqdn(zone.Domain)
	zp := dns.NewZoneParser(r, origin, "")

	var specs []model.RecordSpec
	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		h := rr.Header()
		if h.Rrtype == dns.TypeSOA {
			continue
		}
		if !dns.IsSubDomain(origin, h.Name) {
			log.Warnf("ignoring record %s outside of zone %s", h.Name, zone.Domain)
			continue
		}
		spec, ok := fromRR(origin, rr)
		if !ok {
			log.Warnf("ignoring %s record %s: type not supported", dns.TypeToString[h.Rrtype], h.Name)
			continue
		}
		specs = append(specs, spec)
	}
	if err := zp.Err(); err != nil {
		return nil, fmt.Errorf("parsing zone file of %s failed: %w", zone.Domain, err)
	}
	return specs, nil
}

// fromRR converts a resource record to a record specification.
func fromRR(origin string, rr dns.RR) (model.RecordSpec, bool) {
	h := rr.Header()
	recordType, known := model.ParseRecordType(dns.TypeToString[h.Rrtype])
	if !known {
		return model.RecordSpec{}, false
	}
	spec := model.RecordSpec{
		Name: relativeName(origin, h.Name),
		Type: recordType,
		TTL:  int(h.Ttl),
	}
	switch v := rr.(type) {
	case *dns.A:
		spec.Data = v.A.String()
	case *dns.AAAA:
		spec.Data = v.AAAA.String()
	case *dns.CNAME:
		spec.Data = strings.TrimSuffix(v.Target, ".")
	case *dns.NS:
		spec.Data = strings.TrimSuffix(v.Ns, ".")
	case *dns.MX:
		spec.Data = strings.TrimSuffix(v.Mx, ".")
		spec.Extra = model.Extra{prioKey: strconv.Itoa(int(v.Preference))}
	case *dns.TXT:
		spec.Data = strings.Join(v.Txt, "")
	case *dns.SPF:
		spec.Data = strings.Join(v.Txt, "")
	default:
		spec.Data = strings.TrimSpace(strings.TrimPrefix(rr.String(), h.String()))
	}
	return spec, true
}

// relativeName returns name relative to origin; the apex is "".
func relativeName(origin, name string) string {
	name, origin = dns.CanonicalName(name), dns.CanonicalName(origin)
	if name == origin {
		return ""
	}
	return strings.TrimSuffix(strings.TrimSuffix(name, origin), ".")
}
