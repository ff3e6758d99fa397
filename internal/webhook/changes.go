/*
 * Changes - record changes to apply through the CloudFlare driver.
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
	"context"
	"fmt"

	"node-dns-drivers/internal/model"

	log "github.com/sirupsen/logrus"
)

// changeCreate stores the information for a create request.
type changeCreate struct {
	Zone model.Zone
	Spec model.RecordSpec
}

// GetLogFields returns the log fields for this object.
func (cc changeCreate) GetLogFields() log.Fields {
	return log.Fields{
		"domain":     cc.Zone.Domain,
		"zoneID":     cc.Zone.ID,
		"dnsName":    cc.Spec.Name,
		"recordType": string(cc.Spec.Type),
		"value":      cc.Spec.Data,
		"ttl":        cc.Spec.TTL,
	}
}

// changeUpdate stores the information for an update request.
type changeUpdate struct {
	Record model.Record
	Spec   model.RecordSpec
}

// GetLogFields returns the log fields for this object. An asterisk indicates
// that the new value is shown.
func (cu changeUpdate) GetLogFields() log.Fields {
	return log.Fields{
		"domain":      cu.Record.Zone.Domain,
		"zoneID":      cu.Record.Zone.ID,
		"recordID":    cu.Record.ID,
		"*dnsName":    cu.Spec.Name,
		"*recordType": string(cu.Spec.Type),
		"*value":      cu.Spec.Data,
		"*ttl":        cu.Spec.TTL,
	}
}

// changeDelete stores the information for a delete request.
type changeDelete struct {
	Record model.Record
}

// GetLogFields returns the log fields for this object.
func (cd changeDelete) GetLogFields() log.Fields {
	return log.Fields{
		"domain":     cd.Record.Zone.Domain,
		"zoneID":     cd.Record.Zone.ID,
		"recordID":   cd.Record.ID,
		"dnsName":    cd.Record.Name,
		"recordType": string(cd.Record.Type),
		"value":      cd.Record.Data,
	}
}

// changes contains all changes to apply to DNS.
type changes struct {
	dryRun bool

	creates []*changeCreate
	updates []*changeUpdate
	deletes []*changeDelete
}

// empty returns true if there are no changes left.
func (c *changes) empty() bool {
	return len(c.creates) == 0 && len(c.updates) == 0 && len(c.deletes) == 0
}

// AddChangeCreate adds a new creation entry.
func (c *changes) AddChangeCreate(zone model.Zone, spec model.RecordSpec) {
	c.creates = append(c.creates, &changeCreate{Zone: zone, Spec: spec})
}

// AddChangeUpdate adds a new update entry.
func (c *changes) AddChangeUpdate(record model.Record, spec model.RecordSpec) {
	c.updates = append(c.updates, &changeUpdate{Record: record, Spec: spec})
}

// AddChangeDelete adds a new delete entry.
func (c *changes) AddChangeDelete(record model.Record) {
	c.deletes = append(c.deletes, &changeDelete{Record: record})
}

// applyDeletes processes the records to be deleted.
func (c changes) applyDeletes(ctx context.Context, client dnsClient) error {
	for _, e := range c.deletes {
		log.WithFields(e.GetLogFields()).Debug("Deleting domain record")
		log.Infof("Deleting record [%s] from zone [%s]", e.Record.FQDN(), e.Record.Zone.Domain)
		if c.dryRun {
			continue
		}
		ok, err := client.DeleteRecord(ctx, e.Record)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("deletion of record %s (%s) was not confirmed", e.Record.ID, e.Record.FQDN())
		}
	}
	return nil
}

// applyCreates processes the records to be created.
func (c changes) applyCreates(ctx context.Context, client dnsClient) error {
	for _, e := range c.creates {
		log.WithFields(e.GetLogFields()).Debug("Creating domain record")
		log.Infof("Creating record [%s] of type [%s] with value [%s] in zone [%s]",
			e.Spec.Name, e.Spec.Type, e.Spec.Data, e.Zone.Domain)
		if c.dryRun {
			continue
		}
		if _, err := client.CreateRecord(ctx, e.Zone, e.Spec); err != nil {
			return err
		}
	}
	return nil
}

// applyUpdates processes the records to be updated.
func (c changes) applyUpdates(ctx context.Context, client dnsClient) error {
	for _, e := range c.updates {
		log.WithFields(e.GetLogFields()).Debug("Updating domain record")
		log.Infof("Updating record ID [%s] with name [%s], type [%s], value [%s] and TTL [%d] in zone [%s]",
			e.Record.ID, e.Spec.Name, e.Spec.Type, e.Spec.Data, e.Spec.TTL, e.Record.Zone.Domain)
		if c.dryRun {
			continue
		}
		if _, err := client.UpdateRecord(ctx, e.Record, e.Spec); err != nil {
			return err
		}
	}
	return nil
}

// ApplyChanges applies the planned changes using client. Deletes run first
// so that replaced records do not collide with the new ones.
func (c changes) ApplyChanges(ctx context.Context, client dnsClient) error {
	if c.empty() {
		log.Debug("No changes to be applied found.")
		return nil
	}
	if err := c.applyDeletes(ctx, client); err != nil {
		return err
	}
	if err := c.applyCreates(ctx, client); err != nil {
		return err
	}
	return c.applyUpdates(ctx, client)
}
