/*
 * CLI - zone and record commands.
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
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"node-dns-drivers/internal/model"
	"node-dns-drivers/internal/zonefile"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// recordView is the JSON representation of a record.
type recordView struct {
	ID    string         `json:"id"`
	Zone  string         `json:"zone"`
	Name  string         `json:"name"`
	Type  string         `json:"type"`
	Data  string         `json:"data"`
	TTL   int            `json:"ttl"`
	Extra map[string]any `json:"extra,omitempty"`
}

// zoneView is the JSON representation of a zone.
type zoneView struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
	Type   string `json:"type,omitempty"`
}

func (a *app) zonesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "Manage DNS zones",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dnsDriver()
			if err != nil {
				return err
			}
			zones, err := d.ListZones(cmd.Context())
			if err != nil {
				return err
			}
			views := make([]zoneView, 0, len(zones))
			t := table{header: []string{"ID", "DOMAIN", "TYPE"}}
			for _, z := range zones {
				views = append(views, zoneView{ID: z.ID, Domain: z.Domain, Type: z.Type})
				t.rows = append(t.rows, []string{z.ID, z.Domain, z.Type})
			}
			return a.print(cmd.OutOrStdout(), views, t)
		},
	})
	return cmd
}

func (a *app) recordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage DNS records",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list ZONE",
			Short: "List the records of a zone",
			Args:  cobra.ExactArgs(1),
			RunE:  a.listRecords,
		},
		a.createRecordCommand(),
		&cobra.Command{
			Use:   "delete ZONE RECORD_ID",
			Short: "Delete a record",
			Args:  cobra.ExactArgs(2),
			RunE:  a.deleteRecord,
		},
		a.exportCommand(),
		a.importCommand(),
	)
	return cmd
}

// findZone returns the zone with the given domain or identifier.
func findZone(ctx context.Context, d dnsDriver, ref string) (model.Zone, error) {
	zones, err := d.ListZones(ctx)
	if err != nil {
		return model.Zone{}, err
	}
	domain := strings.TrimSuffix(strings.ToLower(ref), ".")
	for _, z := range zones {
		if z.ID == ref || strings.ToLower(z.Domain) == domain {
			return z, nil
		}
	}
	return model.Zone{}, &model.ResourceNotFoundError{Driver: d.Name(), Kind: "zone", ID: ref}
}

func (a *app) printRecords(cmd *cobra.Command, records []model.Record) error {
	views := make([]recordView, 0, len(records))
	t := table{header: []string{"ID", "NAME", "TYPE", "DATA", "TTL"}}
	for _, r := range records {
		data := r.Data
		if prio := r.Extra.String("prio"); r.Type == model.RecordTypeMX && prio != "" {
			data = prio + " " + data
		}
		views = append(views, recordView{
			ID:    r.ID,
			Zone:  r.Zone.Domain,
			Name:  r.Name,
			Type:  string(r.Type),
			Data:  r.Data,
			TTL:   r.TTL,
			Extra: r.Extra,
		})
		t.rows = append(t.rows, []string{r.ID, r.FQDN(), string(r.Type), data, ttlString(r.TTL)})
	}
	return a.print(cmd.OutOrStdout(), views, t)
}

func ttlString(ttl int) string {
	if ttl <= 1 {
		return "auto"
	}
	return strconv.Itoa(ttl)
}

func (a *app) listRecords(cmd *cobra.Command, args []string) error {
	d, err := a.dnsDriver()
	if err != nil {
		return err
	}
	zone, err := findZone(cmd.Context(), d, args[0])
	if err != nil {
		return err
	}
	records, err := d.ListRecords(cmd.Context(), zone)
	if err != nil {
		return err
	}
	return a.printRecords(cmd, records)
}

func (a *app) createRecordCommand() *cobra.Command {
	var (
		ttl  int
		prio int
	)
	cmd := &cobra.Command{
		Use:   "create ZONE NAME TYPE DATA",
		Short: "Create a record; use @ as name for the zone apex",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			recordType, ok := model.ParseRecordType(args[2])
			if !ok {
				return fmt.Errorf("unknown record type '%s'", args[2])
			}
			name := args[1]
			if name == "@" {
				name = ""
			}
			spec := model.RecordSpec{Name: name, Type: recordType, Data: args[3], TTL: ttl}
			if cmd.Flags().Changed("prio") {
				spec.Extra = model.Extra{"prio": strconv.Itoa(prio)}
			}

			d, err := a.dnsDriver()
			if err != nil {
				return err
			}
			zone, err := findZone(cmd.Context(), d, args[0])
			if err != nil {
				return err
			}
			record, err := d.CreateRecord(cmd.Context(), zone, spec)
			if err != nil {
				return err
			}
			return a.printRecords(cmd, []model.Record{record})
		},
	}
	cmd.Flags().IntVar(&ttl, "ttl", 1, "time to live in seconds; 1 means automatic")
	cmd.Flags().IntVar(&prio, "prio", 10, "priority of MX records")
	return cmd
}

func (a *app) deleteRecord(cmd *cobra.Command, args []string) error {
	d, err := a.dnsDriver()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	zone, err := findZone(ctx, d, args[0])
	if err != nil {
		return err
	}
	record, err := d.GetRecord(ctx, zone, args[1])
	if err != nil {
		return err
	}
	ok, err := d.DeleteRecord(ctx, record)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("deletion of record %s (%s) was not confirmed", record.ID, record.FQDN())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted record %s (%s %s)\n", record.ID, record.FQDN(), record.Type)
	return nil
}

func (a *app) exportCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export ZONE",
		Short: "Write the records of a zone as a zone file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dnsDriver()
			if err != nil {
				return err
			}
			zone, err := findZone(cmd.Context(), d, args[0])
			if err != nil {
				return err
			}
			records, err := d.ListRecords(cmd.Context(), zone)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if file != "" {
				f, err := os.Create(file)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			skipped, err := zonefile.Write(w, zone, records, zonefile.NewSerial(a.now()))
			if err != nil {
				return err
			}
			if skipped > 0 {
				log.Warnf("%d records of %s could not be exported", skipped, zone.Domain)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "write to this file instead of the standard output")
	return cmd
}

// recordKey identifies a record by content.
func recordKey(name string, t model.RecordType, data string) string {
	return strings.ToLower(name) + "|" + string(t) + "|" + strings.ToLower(data)
}

func (a *app) importCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import ZONE FILE",
		Short: "Create the records of a zone file missing from a zone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dnsDriver()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			zone, err := findZone(ctx, d, args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			specs, err := zonefile.Read(f, zone)
			if err != nil {
				return err
			}
			existing, err := d.ListRecords(ctx, zone)
			if err != nil {
				return err
			}
			present := map[string]bool{}
			for _, r := range existing {
				present[recordKey(r.Name, r.Type, r.Data)] = true
			}

			out := cmd.OutOrStdout()
			created, skipped := 0, 0
			for _, spec := range specs {
				if present[recordKey(spec.Name, spec.Type, spec.Data)] {
					skipped++
					continue
				}
				if dryRun {
					fmt.Fprintf(out, "would create %s %s %s\n", fqdn(spec.Name, zone), spec.Type, spec.Data)
					created++
					continue
				}
				record, err := d.CreateRecord(ctx, zone, spec)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "created record %s (%s %s)\n", record.ID, record.FQDN(), record.Type)
				created++
			}
			fmt.Fprintf(out, "%d records created, %d already present\n", created, skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only print the records that would be created")
	return cmd
}

func fqdn(name string, zone model.Zone) string {
	return model.Record{Name: name, Zone: zone}.FQDN()
}
