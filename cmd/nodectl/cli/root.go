/*
 * CLI - root command and driver selection.
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

// Package cli contains the commands of nodectl.
package cli

import (
	"context"
	"fmt"
	"time"

	"node-dns-drivers/internal/compute"
	"node-dns-drivers/internal/dns/cloudflare"
	"node-dns-drivers/internal/model"
	"node-dns-drivers/internal/profile"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// dnsDriver is the part of the CloudFlare driver used by the commands.
type dnsDriver interface {
	Name() string
	ListZones(ctx context.Context) ([]model.Zone, error)
	ListRecords(ctx context.Context, zone model.Zone) ([]model.Record, error)
	GetRecord(ctx context.Context, zone model.Zone, id string) (model.Record, error)
	CreateRecord(ctx context.Context, zone model.Zone, spec model.RecordSpec) (model.Record, error)
	DeleteRecord(ctx context.Context, record model.Record) (bool, error)
}

// app holds the global flags and the driver factories.
type app struct {
	profilePath string
	profileName string
	output      string
	debug       bool

	newCompute func(p profile.Compute) (compute.Driver, error)
	newDNS     func(p profile.DNS) (dnsDriver, error)
	now        func() time.Time
}

func newApp() *app {
	return &app{
		newCompute: func(p profile.Compute) (compute.Driver, error) {
			return compute.New(p.Driver, p.APIKey, p.Endpoint)
		},
		newDNS: func(p profile.DNS) (dnsDriver, error) {
			d, err := cloudflare.NewDriver(p.Email, p.APIKey, cloudflare.WithEndpoint(p.Endpoint))
			if err != nil {
				return nil, err
			}
			return d, nil
		},
		now: time.Now,
	}
}

// NewRootCommand returns the nodectl command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newApp())
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "nodectl",
		Short:        "Manage compute nodes and DNS records",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.debug {
				log.SetLevel(log.DebugLevel)
			}
			if a.output != outputTable && a.output != outputJSON {
				return fmt.Errorf("invalid output format '%s'", a.output)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.profilePath, "config", profile.DefaultPath(), "path of the profiles file")
	flags.StringVarP(&a.profileName, "profile", "p", "", "profile to use instead of the current one")
	flags.StringVarP(&a.output, "output", "o", outputTable, "output format: table or json")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logs")

	root.AddCommand(
		a.nodesCommand(),
		a.zonesCommand(),
		a.recordsCommand(),
		a.profilesCommand(),
	)
	return root
}

func (a *app) profile() (profile.Profile, error) {
	f, err := profile.Load(a.profilePath)
	if err != nil {
		return profile.Profile{}, err
	}
	return f.Get(a.profileName)
}

func (a *app) computeDriver() (compute.Driver, error) {
	p, err := a.profile()
	if err != nil {
		return nil, err
	}
	if p.Compute == nil {
		return nil, fmt.Errorf("the profile has no compute settings")
	}
	return a.newCompute(*p.Compute)
}

func (a *app) dnsDriver() (dnsDriver, error) {
	p, err := a.profile()
	if err != nil {
		return nil, err
	}
	if p.DNS == nil {
		return nil, fmt.Errorf("the profile has no dns settings")
	}
	return a.newDNS(*p.DNS)
}
