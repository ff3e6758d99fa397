/*
 * Configuration - CloudFlare webhook configuration.
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
	"regexp"
	"strings"

	"github.com/caarlos0/env/v8"
	log "github.com/sirupsen/logrus"
	"sigs.k8s.io/external-dns/endpoint"
)

// Configuration contains the CloudFlare provider's configuration.
type Configuration struct {
	// Account e-mail
	Email string `env:"CLOUDFLARE_EMAIL,required,notEmpty"`
	// Client API key
	APIKey string `env:"CLOUDFLARE_API_KEY,required,notEmpty"`
	// Alternative API endpoint
	Endpoint string `env:"CLOUDFLARE_ENDPOINT" envDefault:""`
	// If true, do not execute actions on the API
	DryRun bool `env:"DRY_RUN" envDefault:"false"`
	// Enable debugging logs
	Debug bool `env:"DEBUG" envDefault:"false"`
	// Default TTL when not specified; 1 lets CloudFlare decide
	DefaultTTL int `env:"DEFAULT_TTL" envDefault:"1"`
	// Domain filter
	DomainFilter []string `env:"DOMAIN_FILTER" envDefault:""`
	// Excluded domains
	ExcludeDomains []string `env:"EXCLUDE_DOMAIN_FILTER" envDefault:""`
	// Regular expression for domain filter
	RegexDomainFilter string `env:"REGEXP_DOMAIN_FILTER" envDefault:""`
	// Regular expression for excluding domains
	RegexDomainExclusion string `env:"REGEXP_DOMAIN_FILTER_EXCLUSION" envDefault:""`
}

// NewConfiguration reads the configuration from the environment.
func NewConfiguration() (*Configuration, error) {
	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("reading provider configuration failed: %w", err)
	}
	return cfg, nil
}

// GetDomainFilter returns the domain filter from the configuration. If the
// regular expression filters are set, the others are ignored.
func GetDomainFilter(config Configuration) endpoint.DomainFilter {
	var domainFilter endpoint.DomainFilter
	createMsg := "Creating CloudFlare provider with "

	if config.RegexDomainFilter != "" {
		createMsg += fmt.Sprintf("regexp domain filter: '%s', ", config.RegexDomainFilter)
		if config.RegexDomainExclusion != "" {
			createMsg += fmt.Sprintf("with exclusion: '%s', ", config.RegexDomainExclusion)
		}
		domainFilter = endpoint.NewRegexDomainFilter(
			regexp.MustCompile(config.RegexDomainFilter),
			regexp.MustCompile(config.RegexDomainExclusion),
		)
	} else {
		if len(config.DomainFilter) > 0 {
			createMsg += fmt.Sprintf("domain filter: '%s', ", strings.Join(config.DomainFilter, ","))
		}
		if len(config.ExcludeDomains) > 0 {
			createMsg += fmt.Sprintf("exclude domain filter: '%s', ", strings.Join(config.ExcludeDomains, ","))
		}
		domainFilter = endpoint.NewDomainFilterWithExclusions(config.DomainFilter, config.ExcludeDomains)
	}

	createMsg = strings.TrimSuffix(createMsg, ", ")
	if strings.HasSuffix(createMsg, "with ") {
		createMsg += "no kind of domain filters"
	}
	log.Info(createMsg)
	return domainFilter
}
