/*
 * Metrics - OpenMetrics implementation.
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
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// metrics instance
var (
	metrics     *OpenMetrics
	metricsLock sync.Mutex
)

// OpenMetrics contains the collectors exposed on the metrics socket.
type OpenMetrics struct {
	registry *prometheus.Registry

	successfulApiCallsTotal *prometheus.CounterVec
	failedApiCallsTotal     *prometheus.CounterVec
	unknownStatesTotal      *prometheus.CounterVec

	filteredOutZones prometheus.Gauge
	skippedRecords   *prometheus.GaugeVec
	apiDelayHist     *prometheus.HistogramVec

	rateLimitLimit     *prometheus.GaugeVec
	rateLimitRemaining *prometheus.GaugeVec
	rateLimitReset     *prometheus.GaugeVec
}

// GetOpenMetricsInstance returns the current OpenMetrics instance or creates a
// new one if required.
func GetOpenMetricsInstance() *OpenMetrics {
	metricsLock.Lock()
	defer metricsLock.Unlock()
	if metrics == nil {
		metrics = newOpenMetrics()
	}
	return metrics
}

// newOpenMetrics creates and registers the collectors.
func newOpenMetrics() *OpenMetrics {
	reg := prometheus.NewRegistry()
	m := &OpenMetrics{
		registry: reg,
		successfulApiCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "successful_api_calls_total",
				Help: "The number of successful backend API calls",
			},
			[]string{"driver", "action"},
		),
		failedApiCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "failed_api_calls_total",
				Help: "The number of backend API calls that returned an error",
			},
			[]string{"driver", "action"},
		),
		unknownStatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unknown_states_total",
				Help: "The number of backend statuses that were not in the state mapping table",
			},
			[]string{"driver", "status"},
		),
		filteredOutZones: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "filtered_out_zones",
			Help: "The number of zones excluded by the domain filter",
		}),
		skippedRecords: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skipped_records",
				Help: "The number of skipped records per domain",
			},
			[]string{"zone"},
		),
		apiDelayHist: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "api_delay_hist",
				Help:    "Histogram of the delay in milliseconds when calling the backend API",
				Buckets: []float64{10, 100, 250, 500, 1000, 1500, 2000},
			},
			[]string{"driver", "action"},
		),
		rateLimitLimit: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ratelimit_limit",
				Help: "Request limit reported by the backend",
			},
			[]string{"driver"},
		),
		rateLimitRemaining: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ratelimit_remaining",
				Help: "Requests remaining before the limit is reached",
			},
			[]string{"driver"},
		),
		rateLimitReset: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ratelimit_reset_seconds",
				Help: "UNIX timestamp of the next rate limit reset",
			},
			[]string{"driver"},
		),
	}
	reg.MustRegister(m.successfulApiCallsTotal)
	reg.MustRegister(m.failedApiCallsTotal)
	reg.MustRegister(m.unknownStatesTotal)
	reg.MustRegister(m.filteredOutZones)
	reg.MustRegister(m.skippedRecords)
	reg.MustRegister(m.apiDelayHist)
	reg.MustRegister(m.rateLimitLimit)
	reg.MustRegister(m.rateLimitRemaining)
	reg.MustRegister(m.rateLimitReset)
	return m
}

// getLabels builds the label map.
func getLabels(driver, action string) prometheus.Labels {
	return prometheus.Labels{"driver": driver, "action": action}
}

// GetRegistry returns the registry the collectors are registered with.
func (m *OpenMetrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// IncSuccessfulApiCallsTotal increments the successful_api_calls_total counter.
func (m *OpenMetrics) IncSuccessfulApiCallsTotal(driver, action string) {
	m.successfulApiCallsTotal.With(getLabels(driver, action)).Inc()
}

// IncFailedApiCallsTotal increments the failed_api_calls_total counter.
func (m *OpenMetrics) IncFailedApiCallsTotal(driver, action string) {
	m.failedApiCallsTotal.With(getLabels(driver, action)).Inc()
}

// IncUnknownStatesTotal increments the unknown_states_total counter.
func (m *OpenMetrics) IncUnknownStatesTotal(driver, status string) {
	m.unknownStatesTotal.With(prometheus.Labels{"driver": driver, "status": status}).Inc()
}

// SetFilteredOutZones sets the value for the filtered_out_zones gauge.
func (m *OpenMetrics) SetFilteredOutZones(num int) {
	m.filteredOutZones.Set(float64(num))
}

// SetSkippedRecords sets the number of skipped records for a zone.
func (m *OpenMetrics) SetSkippedRecords(zone string, num int) {
	m.skippedRecords.With(prometheus.Labels{"zone": zone}).Set(float64(num))
}

// AddApiDelayHist adds an API delay observation.
func (m *OpenMetrics) AddApiDelayHist(driver, action string, delay int64) {
	m.apiDelayHist.With(getLabels(driver, action)).Observe(float64(delay))
}

// SetRateLimits updates the rate limit gauges from the response headers.
// Backends that do not send the headers leave the gauges untouched.
func (m *OpenMetrics) SetRateLimits(driver string, h http.Header) {
	rl, err := parseRateLimits(h)
	if err != nil {
		log.WithField("driver", driver).Tracef("No rate limit information: %v", err)
		return
	}
	labels := prometheus.Labels{"driver": driver}
	m.rateLimitLimit.With(labels).Set(float64(rl.limit))
	m.rateLimitRemaining.With(labels).Set(float64(rl.remaining))
	m.rateLimitReset.With(labels).Set(float64(rl.reset))
}
