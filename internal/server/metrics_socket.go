/*
 * Metrics socket - metrics, liveness and readiness endpoints.
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
package server

import (
	"net"
	"net/http"

	"node-dns-drivers/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// MetricsSocket represents the socket that serves the metrics, as well as
// the liveness and readiness probes.
type MetricsSocket struct {
	status *Status
}

// NewMetricsSocket initializes a new MetricsSocket instance.
func NewMetricsSocket(status *Status) *MetricsSocket {
	return &MetricsSocket{
		status: status,
	}
}

// probeHandler returns a handler writing 200/OK when check passes and
// 503/Service Unavailable otherwise.
func probeHandler(probe string, check func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := http.StatusOK
		if !check() {
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		if _, err := w.Write([]byte(http.StatusText(code))); err != nil {
			log.Warnf("Could not answer to a %s probe: %s", probe, err.Error())
		}
	}
}

// Handler returns the router of the socket. /healthz requires the service to
// be both live and ready, as ExternalDNS expects from webhooks.
func (s *MetricsSocket) Handler() http.Handler {
	readiness := probeHandler("readiness", s.status.IsReady)

	r := chi.NewRouter()
	r.Get("/", readiness)
	r.Get("/ready", readiness)
	r.Get("/health", probeHandler("liveness", s.status.IsHealthy))
	r.Get("/healthz", probeHandler("healthz", s.status.IsServing))
	r.Handle("/metrics", promhttp.HandlerFor(
		metrics.GetOpenMetricsInstance().GetRegistry(),
		promhttp.HandlerOpts{},
	))
	return r
}

// Start starts the metrics socket. startedChan, if not nil, receives a value
// once the socket is listening.
func (s *MetricsSocket) Start(startedChan chan struct{}, options SocketOptions) {
	address := options.GetMetricsAddress()

	srv := &http.Server{
		Addr:         address,
		Handler:      s.Handler(),
		ReadTimeout:  options.GetReadTimeout(),
		WriteTimeout: options.GetWriteTimeout(),
	}

	l, err := net.Listen("tcp", address)
	if err != nil {
		log.Fatal(err)
	}

	if startedChan != nil {
		startedChan <- struct{}{}
	}

	if err := srv.Serve(l); err != nil {
		log.Fatal(err)
	}
}
