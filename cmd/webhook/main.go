/*
 * Main - ExternalDNS webhook serving the CloudFlare DNS driver.
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
package main

import (
	"os"
	"os/signal"
	"syscall"

	"node-dns-drivers/cmd/webhook/init/dnsprovider"
	"node-dns-drivers/internal/server"

	log "github.com/sirupsen/logrus"
	"sigs.k8s.io/external-dns/provider/webhook/api"
)

var (
	// notify requires the SIGINT and SIGTERM signals to be sent to the caller.
	notify = func(sig chan os.Signal) {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	}
)

// servingStatus is the interface used by waitForSignal.
type servingStatus interface {
	SetServing(bool)
}

// waitForSignal waits for a SIGTERM or a SIGINT and then marks the webhook
// as not serving.
func waitForSignal(status servingStatus) {
	exitSignal := make(chan os.Signal, 1)
	notify(exitSignal)
	signal := <-exitSignal

	log.Infof("Signal %s received. Shutting down the webhook.", signal.String())
	status.SetServing(false)
}

func main() {
	options, err := server.ReadSocketOptions()
	if err != nil {
		log.Fatal(err)
	}

	// Start the metrics, liveness and readiness socket.
	log.Infof("Starting metrics socket on %s", options.GetMetricsAddress())
	status := &server.Status{}
	go server.NewMetricsSocket(status).Start(nil, *options)

	provider, err := dnsprovider.Init()
	if err != nil {
		log.Fatal(err)
	}

	log.Infof("Starting webhook server on %s", options.GetWebhookAddress())
	startedChan := make(chan struct{})
	go api.StartHTTPApi(
		provider, startedChan,
		options.GetReadTimeout(),
		options.GetWriteTimeout(),
		options.GetWebhookAddress(),
	)

	<-startedChan
	status.SetServing(true)

	waitForSignal(status)
}
