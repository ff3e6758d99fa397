/*
 * Main - HTTP gateway serving a node driver.
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
	"fmt"

	"node-dns-drivers/cmd/gateway/init/configuration"
	"node-dns-drivers/cmd/gateway/init/logging"
	"node-dns-drivers/cmd/gateway/init/nodedriver"
	gwserver "node-dns-drivers/cmd/gateway/init/server"
	"node-dns-drivers/internal/events"
	"node-dns-drivers/internal/gateway"
	"node-dns-drivers/internal/server"

	log "github.com/sirupsen/logrus"
)

const banner = `
 node-gateway
 version: %s (%s)

`

var (
	Version = "local"
	Gitsha  = "?"
)

// eventSink connects to NATS when an URL is configured. The returned
// function closes the connection.
func eventSink(config configuration.Config) (events.Sink, func(), error) {
	if config.NATSURL == "" {
		log.Info("NATS_URL not set, node events will not be published")
		return events.Discard{}, func() {}, nil
	}
	publisher, nc, err := events.Connect(config.NATSURL, config.NATSName)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("Publishing node events to %s", nc.ConnectedUrl())
	return publisher, func() {
		if err := nc.Drain(); err != nil {
			log.Warnf("error draining NATS connection: %v", err)
		}
		nc.Close()
	}, nil
}

func main() {
	fmt.Printf(banner, Version, Gitsha)

	config, err := configuration.Init()
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Init(config.LogLevel, config.LogFormat); err != nil {
		log.Fatal(err)
	}

	status := &server.Status{}
	metricsOptions := server.SocketOptions{
		MetricsHost: config.MetricsHost,
		MetricsPort: config.MetricsPort,
	}
	log.Infof("Starting metrics socket on %s", metricsOptions.GetMetricsAddress())
	go server.NewMetricsSocket(status).Start(nil, metricsOptions)

	d, err := nodedriver.Init(config)
	if err != nil {
		log.Fatal(err)
	}
	sink, closeSink, err := eventSink(config)
	if err != nil {
		log.Fatal(err)
	}

	srv := gwserver.Init(config, gateway.New(d, sink))
	status.SetServing(true)
	gwserver.ShutdownGracefully(srv, func() { status.SetServing(false) }, closeSink)
}
