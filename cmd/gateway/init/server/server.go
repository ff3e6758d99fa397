/*
 * Server - node gateway HTTP server.
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
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"node-dns-drivers/cmd/gateway/init/configuration"
	"node-dns-drivers/internal/gateway"

	log "github.com/sirupsen/logrus"
)

// notify registers the signals ending the server.
var notify = func(sig chan os.Signal) {
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Init creates the gateway server and starts serving in the background.
func Init(config configuration.Config, g *gateway.Gateway) *http.Server {
	srv := createHTTPServer(config.GetServerAddress(), g.Router())
	go func() {
		log.Infof("starting server on addr: '%s' ", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("can't serve on addr: '%s', error: %v", srv.Addr, err)
		}
	}()
	return srv
}

func createHTTPServer(addr string, hand http.Handler) *http.Server {
	return &http.Server{
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		Addr:              addr,
		Handler:           hand,
	}
}

// ShutdownGracefully waits for a termination signal, then shuts the server
// down and runs the cleanup functions.
func ShutdownGracefully(srv *http.Server, cleanup ...func()) {
	sigCh := make(chan os.Signal, 1)
	notify(sigCh)
	sig := <-sigCh
	log.Infof("shutting down server due to received signal: %v", sig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("error shutting down server: %v", err)
	}
	for _, f := range cleanup {
		f()
	}
}
