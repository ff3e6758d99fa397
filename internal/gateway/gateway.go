/*
 * Gateway - HTTP API over a node driver.
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

// Package gateway exposes a node driver over HTTP and publishes an event for
// every node action.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"node-dns-drivers/internal/compute"
	"node-dns-drivers/internal/compute/clearapi"
	"node-dns-drivers/internal/events"
	"node-dns-drivers/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	contentTypeHeader     = "Content-Type"
	contentTypeJSON       = "application/json"
	contentTypePlaintext  = "text/plain"
	requestIDHeader       = "X-Request-ID"
	healthPath            = "/healthz"
	logFieldRequestPath   = "requestPath"
	logFieldRequestMethod = "requestMethod"
	logFieldRequestID     = "requestID"
	logFieldError         = "error"
)

type ctxKey int

const requestIDKey ctxKey = iota

// NodeView is the JSON representation of a node.
type NodeView struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	State      string         `json:"state"`
	PrivateIPs []string       `json:"privateIPs"`
	PublicIPs  []string       `json:"publicIPs"`
	CreatedAt  *time.Time     `json:"createdAt,omitempty"`
	Driver     string         `json:"driver"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// ActionResult is the response to a node action.
type ActionResult struct {
	NodeID    string `json:"nodeId"`
	Action    string `json:"action"`
	Success   bool   `json:"success"`
	RequestID string `json:"requestId"`
}

// Gateway serves the node API.
type Gateway struct {
	driver compute.Driver
	events events.Sink
}

// New creates a gateway over driver. Node actions are reported to sink.
func New(driver compute.Driver, sink events.Sink) *Gateway {
	if sink == nil {
		sink = events.Discard{}
	}
	return &Gateway{driver: driver, events: sink}
}

// Router returns the handler serving the gateway routes.
func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Health)
	r.Get("/nodes", g.Nodes)
	r.Get("/nodes/{id}", g.Node)
	r.Post("/nodes/{id}/{action}", g.NodeAction)
	return r
}

// Health answers the liveness check without reaching the driver.
func Health(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == healthPath {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestID propagates the request identifier sent by the client, or
// assigns a new one, and echoes it in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Nodes lists the nodes.
func (g *Gateway) Nodes(w http.ResponseWriter, r *http.Request) {
	requestLog(r).Debug("requesting nodes")
	nodes, err := g.driver.ListNodes(r.Context())
	if err != nil {
		writeError(w, r, err, "error listing nodes")
		return
	}
	views := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, NewNodeView(n))
	}
	requestLog(r).Debugf("returning nodes count: %d", len(views))
	writeJSON(w, r, http.StatusOK, views)
}

// Node returns a single node.
func (g *Gateway) Node(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	node, err := compute.FindNode(r.Context(), g.driver, id)
	if err != nil {
		writeError(w, r, err, "error getting node")
		return
	}
	writeJSON(w, r, http.StatusOK, NewNodeView(node))
}

// NodeAction runs an action on a node and publishes its outcome.
func (g *Gateway) NodeAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	action := chi.URLParam(r, "action")
	if !isAction(action) {
		w.Header().Set(contentTypeHeader, contentTypePlaintext)
		w.WriteHeader(http.StatusBadRequest)
		err := fmt.Errorf("unknown action '%s'", action)
		fmt.Fprint(w, err.Error())
		requestLog(r).WithField(logFieldError, err).Info("action check failed")
		return
	}

	ctx := r.Context()
	node, err := compute.FindNode(ctx, g.driver, id)
	if err != nil {
		writeError(w, r, err, "error getting node")
		return
	}

	requestLog(r).Infof("running action %s on node %s", action, node.ID)
	ok, err := compute.Action(ctx, g.driver, node, action)

	ev := events.NewNodeEvent(g.driver.Name(), action, node, ok, err)
	ev.RequestID = requestID(ctx)
	if perr := g.events.NodeAction(ctx, ev); perr != nil {
		requestLog(r).WithField(logFieldError, perr).Warn("error publishing node event")
	}

	if err != nil {
		writeError(w, r, err, "error running node action")
		return
	}
	writeJSON(w, r, http.StatusOK, ActionResult{
		NodeID:    node.ID,
		Action:    action,
		Success:   ok,
		RequestID: ev.RequestID,
	})
}

func isAction(action string) bool {
	switch action {
	case compute.ActionReboot, compute.ActionStart, compute.ActionStop,
		compute.ActionDestroy, compute.ActionPowerReset:
		return true
	}
	return false
}

// NewNodeView returns the JSON representation of n.
func NewNodeView(n model.Node) NodeView {
	v := NodeView{
		ID:         n.ID,
		Name:       n.Name,
		State:      n.State.String(),
		PrivateIPs: n.PrivateIPs,
		PublicIPs:  n.PublicIPs,
		CreatedAt:  n.CreatedAt,
		Extra:      n.Extra,
	}
	if v.PrivateIPs == nil {
		v.PrivateIPs = []string{}
	}
	if v.PublicIPs == nil {
		v.PublicIPs = []string{}
	}
	if n.Driver != nil {
		v.Driver = n.Driver.Name()
	}
	return v
}

// statusFor maps the driver errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNotSupported):
		return http.StatusNotImplemented
	case errors.Is(err, clearapi.ErrMissingUUID):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, model.ErrBackend):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	entry := requestLog(r).WithField(logFieldError, err)
	if status >= http.StatusInternalServerError {
		entry.Error(msg)
	} else {
		entry.Info(msg)
	}
	w.Header().Set(contentTypeHeader, contentTypePlaintext)
	w.WriteHeader(status)
	fmt.Fprint(w, err.Error())
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set(contentTypeHeader, contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		requestLog(r).WithField(logFieldError, err).Error("error encoding response")
	}
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func requestLog(r *http.Request) *log.Entry {
	return log.WithFields(log.Fields{
		logFieldRequestMethod: r.Method,
		logFieldRequestPath:   r.URL.Path,
		logFieldRequestID:     requestID(r.Context()),
	})
}
