/*
 * Events - node action events published on NATS.
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

// Package events publishes a message for every action run on a node, so
// that other services can follow the lifecycle of the fleet.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"node-dns-drivers/internal/model"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// SubjectPrefix is the prefix of the subjects; the action name follows.
const SubjectPrefix = "nodes."

// ErrNotConnected is returned when publishing on a closed connection.
var ErrNotConnected = errors.New("nats not connected")

// NodeEvent is the payload published after a node action.
type NodeEvent struct {
	ID        string    `json:"id"`
	RequestID string    `json:"requestId,omitempty"`
	Driver    string    `json:"driver"`
	Action    string    `json:"action"`
	NodeID    string    `json:"nodeId"`
	NodeName  string    `json:"nodeName,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Time      time.Time `json:"time"`
}

// Sink receives the node events.
type Sink interface {
	NodeAction(ctx context.Context, ev NodeEvent) error
}

// Conn is the part of a NATS connection used to publish.
type Conn interface {
	Publish(subject string, data []byte) error
	IsClosed() bool
}

// Publisher publishes node events on NATS.
type Publisher struct {
	conn Conn
	now  func() time.Time
}

// NewPublisher creates a publisher over an existing connection.
func NewPublisher(conn Conn) *Publisher {
	return &Publisher{conn: conn, now: time.Now}
}

// Connect connects to the NATS server at url and returns a publisher and the
// connection, which the caller must close.
func Connect(url, name string) (*Publisher, *nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warnf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to NATS at %s failed: %w", url, err)
	}
	return NewPublisher(nc), nc, nil
}

// Subject returns the subject of an action.
func Subject(action string) string {
	return SubjectPrefix + action
}

// NodeAction publishes ev on the subject of its action. A missing ID or
// time is filled in.
func (p *Publisher) NodeAction(ctx context.Context, ev NodeEvent) error {
	if p.conn == nil || p.conn.IsClosed() {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Time.IsZero() {
		ev.Time = p.now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event %s failed: %w", ev.ID, err)
	}
	subject := Subject(ev.Action)
	log.WithFields(log.Fields{
		"subject": subject,
		"eventID": ev.ID,
		"nodeID":  ev.NodeID,
	}).Debug("Publishing node event")
	return p.conn.Publish(subject, payload)
}

// Discard is a sink dropping every event.
type Discard struct{}

// NodeAction does nothing.
func (Discard) NodeAction(ctx context.Context, ev NodeEvent) error {
	return nil
}

// NewNodeEvent returns the event describing the outcome of action on node.
func NewNodeEvent(driverName, action string, node model.Node, ok bool, err error) NodeEvent {
	ev := NodeEvent{
		Driver:   driverName,
		Action:   action,
		NodeID:   node.ID,
		NodeName: node.Name,
		Success:  ok && err == nil,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}
