/*
 * Events - unit tests.
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
package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"node-dns-drivers/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// message is a published message.
type message struct {
	subject string
	data    []byte
}

// fakeConn records the published messages.
type fakeConn struct {
	closed   bool
	err      error
	messages []message
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, message{subject: subject, data: data})
	return nil
}

func (c *fakeConn) IsClosed() bool {
	return c.closed
}

var testTime = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

func Test_Publisher_NodeAction(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn)
	p.now = func() time.Time { return testTime }

	ev := NewNodeEvent("Maxihost", "reboot", model.Node{ID: "42", Name: "node-1"}, true, nil)
	ev.RequestID = "req-1"
	require.NoError(t, p.NodeAction(context.Background(), ev))
	require.Len(t, conn.messages, 1)
	assert.Equal(t, "nodes.reboot", conn.messages[0].subject)

	var actual NodeEvent
	require.NoError(t, json.Unmarshal(conn.messages[0].data, &actual))
	_, err := uuid.Parse(actual.ID)
	assert.NoError(t, err)
	actual.ID = ""
	assert.Equal(t, NodeEvent{
		RequestID: "req-1",
		Driver:    "Maxihost",
		Action:    "reboot",
		NodeID:    "42",
		NodeName:  "node-1",
		Success:   true,
		Time:      testTime,
	}, actual)
}

func Test_Publisher_NodeAction_keepsID(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn)

	require.NoError(t, p.NodeAction(context.Background(), NodeEvent{ID: "fixed", Action: "stop"}))
	assert.Contains(t, string(conn.messages[0].data), `"id":"fixed"`)
}

func Test_Publisher_NodeAction_errors(t *testing.T) {
	type testCase struct {
		name     string
		conn     *fakeConn
		ctx      func() context.Context
		expected error
	}

	run := func(t *testing.T, tc testCase) {
		p := NewPublisher(tc.conn)
		err := p.NodeAction(tc.ctx(), NodeEvent{Action: "reboot"})
		assert.ErrorIs(t, err, tc.expected)
		assert.Empty(t, tc.conn.messages)
	}

	publishErr := errors.New("slow consumer")

	testCases := []testCase{
		{
			name:     "closed connection",
			conn:     &fakeConn{closed: true},
			ctx:      context.Background,
			expected: ErrNotConnected,
		},
		{
			name: "cancelled context",
			conn: &fakeConn{},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			expected: context.Canceled,
		},
		{
			name:     "publish failure",
			conn:     &fakeConn{err: publishErr},
			ctx:      context.Background,
			expected: publishErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_NewNodeEvent(t *testing.T) {
	node := model.Node{ID: "7"}

	ev := NewNodeEvent("ClearAPI", "power-reset", node, true, errors.New("boom"))
	assert.False(t, ev.Success)
	assert.Equal(t, "boom", ev.Error)

	ev = NewNodeEvent("ClearAPI", "power-reset", node, false, nil)
	assert.False(t, ev.Success)
	assert.Empty(t, ev.Error)
}

func Test_Discard(t *testing.T) {
	assert.NoError(t, Discard{}.NodeAction(context.Background(), NodeEvent{}))
}

func Test_Connect_unreachable(t *testing.T) {
	_, _, err := Connect("nats://127.0.0.1:1", "test")
	assert.ErrorContains(t, err, "connecting to NATS at nats://127.0.0.1:1 failed")
}
