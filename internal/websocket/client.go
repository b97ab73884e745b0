// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package websocket

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/starsync/internal/eventlog"
	"github.com/tomtom215/starsync/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // clients only send control frames
)

// clientIDCounter generates unique, monotonically increasing IDs for clients.
var clientIDCounter atomic.Uint64

// Client is a middleman between the websocket connection and its log subscription.
type Client struct {
	id       uint64
	hub      *Hub
	conn     *websocket.Conn
	sub      *eventlog.Subscription
	snapshot []string

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, sub *eventlog.Subscription, snapshot []string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:       clientIDCounter.Add(1),
		hub:      hub,
		conn:     conn,
		sub:      sub,
		snapshot: snapshot,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() uint64 {
	return c.id
}

// Start begins reading and writing for the client
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// stop releases the subscription and unblocks both pumps. Safe to call
// from either pump and from the hub.
func (c *Client) stop() {
	c.stopOnce.Do(func() {
		c.cancel()
		c.sub.Close()
		c.hub.unregister(c)
	})
}

// readPump discards client messages; its job is to keep the read deadline
// fresh via pongs and notice when the peer goes away.
func (c *Client) readPump() {
	defer func() {
		c.stop()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Uint64("client_id", c.id).Msg("unexpected websocket close error")
			}
			return
		}
	}
}

// writePump sends the snapshot, then each subscribed line. Waiting for a
// line is bounded by pingPeriod so keepalives go out on an idle log.
func (c *Client) writePump() {
	defer func() {
		c.stop()
		_ = c.conn.Close()
	}()

	for _, line := range c.snapshot {
		if err := c.writeLine(line); err != nil {
			return
		}
	}
	c.snapshot = nil

	for {
		waitCtx, cancel := context.WithTimeout(c.ctx, pingPeriod)
		line, err := c.sub.Next(waitCtx)
		cancel()

		switch {
		case err == nil:
			if err := c.writeLine(line); err != nil {
				return
			}
		case errors.Is(err, context.DeadlineExceeded) && c.ctx.Err() == nil:
			if err := c.writeControl(websocket.PingMessage); err != nil {
				return
			}
		case errors.Is(err, eventlog.ErrSubscriptionClosed):
			_ = c.writeControl(websocket.CloseMessage)
			return
		default:
			// client context canceled
			_ = c.writeControl(websocket.CloseMessage)
			return
		}
	}
}

func (c *Client) writeLine(line string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set write deadline")
		return err
	}
	if err := c.conn.WriteJSON(Message{Type: MessageTypeLog, Data: line}); err != nil {
		logging.Debug().Err(err).Uint64("client_id", c.id).Msg("failed to write log message")
		return err
	}
	return nil
}

func (c *Client) writeControl(messageType int) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, []byte{})
}
