package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	writeTimeout   = 10 * time.Second
)

// Client is one open page listening for notifications. Pages never send
// anything the gateway acts on; inbound frames are discarded.
type Client struct {
	hub    *Hub
	conn   *ws.Conn
	send   chan []byte
	remote string
	// closeReason is set by the hub before it closes send.
	closeReason string
}

func NewClient(hub *Hub, conn *ws.Conn, remote string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		remote: remote,
	}
}

// Run registers the client, queues greeting (if any) and pumps messages
// until the page goes away or the hub drops it.
func (c *Client) Run(ctx context.Context, greeting []byte) {
	// CloseRead discards inbound frames and cancels ctx when the peer
	// closes, which ends the write loop.
	ctx = c.conn.CloseRead(ctx)

	if greeting != nil {
		c.send <- greeting
	}
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	c.writeLoop(ctx)
}

func (c *Client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.Close(ws.StatusNormalClosure, c.reason())
				return
			}
			if err := c.write(ctx, msg); err != nil {
				c.hub.logger.Debug("write failed", "remote", c.remote, "error", err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.hub.logger.Debug("ping failed", "remote", c.remote, "error", err)
				return
			}
		case <-ctx.Done():
			c.conn.CloseNow()
			return
		}
	}
}

func (c *Client) write(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, ws.MessageText, msg)
}

func (c *Client) reason() string {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	return c.closeReason
}
