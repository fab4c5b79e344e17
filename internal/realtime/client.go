package realtime

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"taskhive/internal/auth"
	"taskhive/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// sendBufferSize bounds the per-connection outbound queue. A client that
// cannot drain its queue has frames dropped rather than blocking the hub.
const sendBufferSize = 64

// Client is one live realtime connection. Inbound events are handled serially
// by the read loop; outbound events go through a buffered channel drained by
// the write loop.
type Client struct {
	id    string
	email string
	conn  *websocket.Conn
	send  chan Event
	done  chan struct{}
}

// deliver queues an event for the client. Full queues and disconnected
// clients drop the frame; the send channel is never closed, so a concurrent
// broadcast racing a disconnect cannot panic.
func (c *Client) deliver(event Event) {
	select {
	case <-c.done:
	case c.send <- event:
	default:
		logrus.Warnf("Send buffer full, dropping %s event for %s", event.Event, c.id)
		metrics.EventsDropped.WithLabelValues("slow_consumer").Inc()
	}
}

// newConnectionID generates an opaque identifier for a connection
func newConnectionID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "conn-unknown"
	}
	return hex.EncodeToString(buf)
}

// ServeWS upgrades an HTTP request to a websocket connection and attaches it
// to the hub. The Origin header is checked against the configured allow-list.
// An optional token query parameter identifies the acting user; events still
// carry the email explicitly, so an anonymous connection is accepted.
func ServeWS(hub *Hub, allowedOrigins []string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.Errorf("Failed to upgrade connection: %v", err)
			return
		}

		client := &Client{
			id:   newConnectionID(),
			conn: conn,
			send: make(chan Event, sendBufferSize),
			done: make(chan struct{}),
		}

		if token := c.Query("token"); token != "" {
			if claims, err := auth.ValidateAccessToken(token); err == nil {
				client.email = claims.Email
			} else {
				logrus.Warnf("Invalid token on realtime connection %s: %v", client.id, err)
			}
		}

		logrus.Infof("User connected: %s", client.id)

		go client.writePump()
		client.readPump(hub)
	}
}

// readPump reads events until the connection closes, handling each one to
// completion before the next
func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.Disconnect(c)
		close(c.done)
		c.conn.Close()
	}()

	for {
		var event Event
		if err := c.conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Warnf("Unexpected close on connection %s: %v", c.id, err)
			}
			return
		}
		hub.HandleEvent(context.Background(), c, event)
	}
}

// writePump drains the send queue onto the wire until the connection is done
func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		select {
		case <-c.done:
			return
		case event := <-c.send:
			if err := c.conn.WriteJSON(event); err != nil {
				logrus.Warnf("Failed to write to connection %s: %v", c.id, err)
				return
			}
		}
	}
}
