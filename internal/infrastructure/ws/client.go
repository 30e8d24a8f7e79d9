package ws

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one subscriber connection in a session's room. Subscribers only
// receive events; inbound frames are drained to detect disconnects.
type Client struct {
	conn      *websocket.Conn
	Message   chan *Message
	closeOnce sync.Once
	PlayerID  string `json:"playerId"`
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
}

func NewClient(conn *websocket.Conn, playerID, sessionID, username string) *Client {
	return &Client{
		conn:      conn,
		Message:   make(chan *Message, 64), // buffered to avoid dead-locks on slow clients
		PlayerID:  playerID,
		SessionID: sessionID,
		Username:  username,
	}
}

// Send drops the message when the client's buffer is full; the room
// broadcast is at-least-once only for connected, draining subscribers.
func (c *Client) Send(msg *Message) {
	defer func() {
		// Send may race with CloseSend on unregister.
		_ = recover()
	}()

	select {
	case c.Message <- msg:
	default:
		log.Printf("ws send buffer full (player %s), dropping %s", c.PlayerID, msg.Type)
	}
}

func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.Message)
	})
}

func (c *Client) ReadPump(core *Core) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (player %s): %v", c.PlayerID, err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.Message {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error (player %s): %v", c.PlayerID, err)
			break
		}
	}
}
