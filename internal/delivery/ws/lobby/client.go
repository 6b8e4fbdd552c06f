package ws_lobby

import (
	"github.com/gorilla/websocket"
)

// Client is one websocket connection. userID is bound as soon as an event
// identifying the user arrives, so a dropped connection can be routed
// through the leave path.
type Client struct {
	ID     string
	userID string

	conn *websocket.Conn
	send chan Event
}

func newClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan Event, 16),
	}
}

func (c *Client) bindUser(userID string) {
	if userID != "" {
		c.userID = userID
	}
}

// writePump drains the send channel onto the connection until the hub
// closes the channel or the write fails.
func (c *Client) writePump() {
	defer c.conn.Close()

	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			break
		}
	}
}
