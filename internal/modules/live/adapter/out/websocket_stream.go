package out

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"emotrack/internal/gateway"
	liveout "emotrack/internal/modules/live/port/out"
)

// WebsocketDialer connects the live alert channel. The REST client
// derives the ws:// address so both transports stay pointed at the same
// backend.
type WebsocketDialer struct {
	client *gateway.Client
}

func NewWebsocketDialer(client *gateway.Client) liveout.Dialer {
	return &WebsocketDialer{client: client}
}

func (d *WebsocketDialer) Dial(ctx context.Context, token string) (liveout.Stream, error) {
	addr, err := d.client.StreamURL(token)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial live channel: %w", err)
	}
	return &websocketStream{conn: conn}, nil
}

type websocketStream struct {
	conn *websocket.Conn
}

func (s *websocketStream) ReadMessage() ([]byte, error) {
	_, raw, err := s.conn.ReadMessage()
	return raw, err
}

func (s *websocketStream) Close() error {
	return s.conn.Close()
}
