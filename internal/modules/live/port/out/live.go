package out

import "context"

// Stream is one established live connection.
type Stream interface {
	// ReadMessage blocks for the next raw frame.
	ReadMessage() ([]byte, error)
	Close() error
}

// Dialer establishes the live channel for a session token. The adapter
// owns address derivation and the handshake.
type Dialer interface {
	Dial(ctx context.Context, token string) (Stream, error)
}
