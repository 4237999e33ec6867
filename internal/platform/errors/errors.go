package apperrors

import "errors"

var (
	// ErrNoSession means no local session exists; the caller should point
	// the user at `emotrack login`.
	ErrNoSession = errors.New("no session")

	// ErrMissingToken means an authenticated call was attempted without a
	// token. The gateway rejects these locally, before any network I/O.
	ErrMissingToken = errors.New("missing token")

	// ErrUnauthorized means the server rejected the token. Clearing the
	// session is the orchestrator's job, never the gateway's.
	ErrUnauthorized = errors.New("unauthorized")

	ErrServer  = errors.New("server error")
	ErrNetwork = errors.New("network error")

	// ErrValidation means client-side field validation failed; no network
	// call was made.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedMessage marks an unparseable live-channel payload. It is
	// logged and dropped; the channel stays open.
	ErrMalformedMessage = errors.New("malformed channel message")
)
