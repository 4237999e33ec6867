package in

import (
	"context"

	"emotrack/internal/modules/live/dto"
)

type Usecase interface {
	// Open connects the live channel for the current session and starts
	// delivering updates. A feed opens at most once; there is no
	// reconnect after failure.
	Open(ctx context.Context) error
	// Updates yields one value per relevant push. The channel closes when
	// the stream ends, whatever the reason.
	Updates() <-chan dto.UpdateOutput
	// Close tears the stream down. Safe to call any number of times,
	// including before Open.
	Close() error
}
