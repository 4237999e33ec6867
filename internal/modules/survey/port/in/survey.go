package in

import (
	"context"

	"emotrack/internal/modules/survey/dto"
)

type Usecase interface {
	// Submit validates the entry locally and posts it. An invalid entry
	// never reaches the wire; the returned error unwraps to
	// apperrors.ErrValidation and carries per-field detail.
	Submit(ctx context.Context, input dto.EntryInput) error
}
