package in

import (
	"context"

	surveydto "emotrack/internal/modules/survey/dto"
	surveyin "emotrack/internal/modules/survey/port/in"
)

type CLIHandler struct {
	usecase surveyin.Usecase
}

func NewCLIHandler(usecase surveyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Submit(ctx context.Context, input surveydto.EntryInput) error {
	return h.usecase.Submit(ctx, input)
}
