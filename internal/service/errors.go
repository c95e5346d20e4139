package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
)

// connectCode maps the error taxonomy to a Connect status code.
func connectCode(err error) connect.Code {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return connect.CodeInvalidArgument
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidState):
		return connect.CodeFailedPrecondition
	case errors.Is(err, models.ErrNotFound):
		return connect.CodeNotFound
	default:
		return connect.CodeInternal
	}
}

// errorKind is the metrics label for a failed calculation.
func errorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, models.ErrValidation):
		return "validation"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrInvalidState):
		return "invalid_state"
	default:
		return "internal"
	}
}

// fail logs err under op and converts it to a Connect error. Errors that are
// already Connect errors keep their code.
func fail(op string, err error, args ...any) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		slog.Warn(op+" failed", append(args, "code", connectErr.Code(), "error", err)...)
		return err
	}

	code := connectCode(err)
	if code == connect.CodeInternal {
		slog.Error(op+" failed", append(args, "error", err)...)
	} else {
		slog.Warn(op+" failed", append(args, "code", code, "error", err)...)
	}
	return connect.NewError(code, err)
}
