package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor logs one line per unary RPC. Request messages that
// implement slog.LogValuer contribute a "request" group (trip, split or
// settlement IDs). Failures with a client-side code log at WARN, everything
// else that fails at ERROR.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("protocol", req.Peer().Protocol),
				slog.String("member_id", GetMemberID(ctx)),
				slog.Duration("duration", time.Since(start)),
			}
			if v, ok := req.Any().(slog.LogValuer); ok {
				attrs = append(attrs, slog.Any("request", v))
			}

			level, msg := slog.LevelInfo, "RPC ok"
			if err != nil {
				code := connect.CodeOf(err)
				level, msg = rpcErrorLevel(code), "RPC failed"
				attrs = append(attrs, slog.String("code", code.String()), slog.String("error", errorMessage(err)))
			}
			slog.LogAttrs(ctx, level, msg, attrs...)
			return resp, err
		}
	}
}

// rpcErrorLevel maps a Connect code to the level its failure is logged at.
func rpcErrorLevel(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeFailedPrecondition,
		connect.CodeUnauthenticated, connect.CodePermissionDenied, connect.CodeCanceled:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func errorMessage(err error) string {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce.Message()
	}
	return err.Error()
}
