package middleware

import (
	"context"
	"log/slog"

	"github.com/xraph/tasker/step"
)

// Logging returns middleware that logs step start and outcome.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, req *step.Request, next Next) *step.Result {
		logger.Info("step started",
			slog.String("callable", req.Callable),
			slog.String("step_id", req.StepID.String()),
		)

		res := next(ctx)

		if res.IsSuccess() {
			logger.Info("step completed",
				slog.String("callable", req.Callable),
				slog.String("step_id", req.StepID.String()),
				slog.Int64("elapsed_ms", res.ElapsedMs),
			)
		} else {
			logger.Error("step failed",
				slog.String("callable", req.Callable),
				slog.String("step_id", req.StepID.String()),
				slog.Int64("elapsed_ms", res.ElapsedMs),
				slog.Bool("retryable", res.Retryable),
				slog.String("error_code", res.ErrorCode),
				slog.String("error", res.Message),
			)
		}

		return res
	}
}
