package availability

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"courierbook/entity"
	"courierbook/lib/api/response"
	"courierbook/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	CheckAvailability(ctx context.Context, req *entity.AvailabilityRequest) *entity.AvailabilityResult
}

// Check proxies a slot availability question to the automation webhook.
// The response is always 200 with an availability flag: upstream failures
// are masked inside the automation client.
func Check(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.availability")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.AvailabilityRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		logger = logger.With(
			slog.String("date", req.Date),
			slog.String("time", req.Time),
		)

		result := handler.CheckAvailability(r.Context(), &req)
		logger.Debug("availability checked", slog.Bool("available", result.Available))

		render.JSON(w, r, response.Ok(result))
	}
}
