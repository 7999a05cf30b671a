package distance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"courierbook/internal/geo"
	"courierbook/lib/api/response"
	"courierbook/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const upstreamMessage = "Unable to calculate the distance right now, please try again shortly."

type Core interface {
	Distance(ctx context.Context, from, to string) (*geo.Distance, error)
}

// Lookup resolves the driving distance between two postcodes given as
// query parameters. This is the one GET endpoint on the site.
func Lookup(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.distance")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" || to == "" {
			logger.Error("missing query parameters")
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Both from and to postcodes are required"))
			return
		}
		logger = logger.With(
			slog.String("from", from),
			slog.String("to", to),
		)

		d, err := handler.Distance(r.Context(), from, to)
		if err != nil {
			if errors.Is(err, geo.ErrUnknownPostcode) {
				logger.Info("postcode not recognised", sl.Err(err))
				render.Status(r, 400)
				render.JSON(w, r, response.Error(fmt.Sprintf("Postcode not recognised: %v", err)))
				return
			}
			logger.Error("resolve distance", sl.Err(err))
			render.Status(r, 502)
			render.JSON(w, r, response.Error(upstreamMessage))
			return
		}
		logger.Debug("distance resolved", slog.Float64("miles", d.Miles))

		render.JSON(w, r, response.Ok(d))
	}
}
