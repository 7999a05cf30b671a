package quote

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"courierbook/entity"
	"courierbook/internal/pricing"
	"courierbook/lib/api/response"
	"courierbook/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const manualQuoteMessage = "This distance is beyond our instant pricing. Please contact us for a manual quote."

type Core interface {
	PriceBooking(b *entity.Booking) (*entity.Quote, error)
}

// Calculate prices a booking without creating a checkout session.
func Calculate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.quote")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var booking entity.Booking
		if err := render.Bind(r, &booking); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		logger = logger.With(
			sl.Ref(booking.Reference),
			slog.Float64("miles", booking.Miles),
		)

		q, err := handler.PriceBooking(&booking)
		if err != nil {
			if errors.Is(err, pricing.ErrManualQuote) {
				logger.Info("manual quote required")
				render.Status(r, 400)
				render.JSON(w, r, response.Error(manualQuoteMessage))
				return
			}
			logger.Error("price booking", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Quote: %v", err)))
			return
		}
		logger.Debug("quote calculated", slog.Int64("amount", q.Amount))

		render.JSON(w, r, response.Ok(q))
	}
}
