package checkout

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

const (
	manualQuoteMessage = "This distance is beyond our instant pricing. Please contact us for a manual quote."
	upstreamMessage    = "Unable to start checkout right now, please try again shortly."
)

type Core interface {
	CreateCheckout(b *entity.Booking) (*entity.Payment, error)
}

// Create prices a booking and opens a Stripe Checkout Session for it.
func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.checkout")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("stripe service not available")
			render.Status(r, 502)
			render.JSON(w, r, response.Error(upstreamMessage))
			return
		}

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
			slog.String("email", booking.Email),
		)

		pm, err := handler.CreateCheckout(&booking)
		if err != nil {
			if errors.Is(err, pricing.ErrManualQuote) {
				logger.Info("manual quote required")
				render.Status(r, 400)
				render.JSON(w, r, response.Error(manualQuoteMessage))
				return
			}
			// Stripe failures carry diagnostics for the log only; the
			// customer gets the generic message.
			logger.Error("create checkout session", sl.Err(err))
			render.Status(r, 502)
			render.JSON(w, r, response.Error(upstreamMessage))
			return
		}
		logger.Debug("checkout link created", slog.String("session_id", pm.SessionId))

		render.JSON(w, r, response.Ok(pm))
	}
}
