package stripeclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"courierbook/entity"
	"courierbook/internal/config"
	"courierbook/lib/sl"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Notifier receives operator notifications after webhook events. Delivery
// failures never surface to Stripe; the event is acknowledged regardless.
type Notifier interface {
	BookingPaid(b *entity.Booking, amount int64, currency string)
	PaymentFailed(reference, reason string, amount int64, currency string)
}

// BookingSink receives paid bookings, implemented by the automation client.
type BookingSink interface {
	NotifyBooking(ctx context.Context, b *entity.Booking, amount int64, currency string) error
}

// StripeClient creates Checkout Sessions for priced bookings and processes
// webhook events. Signature verification holds both signing secrets: live
// first, then test, so one endpoint serves both dashboard modes.
type StripeClient struct {
	sc         *client.API
	liveSecret string
	testSecret string
	successUrl string
	cancelUrl  string
	notifier   Notifier
	sink       BookingSink
	log        *slog.Logger
	testMode   bool
}

func New(conf *config.Config, logger *slog.Logger) *StripeClient {
	stripeKey := conf.Stripe.APIKey
	if conf.Stripe.TestMode {
		stripeKey = conf.Stripe.TestKey
		logger.With(
			sl.Secret("api_key", stripeKey),
		).Info("using test mode for stripe")
	}
	sc := &client.API{}
	sc.Init(stripeKey, nil)
	return &StripeClient{
		sc:         sc,
		liveSecret: conf.Stripe.WebhookSecret,
		testSecret: conf.Stripe.TestWebhookSecret,
		successUrl: conf.Stripe.SuccessURL,
		cancelUrl:  conf.Stripe.CancelURL,
		testMode:   conf.Stripe.TestMode,
		log:        logger.With(sl.Module("stripe")),
	}
}

func (s *StripeClient) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *StripeClient) SetBookingSink(sink BookingSink) {
	s.sink = sink
}

// VerifySignature checks the Stripe-Signature header against the live
// secret, then the test secret. It returns which secret matched ("live" or
// "test") so webhook logs can tell the two apart.
func (s *StripeClient) VerifySignature(payload []byte, header string, tolerance time.Duration) (string, bool) {
	parts := strings.Split(header, ",")
	var ts, sig string
	for _, p := range parts {
		if strings.HasPrefix(p, "t=") {
			ts = strings.TrimPrefix(p, "t=")
		}
		if strings.HasPrefix(p, "v1=") {
			sig = strings.TrimPrefix(p, "v1=")
		}
	}
	if ts == "" || sig == "" {
		s.log.Warn("missing timestamp or signature in header")
		return "", false
	}

	tsInt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		s.log.With(
			slog.Any("error", err),
		).Warn("failed to parse timestamp")
		return "", false
	}

	eventTime := time.Unix(tsInt, 0)
	timeSince := time.Since(eventTime)
	if timeSince > tolerance {
		s.log.With(
			slog.Time("timestamp", eventTime),
			slog.Duration("age", timeSince),
			slog.Duration("tolerance", tolerance),
		).Warn("webhook timestamp too old")
		return "", false
	}

	if s.liveSecret != "" && signatureMatches(s.liveSecret, ts, payload, sig) {
		return "live", true
	}
	if s.testSecret != "" && signatureMatches(s.testSecret, ts, payload, sig) {
		return "test", true
	}

	s.log.With(
		sl.Secret("live_secret", s.liveSecret),
		sl.Secret("test_secret", s.testSecret),
	).Warn("signature mismatch")
	return "", false
}

func signatureMatches(secret, ts string, payload []byte, sig string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}

// CreateCheckoutSession creates the hosted payment page for a priced
// booking. The booking details travel in the session metadata and come back
// in the checkout.session.completed event.
func (s *StripeClient) CreateCheckoutSession(b *entity.Booking, amount int64, currency string) (*entity.Payment, error) {
	log := s.log.With(
		sl.Ref(b.Reference),
		slog.Int64("amount", amount),
		slog.String("currency", currency),
	)

	if s.successUrl == "" {
		return nil, fmt.Errorf("missing success url")
	}
	if b.Email == "" {
		return nil, fmt.Errorf("missing email address")
	}

	md := b.Metadata()
	if code := b.CountryCode(); code != "" {
		md["country"] = code
	}

	csParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(b.Route()),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata:          md,
		ClientReferenceID: stripe.String(b.Reference),
		SuccessURL:        stripe.String(s.successUrl),
		CustomerEmail:     stripe.String(strings.TrimSpace(b.Email)),
	}
	if s.cancelUrl != "" {
		csParams.CancelURL = stripe.String(s.cancelUrl)
	}

	cs, err := s.sc.CheckoutSessions.New(csParams)
	if err != nil {
		err = s.parseErr(err)
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}

	payment := &entity.Payment{
		SessionId: cs.ID,
		Reference: b.Reference,
		Amount:    amount,
		Currency:  strings.ToUpper(currency),
		Link:      cs.URL,
	}

	log.Info("checkout session created", slog.String("session_id", cs.ID))
	return payment, nil
}

// HandleEvent routes a verified webhook event. Everything here runs after
// the 200 has been decided: failures are logged, never retried.
func (s *StripeClient) HandleEvent(ctx context.Context, evt *stripe.Event) {
	switch evt.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		s.handleCheckoutCompleted(ctx, evt)
	case stripe.EventTypePaymentIntentPaymentFailed:
		s.handlePaymentFailed(evt)
	default:
		s.log.With(
			slog.Any("event_type", evt.Type),
			slog.String("event_id", evt.ID),
		).Debug("ignoring event")
	}
}

func (s *StripeClient) handleCheckoutCompleted(ctx context.Context, evt *stripe.Event) {
	sessID := evt.GetObjectValue("id")
	log := s.log.With(
		slog.Any("event_type", evt.Type),
		slog.String("event_id", evt.ID),
		slog.String("session_id", sessID),
	)

	sess, err := s.sc.CheckoutSessions.Get(sessID, &stripe.CheckoutSessionParams{
		Expand: []*string{
			stripe.String("line_items"),
		},
	})
	if err != nil {
		log.With(
			sl.Err(s.parseErr(err)),
		).Error("get session from stripe")
		return
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid &&
		sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
		log.With(
			slog.Any("payment_status", sess.PaymentStatus),
		).Info("session completed but not paid, skipping")
		return
	}

	booking := entity.BookingFromMetadata(sess.Metadata)
	if booking.Reference == "" {
		booking.Reference = sess.ClientReferenceID
	}
	if booking.Reference == "" {
		booking.Reference = sess.ID
	}
	if booking.Email == "" {
		booking.Email = sess.CustomerEmail
	}
	if booking.Email == "" && sess.CustomerDetails != nil {
		booking.Email = sess.CustomerDetails.Email
	}

	currency := strings.ToUpper(string(sess.Currency))
	log = log.With(
		sl.Ref(booking.Reference),
		slog.String("customer_email", booking.Email),
		slog.Int64("amount", sess.AmountTotal),
		slog.String("currency", currency),
	)
	log.Info("booking paid")

	if s.notifier != nil {
		s.notifier.BookingPaid(booking, sess.AmountTotal, currency)
	}
	if s.sink != nil {
		if err = s.sink.NotifyBooking(ctx, booking, sess.AmountTotal, currency); err != nil {
			log.With(
				sl.Err(err),
			).Error("push booking to automation")
		}
	}
}

func (s *StripeClient) handlePaymentFailed(evt *stripe.Event) {
	piID := evt.GetObjectValue("id")
	log := s.log.With(
		slog.Any("event_type", evt.Type),
		slog.String("event_id", evt.ID),
		slog.String("id", piID),
	)

	pi, err := s.sc.PaymentIntents.Get(piID, nil)
	if err != nil {
		log.With(
			sl.Err(s.parseErr(err)),
		).Error("get payment intent from stripe")
		return
	}

	reference := ""
	if pi.Metadata != nil {
		reference = entity.BookingFromMetadata(pi.Metadata).Reference
	}
	reason := ""
	if pi.LastPaymentError != nil {
		reason = pi.LastPaymentError.Msg
	}

	log.With(
		sl.Ref(reference),
		slog.Int64("amount", pi.Amount),
		slog.String("currency", string(pi.Currency)),
	).Warn("payment failed")

	if s.notifier != nil {
		s.notifier.PaymentFailed(reference, reason, pi.Amount, strings.ToUpper(string(pi.Currency)))
	}
}
