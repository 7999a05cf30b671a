package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"courierbook/entity"
	"courierbook/internal/automation"
	"courierbook/internal/geo"
	"courierbook/internal/pricing"
	"courierbook/internal/stripeclient"
	"courierbook/lib/sl"

	"github.com/stripe/stripe-go/v76"
)

// Core wires the pricing engine, Stripe client, distance resolver and
// automation client behind the handler interfaces.
type Core struct {
	sc     *stripeclient.StripeClient
	pricer *pricing.Engine
	geo    *geo.Resolver
	auto   *automation.Client
	log    *slog.Logger
}

func New(sc *stripeclient.StripeClient, pricer *pricing.Engine, log *slog.Logger) Core {
	if sc == nil {
		panic("stripe client is nil")
	}
	if pricer == nil {
		panic("pricing engine is nil")
	}
	return Core{
		sc:     sc,
		pricer: pricer,
		log:    log.With(sl.Module("core")),
	}
}

func (c *Core) SetResolver(r *geo.Resolver) {
	c.geo = r
}

func (c *Core) SetAutomation(a *automation.Client) {
	c.auto = a
}

// PriceBooking runs the booking through the pricing engine.
func (c *Core) PriceBooking(b *entity.Booking) (*entity.Quote, error) {
	pickupAt, err := b.PickupAt()
	if err != nil {
		return nil, err
	}

	breakdown, err := c.pricer.Price(pricing.Request{
		Miles:    b.Miles,
		PickupAt: pickupAt,
		BookedAt: b.Created,
		Industry: b.Industry,
		Service:  b.ServiceType,
	})
	if err != nil {
		return nil, err
	}

	return &entity.Quote{
		Reference: b.Reference,
		Amount:    breakdown.Total,
		Currency:  c.pricer.Currency(),
		Miles:     b.Miles,
		Profile:   breakdown.Profile,
		Breakdown: breakdown.Lines(),
	}, nil
}

// CreateCheckout prices the booking and opens a Stripe Checkout Session.
func (c *Core) CreateCheckout(b *entity.Booking) (*entity.Payment, error) {
	q, err := c.PriceBooking(b)
	if err != nil {
		return nil, err
	}
	return c.sc.CreateCheckoutSession(b, q.Amount, q.Currency)
}

// CheckAvailability forwards the slot question to the automation webhook.
func (c *Core) CheckAvailability(ctx context.Context, req *entity.AvailabilityRequest) *entity.AvailabilityResult {
	if c.auto == nil {
		c.log.Error("automation client not connected")
		return &entity.AvailabilityResult{
			Available: false,
			Message:   "Sorry, that slot is no longer available. Please choose another time.",
		}
	}
	return c.auto.CheckAvailability(ctx, req)
}

// Distance resolves the driving distance between two postcodes.
func (c *Core) Distance(ctx context.Context, from, to string) (*geo.Distance, error) {
	if c.geo == nil {
		return nil, fmt.Errorf("distance resolver not connected")
	}
	return c.geo.Miles(ctx, from, to)
}

func (c *Core) StripeVerifySignature(payload []byte, header string, tolerance time.Duration) (string, bool) {
	return c.sc.VerifySignature(payload, header, tolerance)
}

func (c *Core) StripeEvent(ctx context.Context, evt *stripe.Event) {
	c.sc.HandleEvent(ctx, evt)
}
