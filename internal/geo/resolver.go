package geo

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"courierbook/lib/sl"
)

const metersPerMile = 1609.344

// Distance is the result of a postcode-to-postcode lookup.
type Distance struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Miles float64 `json:"miles"`
}

// Resolver geocodes two postcodes and asks a router for the driving
// distance. A fallback router, when present, is tried after the primary.
type Resolver struct {
	postcodes *PostcodesClient
	primary   Router
	fallback  Router
	log       *slog.Logger
}

func NewResolver(postcodes *PostcodesClient, primary Router, logger *slog.Logger) *Resolver {
	return &Resolver{
		postcodes: postcodes,
		primary:   primary,
		log:       logger.With(sl.Module("geo")),
	}
}

// SetFallback attaches a secondary router tried when the primary fails.
func (r *Resolver) SetFallback(router Router) {
	r.fallback = router
}

// Miles resolves the driving distance between two postcodes, rounded to one
// decimal place.
func (r *Resolver) Miles(ctx context.Context, from, to string) (*Distance, error) {
	origin, err := r.postcodes.Lookup(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	dest, err := r.postcodes.Lookup(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	meters, err := r.primary.Distance(ctx, *origin, *dest)
	if err != nil && r.fallback != nil {
		r.log.Warn("primary router failed, trying fallback", sl.Err(err))
		meters, err = r.fallback.Distance(ctx, *origin, *dest)
	}
	if err != nil {
		return nil, fmt.Errorf("route %s to %s: %w", origin.Postcode, dest.Postcode, err)
	}

	miles := math.Round(meters/metersPerMile*10) / 10
	r.log.Debug("distance resolved",
		slog.String("from", origin.Postcode),
		slog.String("to", dest.Postcode),
		slog.Float64("miles", miles),
	)

	return &Distance{
		From:  origin.Postcode,
		To:    dest.Postcode,
		Miles: miles,
	}, nil
}
