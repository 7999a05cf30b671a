package pricing

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"courierbook/entity"
	"courierbook/lib/sl"
)

// ErrManualQuote is returned for distances at or beyond the profile ceiling,
// where automated pricing is disabled and a human quote is required.
var ErrManualQuote = errors.New("distance requires a manual quote")

// Bracket adds a flat fee once the booking distance reaches FromMiles.
// Only the highest matching bracket applies.
type Bracket struct {
	FromMiles float64
	Fee       int64
}

// Profile holds the pricing rules for one (industry, service type) pair.
// All money amounts are in minor currency units.
type Profile struct {
	Name          string
	BaseFee       int64
	IncludedMiles float64 // mileage covered by the base fee
	PerMile       int64
	RoundTo       int64 // rounding granularity, must divide BaseFee
	MaxMiles      float64
	AfterHoursFee int64 // pickup before 08:00 or from 18:00
	WeekendFee    int64
	UrgentFee     int64 // booked less than 2h before pickup
	ShortNotice   int64 // booked less than 24h before pickup
	Brackets      []Bracket
}

const (
	afterHoursStart = 18
	afterHoursEnd   = 8

	urgentLead      = 2 * time.Hour
	shortNoticeLead = 24 * time.Hour
)

// Request carries the scalar inputs of the price calculation.
type Request struct {
	Miles    float64
	PickupAt time.Time
	BookedAt time.Time
	Industry string
	Service  entity.ServiceType
}

// Breakdown itemizes an automated price. Total is rounded to the profile
// granularity and never drops below the base fee.
type Breakdown struct {
	Profile    string
	Base       int64
	Mileage    int64
	AfterHours int64
	Weekend    int64
	Urgency    int64
	Distance   int64
	Total      int64
}

// Lines renders the breakdown as customer-facing text, skipping zero items.
func (b *Breakdown) Lines() []string {
	var lines []string
	add := func(label string, amount int64) {
		if amount != 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", label, amount))
		}
	}
	add("base fee", b.Base)
	add("mileage", b.Mileage)
	add("after hours", b.AfterHours)
	add("weekend", b.Weekend)
	add("urgency", b.Urgency)
	add("long distance", b.Distance)
	lines = append(lines, fmt.Sprintf("total: %d", b.Total))
	return lines
}

// Engine prices bookings against the profile table. It is stateless and safe
// for concurrent use.
type Engine struct {
	profiles map[profileKey]Profile
	fallback Profile
	currency string
	log      *slog.Logger
}

type profileKey struct {
	industry string
	service  entity.ServiceType
}

func NewEngine(currency string, log *slog.Logger) *Engine {
	return &Engine{
		profiles: industryProfiles,
		fallback: defaultProfile,
		currency: strings.ToUpper(currency),
		log:      log.With(sl.Module("pricing")),
	}
}

func (e *Engine) Currency() string {
	return e.currency
}

// Lookup selects the profile for an industry and service type, falling back
// to the default profile for unknown pairs.
func (e *Engine) Lookup(industry string, service entity.ServiceType) Profile {
	if service == "" {
		service = entity.ServiceOneWay
	}
	key := profileKey{industry: strings.ToLower(strings.TrimSpace(industry)), service: service}
	if p, ok := e.profiles[key]; ok {
		return p
	}
	return e.fallback
}

// Price computes the automated price for a booking request.
func (e *Engine) Price(req Request) (*Breakdown, error) {
	if req.Miles <= 0 {
		return nil, fmt.Errorf("miles must be positive, got %.1f", req.Miles)
	}

	p := e.Lookup(req.Industry, req.Service)
	if req.Miles >= p.MaxMiles {
		return nil, fmt.Errorf("%.1f miles with profile %s: %w", req.Miles, p.Name, ErrManualQuote)
	}

	b := &Breakdown{
		Profile: p.Name,
		Base:    p.BaseFee,
	}
	if req.Miles > p.IncludedMiles {
		b.Mileage = int64(float64(p.PerMile) * (req.Miles - p.IncludedMiles))
	}
	if isAfterHours(req.PickupAt) {
		b.AfterHours = p.AfterHoursFee
	}
	if isWeekend(req.PickupAt) {
		b.Weekend = p.WeekendFee
	}
	b.Urgency = urgencyFee(p, req.PickupAt, req.BookedAt)
	b.Distance = bracketFee(p.Brackets, req.Miles)

	total := b.Base + b.Mileage + b.AfterHours + b.Weekend + b.Urgency + b.Distance
	total = roundTo(total, p.RoundTo)
	if total < p.BaseFee {
		total = p.BaseFee
	}
	b.Total = total

	e.log.Debug("priced booking",
		slog.String("profile", p.Name),
		slog.Float64("miles", req.Miles),
		slog.Int64("total", total),
	)
	return b, nil
}

func isAfterHours(pickup time.Time) bool {
	h := pickup.Hour()
	return h < afterHoursEnd || h >= afterHoursStart
}

func isWeekend(pickup time.Time) bool {
	wd := pickup.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func urgencyFee(p Profile, pickup, booked time.Time) int64 {
	if booked.IsZero() {
		return 0
	}
	lead := pickup.Sub(booked)
	switch {
	case lead < urgentLead:
		return p.UrgentFee
	case lead < shortNoticeLead:
		return p.ShortNotice
	default:
		return 0
	}
}

func bracketFee(brackets []Bracket, miles float64) int64 {
	var fee int64
	for _, br := range brackets {
		if miles >= br.FromMiles {
			fee = br.Fee
		}
	}
	return fee
}

// roundTo rounds amount to the nearest multiple of granularity.
func roundTo(amount, granularity int64) int64 {
	if granularity <= 0 {
		return amount
	}
	half := granularity / 2
	return (amount + half) / granularity * granularity
}
