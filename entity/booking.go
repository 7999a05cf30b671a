package entity

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"courierbook/lib/clock"
	"courierbook/lib/validate"

	"github.com/biter777/countries"
	"github.com/google/uuid"
)

type ServiceType string

const (
	ServiceOneWay        ServiceType = "one_way"
	ServiceSameDayReturn ServiceType = "same_day_return"
)

// Booking is a single delivery request as submitted by the site. It never
// outlives the request that carries it: the only durable copy travels
// through Stripe session metadata and comes back in the webhook.
type Booking struct {
	Reference   string      `json:"reference,omitempty"`
	Pickup      string      `json:"pickup" validate:"required,min=3"`
	Dropoff     string      `json:"dropoff" validate:"required,min=3"`
	Miles       float64     `json:"miles" validate:"required,gt=0"`
	Email       string      `json:"email" validate:"required,email"`
	Date        string      `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string      `json:"time" validate:"required,datetime=15:04"`
	Company     string      `json:"company,omitempty"`
	Industry    string      `json:"industry,omitempty"`
	ServiceType ServiceType `json:"service_type,omitempty" validate:"omitempty,oneof=one_way same_day_return"`
	Notes       string      `json:"notes,omitempty"`
	Country     string      `json:"country,omitempty"`
	Created     time.Time   `json:"created,omitempty"`
}

func (b *Booking) Bind(_ *http.Request) error {
	b.Created = time.Now()
	if b.Reference == "" {
		b.Reference = NewReference()
	}
	if b.ServiceType == "" {
		b.ServiceType = ServiceOneWay
	}
	return validate.Struct(b)
}

// NewReference produces a short customer-facing booking reference.
func NewReference() string {
	id := uuid.New().String()
	return "CB-" + strings.ToUpper(strings.Split(id, "-")[0])
}

// PickupAt resolves the booking date/time pair into a single instant.
func (b *Booking) PickupAt() (time.Time, error) {
	return clock.BookingTime(b.Date, b.Time)
}

// Route is the customer-facing description used on the Stripe line item.
func (b *Booking) Route() string {
	if b.ServiceType == ServiceSameDayReturn {
		return fmt.Sprintf("Same-day return courier: %s to %s", b.Pickup, b.Dropoff)
	}
	return fmt.Sprintf("Courier delivery: %s to %s", b.Pickup, b.Dropoff)
}

// CountryCode returns the ISO 3166-1 alpha-2 code for the booking country,
// accepting either a code or a full country name.
func (b *Booking) CountryCode() string {
	if b.Country == "" {
		return ""
	}
	if len(b.Country) == 2 {
		return strings.ToUpper(b.Country)
	}
	country := countries.ByName(b.Country)
	code := country.Alpha2()
	if len(code) == 2 {
		return code
	}
	return ""
}

// Metadata flattens the booking into the key/value strings attached to the
// Stripe Checkout Session. Values are what the webhook later reconstructs
// the booking from.
func (b *Booking) Metadata() map[string]string {
	md := map[string]string{
		"reference": b.Reference,
		"pickup":    b.Pickup,
		"dropoff":   b.Dropoff,
		"miles":     strconv.FormatFloat(b.Miles, 'f', 1, 64),
		"email":     b.Email,
		"date":      b.Date,
		"time":      b.Time,
	}
	if b.Company != "" {
		md["company"] = b.Company
	}
	if b.Industry != "" {
		md["industry"] = b.Industry
	}
	if b.ServiceType != "" {
		md["service_type"] = string(b.ServiceType)
	}
	if b.Notes != "" {
		md["notes"] = b.Notes
	}
	if b.Country != "" {
		md["country"] = b.Country
	}
	return md
}

// metadata key aliases left behind by older versions of the site's checkout
// handlers. Keys are compared with case, underscores, hyphens and spaces
// stripped, so "bookingRef", "Booking_Ref" and "booking ref" all match.
var metadataAliases = map[string][]string{
	"reference":    {"reference", "bookingref", "bookingreference", "ref", "orderid"},
	"pickup":       {"pickup", "pickuppostcode", "from", "collection"},
	"dropoff":      {"dropoff", "dropoffpostcode", "to", "delivery", "destination"},
	"miles":        {"miles", "distance", "distancemiles", "mileage"},
	"email":        {"email", "customeremail"},
	"date":         {"date", "pickupdate", "bookingdate"},
	"time":         {"time", "pickuptime", "bookingtime"},
	"company":      {"company", "companyname"},
	"industry":     {"industry", "sector"},
	"service_type": {"servicetype", "service"},
	"notes":        {"notes", "note", "instructions"},
	"country":      {"country"},
}

func normalizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || r == ' ' {
			return -1
		}
		return r
	}, key)
}

func metadataValue(md map[string]string, field string) string {
	aliases := metadataAliases[field]
	for key, value := range md {
		norm := normalizeKey(key)
		for _, alias := range aliases {
			if norm == alias {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// BookingFromMetadata rebuilds a booking from Stripe object metadata,
// tolerating the key spellings of every historical handler version.
func BookingFromMetadata(md map[string]string) *Booking {
	b := &Booking{
		Reference:   metadataValue(md, "reference"),
		Pickup:      metadataValue(md, "pickup"),
		Dropoff:     metadataValue(md, "dropoff"),
		Email:       metadataValue(md, "email"),
		Date:        metadataValue(md, "date"),
		Time:        metadataValue(md, "time"),
		Company:     metadataValue(md, "company"),
		Industry:    metadataValue(md, "industry"),
		ServiceType: ServiceType(metadataValue(md, "service_type")),
		Notes:       metadataValue(md, "notes"),
		Country:     metadataValue(md, "country"),
	}
	if miles := metadataValue(md, "miles"); miles != "" {
		if v, err := strconv.ParseFloat(miles, 64); err == nil {
			b.Miles = v
		}
	}
	return b
}
