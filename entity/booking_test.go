package entity

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBooking() *Booking {
	return &Booking{
		Pickup:  "SW1A 1AA",
		Dropoff: "M1 1AE",
		Miles:   42.5,
		Email:   "jo@example.com",
		Date:    "2026-09-01",
		Time:    "14:30",
	}
}

func TestBookingBindDefaults(t *testing.T) {
	b := validBooking()
	require.NoError(t, b.Bind(&http.Request{}))

	assert.True(t, strings.HasPrefix(b.Reference, "CB-"))
	assert.Equal(t, ServiceOneWay, b.ServiceType)
	assert.False(t, b.Created.IsZero())
}

func TestBookingPickupAt(t *testing.T) {
	b := validBooking()
	at, err := b.PickupAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC), at)

	b.Time = "25:99"
	_, err = b.PickupAt()
	require.Error(t, err)
}

func TestBookingCountryCode(t *testing.T) {
	b := validBooking()

	assert.Empty(t, b.CountryCode())

	b.Country = "gb"
	assert.Equal(t, "GB", b.CountryCode())

	b.Country = "United Kingdom"
	assert.Equal(t, "GB", b.CountryCode())

	b.Country = "Atlantis"
	assert.Empty(t, b.CountryCode())
}

func TestMetadataRoundTrip(t *testing.T) {
	b := validBooking()
	b.Reference = "CB-ABCD1234"
	b.Company = "Acme Ltd"
	b.Industry = "medical"
	b.ServiceType = ServiceSameDayReturn
	b.Notes = "fragile"

	got := BookingFromMetadata(b.Metadata())
	assert.Equal(t, b.Reference, got.Reference)
	assert.Equal(t, b.Pickup, got.Pickup)
	assert.Equal(t, b.Dropoff, got.Dropoff)
	assert.Equal(t, b.Miles, got.Miles)
	assert.Equal(t, b.Email, got.Email)
	assert.Equal(t, b.Date, got.Date)
	assert.Equal(t, b.Time, got.Time)
	assert.Equal(t, b.Company, got.Company)
	assert.Equal(t, b.Industry, got.Industry)
	assert.Equal(t, b.ServiceType, got.ServiceType)
	assert.Equal(t, b.Notes, got.Notes)
}

// Older checkout handler versions wrote metadata with different key
// spellings; the webhook must read them all.
func TestBookingFromMetadataAliases(t *testing.T) {
	md := map[string]string{
		"bookingRef":      "CB-LEGACY01",
		"Pickup_Postcode": "SW1A 1AA",
		"destination":     "M1 1AE",
		"Distance Miles":  "17.3",
		"customerEmail":   "jo@example.com",
		"pickup-date":     "2026-09-01",
		"Pickup Time":     "14:30",
		"companyName":     "Acme Ltd",
		"sector":          "legal",
		"service":         "same_day_return",
	}

	b := BookingFromMetadata(md)
	assert.Equal(t, "CB-LEGACY01", b.Reference)
	assert.Equal(t, "SW1A 1AA", b.Pickup)
	assert.Equal(t, "M1 1AE", b.Dropoff)
	assert.Equal(t, 17.3, b.Miles)
	assert.Equal(t, "jo@example.com", b.Email)
	assert.Equal(t, "2026-09-01", b.Date)
	assert.Equal(t, "14:30", b.Time)
	assert.Equal(t, "Acme Ltd", b.Company)
	assert.Equal(t, "legal", b.Industry)
	assert.Equal(t, ServiceSameDayReturn, b.ServiceType)
}

func TestBookingFromMetadataIgnoresUnknownKeys(t *testing.T) {
	b := BookingFromMetadata(map[string]string{
		"utm_source": "newsletter",
		"miles":      "not a number",
	})
	assert.Empty(t, b.Reference)
	assert.Zero(t, b.Miles)
}

func TestRouteDescription(t *testing.T) {
	b := validBooking()
	assert.Equal(t, "Courier delivery: SW1A 1AA to M1 1AE", b.Route())

	b.ServiceType = ServiceSameDayReturn
	assert.Equal(t, "Same-day return courier: SW1A 1AA to M1 1AE", b.Route())
}
