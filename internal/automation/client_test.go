package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"courierbook/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRequest = &entity.AvailabilityRequest{
	Date:     "2026-09-01",
	Time:     "14:30",
	Postcode: "SW1A 1AA",
}

func TestCheckAvailabilityOk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req entity.AvailabilityRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2026-09-01", req.Date)
		fmt.Fprint(w, `{"available":true,"message":"Driver available from 14:00."}`)
	}))
	defer srv.Close()

	c := NewClient(Config{AvailabilityURL: srv.URL}, slog.Default())
	res := c.CheckAvailability(context.Background(), testRequest)
	assert.True(t, res.Available)
	assert.Equal(t, "Driver available from 14:00.", res.Message)
}

func TestCheckAvailabilityUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"available":false}`)
	}))
	defer srv.Close()

	c := NewClient(Config{AvailabilityURL: srv.URL}, slog.Default())
	res := c.CheckAvailability(context.Background(), testRequest)
	assert.False(t, res.Available)
	assert.Equal(t, defaultUnavailableMessage, res.Message)
}

// Upstream failures must never reach the customer as errors: any failure
// reads as an unavailable slot with the uniform message.
func TestCheckAvailabilityMasksFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"upstream 500", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "Accepted")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(Config{AvailabilityURL: srv.URL}, slog.Default())
			res := c.CheckAvailability(context.Background(), testRequest)
			assert.False(t, res.Available)
			assert.Equal(t, defaultUnavailableMessage, res.Message)
		})
	}
}

func TestCheckAvailabilityNoURL(t *testing.T) {
	c := NewClient(Config{}, slog.Default())
	res := c.CheckAvailability(context.Background(), testRequest)
	assert.False(t, res.Available)
}

func TestNotifyBooking(t *testing.T) {
	var got bookingNotification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{BookingURL: srv.URL}, slog.Default())
	b := &entity.Booking{
		Reference: "CB-TEST1234",
		Pickup:    "SW1A 1AA",
		Dropoff:   "M1 1AE",
		Miles:     200,
		Email:     "ops@example.com",
		Date:      "2026-09-01",
		Time:      "14:30",
	}
	require.NoError(t, c.NotifyBooking(context.Background(), b, 33500, "GBP"))
	assert.Equal(t, "CB-TEST1234", got.Reference)
	assert.Equal(t, int64(33500), got.Amount)
	assert.Equal(t, "GBP", got.Currency)
}

func TestNotifyBookingUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BookingURL: srv.URL}, slog.Default())
	err := c.NotifyBooking(context.Background(), &entity.Booking{Reference: "CB-X"}, 100, "GBP")
	require.Error(t, err)
}
