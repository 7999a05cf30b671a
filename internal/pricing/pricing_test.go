package pricing

import (
	"log/slog"
	"testing"
	"time"

	"courierbook/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine("GBP", slog.Default())
}

// Monday 10:00, booked a week ahead: no uplift applies.
var (
	quietPickup = time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	quietBooked = quietPickup.Add(-7 * 24 * time.Hour)
)

func quietRequest(miles float64) Request {
	return Request{
		Miles:    miles,
		PickupAt: quietPickup,
		BookedAt: quietBooked,
	}
}

func TestPriceMinimumFeeAtOrBelowThreshold(t *testing.T) {
	e := testEngine(t)

	for _, miles := range []float64{0.5, 5, 10} {
		b, err := e.Price(quietRequest(miles))
		require.NoError(t, err)
		assert.Equal(t, defaultProfile.BaseFee, b.Total, "miles=%v", miles)
		assert.Zero(t, b.Mileage, "miles=%v", miles)
	}
}

func TestPricePerMileAccruesLinearly(t *testing.T) {
	e := testEngine(t)

	// 20 and 30 miles are both clear of rounding distortion for the
	// standard profile (150/mile, granularity 500).
	b20, err := e.Price(quietRequest(20))
	require.NoError(t, err)
	b30, err := e.Price(quietRequest(30))
	require.NoError(t, err)

	assert.Equal(t, int64(5000), b20.Total)
	assert.Equal(t, int64(6500), b30.Total)
	assert.Equal(t, int64(150*10), b30.Total-b20.Total)
}

func TestPriceRoundsToGranularityNeverBelowBase(t *testing.T) {
	e := testEngine(t)

	for _, miles := range []float64{10.3, 11.2, 13.7, 26.1, 49.9} {
		b, err := e.Price(quietRequest(miles))
		require.NoError(t, err)
		assert.Zero(t, b.Total%defaultProfile.RoundTo, "miles=%v total=%d", miles, b.Total)
		assert.GreaterOrEqual(t, b.Total, defaultProfile.BaseFee, "miles=%v", miles)
	}
}

func TestPriceUpliftsStackAdditively(t *testing.T) {
	e := testEngine(t)

	// Saturday 19:00, booked one hour before pickup: weekend, after hours
	// and urgent all apply on top of the base fee.
	pickup := time.Date(2026, 8, 29, 19, 0, 0, 0, time.UTC)
	b, err := e.Price(Request{
		Miles:    5,
		PickupAt: pickup,
		BookedAt: pickup.Add(-time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, defaultProfile.AfterHoursFee, b.AfterHours)
	assert.Equal(t, defaultProfile.WeekendFee, b.Weekend)
	assert.Equal(t, defaultProfile.UrgentFee, b.Urgency)
	assert.Equal(t, int64(3500+1000+1500+2000), b.Total)
}

func TestPriceUrgencyByLeadTime(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		name string
		lead time.Duration
		want int64
	}{
		{"under two hours", 90 * time.Minute, defaultProfile.UrgentFee},
		{"under a day", 6 * time.Hour, defaultProfile.ShortNotice},
		{"plenty of notice", 48 * time.Hour, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := e.Price(Request{
				Miles:    5,
				PickupAt: quietPickup,
				BookedAt: quietPickup.Add(-tt.lead),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Urgency)
		})
	}
}

func TestPriceAfterHoursBoundaries(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		hour int
		want bool
	}{
		{7, true},
		{8, false},
		{17, false},
		{18, true},
		{23, true},
	}
	for _, tt := range tests {
		pickup := time.Date(2026, 8, 24, tt.hour, 0, 0, 0, time.UTC)
		b, err := e.Price(Request{Miles: 5, PickupAt: pickup, BookedAt: quietBooked})
		require.NoError(t, err)
		if tt.want {
			assert.Equal(t, defaultProfile.AfterHoursFee, b.AfterHours, "hour=%d", tt.hour)
		} else {
			assert.Zero(t, b.AfterHours, "hour=%d", tt.hour)
		}
	}
}

func TestPriceDistanceBrackets(t *testing.T) {
	e := testEngine(t)

	b, err := e.Price(quietRequest(60))
	require.NoError(t, err)
	assert.Equal(t, int64(500), b.Distance)

	b, err = e.Price(quietRequest(120))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), b.Distance)
}

func TestPriceManualQuoteCutoff(t *testing.T) {
	e := testEngine(t)

	_, err := e.Price(quietRequest(defaultProfile.MaxMiles))
	require.ErrorIs(t, err, ErrManualQuote)

	_, err = e.Price(quietRequest(defaultProfile.MaxMiles + 50))
	require.ErrorIs(t, err, ErrManualQuote)

	b, err := e.Price(quietRequest(defaultProfile.MaxMiles - 0.1))
	require.NoError(t, err)
	assert.Positive(t, b.Total)
}

func TestPriceRejectsNonPositiveMiles(t *testing.T) {
	e := testEngine(t)

	_, err := e.Price(quietRequest(0))
	require.Error(t, err)

	_, err = e.Price(quietRequest(-3))
	require.Error(t, err)
}

func TestLookupProfiles(t *testing.T) {
	e := testEngine(t)

	assert.Equal(t, "medical", e.Lookup("Medical", entity.ServiceOneWay).Name)
	assert.Equal(t, "medical-return", e.Lookup("medical", entity.ServiceSameDayReturn).Name)
	assert.Equal(t, "standard", e.Lookup("", entity.ServiceOneWay).Name)
	assert.Equal(t, "standard", e.Lookup("florists", entity.ServiceSameDayReturn).Name)

	// blank service type defaults to one-way
	assert.Equal(t, "legal", e.Lookup("legal", "").Name)
}

func TestProfileCeilingPerIndustry(t *testing.T) {
	e := testEngine(t)

	// 220 miles exceeds the legal ceiling but not the manufacturing one.
	_, err := e.Price(Request{Miles: 220, PickupAt: quietPickup, BookedAt: quietBooked, Industry: "legal"})
	require.ErrorIs(t, err, ErrManualQuote)

	b, err := e.Price(Request{Miles: 220, PickupAt: quietPickup, BookedAt: quietBooked, Industry: "manufacturing"})
	require.NoError(t, err)
	assert.Equal(t, "manufacturing", b.Profile)
}
