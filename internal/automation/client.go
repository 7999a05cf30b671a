package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"courierbook/entity"
	"courierbook/lib/sl"
)

const defaultUnavailableMessage = "Sorry, that slot is no longer available. Please choose another time."

// Config holds the automation scenario webhook URLs.
type Config struct {
	AvailabilityURL    string
	BookingURL         string
	UnavailableMessage string
}

// Client talks to the dispatch automation platform over plain webhook URLs.
// One URL answers availability checks, the other receives paid bookings.
type Client struct {
	hc              *http.Client
	availabilityURL string
	bookingURL      string
	unavailableMsg  string
	log             *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	msg := cfg.UnavailableMessage
	if msg == "" {
		msg = defaultUnavailableMessage
	}
	return &Client{
		hc:              &http.Client{Timeout: 10 * time.Second},
		availabilityURL: cfg.AvailabilityURL,
		bookingURL:      cfg.BookingURL,
		unavailableMsg:  msg,
		log:             logger.With(sl.Module("automation")),
	}
}

type availabilityUpstream struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// CheckAvailability asks the automation webhook whether a slot can be
// served. Every failure mode (unconfigured URL, network error, non-2xx,
// unparseable body) is reported to the customer as an unavailable slot;
// diagnostics stay in the log.
func (c *Client) CheckAvailability(ctx context.Context, req *entity.AvailabilityRequest) *entity.AvailabilityResult {
	log := c.log.With(
		slog.String("date", req.Date),
		slog.String("time", req.Time),
	)
	unavailable := &entity.AvailabilityResult{
		Available: false,
		Message:   c.unavailableMsg,
	}

	if c.availabilityURL == "" {
		log.Error("availability webhook not configured")
		return unavailable
	}

	body, err := c.post(ctx, c.availabilityURL, req)
	if err != nil {
		log.Error("availability check failed", sl.Err(err))
		return unavailable
	}

	var up availabilityUpstream
	if err = json.Unmarshal(body, &up); err != nil {
		log.Error("availability response not understood",
			sl.Err(err),
			slog.String("body", string(body)))
		return unavailable
	}

	if !up.Available {
		if up.Message == "" {
			up.Message = c.unavailableMsg
		}
		log.Info("slot reported unavailable")
		return &entity.AvailabilityResult{Available: false, Message: up.Message}
	}

	if up.Message == "" {
		up.Message = "That slot is available."
	}
	log.Debug("slot available")
	return &entity.AvailabilityResult{Available: true, Message: up.Message}
}

type bookingNotification struct {
	Reference   string  `json:"reference"`
	Pickup      string  `json:"pickup"`
	Dropoff     string  `json:"dropoff"`
	Miles       float64 `json:"miles"`
	Email       string  `json:"email"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Company     string  `json:"company,omitempty"`
	Industry    string  `json:"industry,omitempty"`
	ServiceType string  `json:"service_type,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
}

// NotifyBooking pushes a paid booking to the automation webhook. The caller
// decides whether the error matters; the webhook fan-out swallows it.
func (c *Client) NotifyBooking(ctx context.Context, b *entity.Booking, amount int64, currency string) error {
	if c.bookingURL == "" {
		return fmt.Errorf("booking webhook not configured")
	}

	payload := bookingNotification{
		Reference:   b.Reference,
		Pickup:      b.Pickup,
		Dropoff:     b.Dropoff,
		Miles:       b.Miles,
		Email:       b.Email,
		Date:        b.Date,
		Time:        b.Time,
		Company:     b.Company,
		Industry:    b.Industry,
		ServiceType: string(b.ServiceType),
		Notes:       b.Notes,
		Amount:      amount,
		Currency:    currency,
	}

	_, err := c.post(ctx, c.bookingURL, payload)
	if err != nil {
		return fmt.Errorf("booking notification: %w", err)
	}
	c.log.Info("booking pushed to automation",
		sl.Ref(b.Reference),
		slog.Int64("amount", amount),
	)
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook %s: %s", resp.Status, body)
	}
	return body, nil
}
