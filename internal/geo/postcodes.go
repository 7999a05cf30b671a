package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"courierbook/lib/sl"
)

// ErrUnknownPostcode marks a postcode the geocoder could not resolve; the
// handler maps it to a 400 rather than an upstream failure.
var ErrUnknownPostcode = errors.New("unknown postcode")

// Point is a geocoded UK postcode.
type Point struct {
	Postcode string
	Lat      float64
	Lon      float64
}

// PostcodesClient resolves UK postcodes to coordinates via postcodes.io.
type PostcodesClient struct {
	hc      *http.Client
	baseURL string
	log     *slog.Logger
}

func NewPostcodesClient(baseURL string, logger *slog.Logger) *PostcodesClient {
	if baseURL == "" {
		baseURL = "https://api.postcodes.io"
	}
	return &PostcodesClient{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.With(sl.Module("geo.postcodes")),
	}
}

type postcodeResponse struct {
	Status int `json:"status"`
	Result struct {
		Postcode  string  `json:"postcode"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"result"`
}

// Lookup geocodes a single postcode. A 404 from the API means the postcode
// does not exist and is reported as ErrUnknownPostcode.
func (c *PostcodesClient) Lookup(ctx context.Context, postcode string) (*Point, error) {
	postcode = strings.TrimSpace(postcode)
	if postcode == "" {
		return nil, fmt.Errorf("empty postcode: %w", ErrUnknownPostcode)
	}
	log := c.log.With(slog.String("postcode", postcode))

	endpoint := fmt.Sprintf("%s/postcodes/%s", c.baseURL, url.PathEscape(postcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		log.Error("postcode lookup failed", sl.Err(err))
		return nil, fmt.Errorf("postcodes.io: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		log.Debug("postcode not found")
		return nil, fmt.Errorf("%s: %w", postcode, ErrUnknownPostcode)
	}
	if resp.StatusCode >= 300 {
		log.Error("postcodes.io returned error",
			slog.String("status", resp.Status),
			slog.String("body", string(body)))
		return nil, fmt.Errorf("postcodes.io %s", resp.Status)
	}

	var pr postcodeResponse
	if err = json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("postcodes.io response: %w", err)
	}

	return &Point{
		Postcode: pr.Result.Postcode,
		Lat:      pr.Result.Latitude,
		Lon:      pr.Result.Longitude,
	}, nil
}
