package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"courierbook/lib/sl"
)

// GoogleRoutesClient is the paid fallback router, used only when OSRM fails
// and an API key is configured.
type GoogleRoutesClient struct {
	hc      *http.Client
	baseURL string
	apiKey  string
	log     *slog.Logger
}

func NewGoogleRoutesClient(baseURL, apiKey string, logger *slog.Logger) *GoogleRoutesClient {
	if baseURL == "" {
		baseURL = "https://routes.googleapis.com"
	}
	return &GoogleRoutesClient{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		log:     logger.With(sl.Module("geo.google")),
	}
}

type googleWaypoint struct {
	Location struct {
		LatLng struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"latLng"`
	} `json:"location"`
}

type googleRouteRequest struct {
	Origin      googleWaypoint `json:"origin"`
	Destination googleWaypoint `json:"destination"`
	TravelMode  string         `json:"travelMode"`
}

type googleRouteResponse struct {
	Routes []struct {
		DistanceMeters float64 `json:"distanceMeters"`
	} `json:"routes"`
}

func waypoint(p Point) googleWaypoint {
	var w googleWaypoint
	w.Location.LatLng.Latitude = p.Lat
	w.Location.LatLng.Longitude = p.Lon
	return w
}

func (c *GoogleRoutesClient) Distance(ctx context.Context, from, to Point) (float64, error) {
	payload := googleRouteRequest{
		Origin:      waypoint(from),
		Destination: waypoint(to),
		TravelMode:  "DRIVE",
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	endpoint := c.baseURL + "/directions/v2:computeRoutes"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", "routes.distanceMeters")

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Error("route request failed", sl.Err(err))
		return 0, fmt.Errorf("google routes: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		c.log.Error("google routes returned error",
			slog.String("status", resp.Status),
			slog.String("body", string(body)))
		return 0, fmt.Errorf("google routes %s", resp.Status)
	}

	var gr googleRouteResponse
	if err = json.Unmarshal(body, &gr); err != nil {
		return 0, fmt.Errorf("google routes response: %w", err)
	}
	if len(gr.Routes) == 0 {
		return 0, fmt.Errorf("google routes: no route")
	}

	return gr.Routes[0].DistanceMeters, nil
}
