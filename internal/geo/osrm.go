package geo

import (
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

// Router computes a driving distance in meters between two points.
type Router interface {
	Distance(ctx context.Context, from, to Point) (float64, error)
}

// OSRMClient queries a public or self-hosted OSRM instance.
type OSRMClient struct {
	hc      *http.Client
	baseURL string
	log     *slog.Logger
}

func NewOSRMClient(baseURL string, logger *slog.Logger) *OSRMClient {
	if baseURL == "" {
		baseURL = "https://router.project-osrm.org"
	}
	return &OSRMClient{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.With(sl.Module("geo.osrm")),
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

func (c *OSRMClient) Distance(ctx context.Context, from, to Point) (float64, error) {
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		c.baseURL, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Error("route request failed", sl.Err(err))
		return 0, fmt.Errorf("osrm: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		c.log.Error("osrm returned error",
			slog.String("status", resp.Status),
			slog.String("body", string(body)))
		return 0, fmt.Errorf("osrm %s", resp.Status)
	}

	var or osrmResponse
	if err = json.Unmarshal(body, &or); err != nil {
		return 0, fmt.Errorf("osrm response: %w", err)
	}
	if or.Code != "Ok" || len(or.Routes) == 0 {
		c.log.Warn("osrm found no route", slog.String("code", or.Code))
		return 0, fmt.Errorf("osrm: no route (%s)", or.Code)
	}

	return or.Routes[0].Distance, nil
}
