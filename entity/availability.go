package entity

import (
	"net/http"

	"courierbook/lib/validate"
)

// AvailabilityRequest is forwarded to the dispatch automation webhook to ask
// whether a collection slot can still be served.
type AvailabilityRequest struct {
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string  `json:"time" validate:"required,datetime=15:04"`
	Postcode string  `json:"postcode,omitempty"`
	Miles    float64 `json:"miles,omitempty" validate:"omitempty,gt=0"`
}

func (a *AvailabilityRequest) Bind(_ *http.Request) error {
	return validate.Struct(a)
}

// AvailabilityResult is always customer-safe: upstream failures are reported
// as an unavailable slot, never as an error.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}
