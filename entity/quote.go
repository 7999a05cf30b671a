package entity

// Quote is the priced result of a booking request, returned by the quote
// endpoint and reused when building the checkout session.
type Quote struct {
	Reference string   `json:"reference"`
	Amount    int64    `json:"amount"`
	Currency  string   `json:"currency"`
	Miles     float64  `json:"miles"`
	Profile   string   `json:"profile,omitempty"`
	Breakdown []string `json:"breakdown,omitempty"`
}
