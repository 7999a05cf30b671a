package entity

// Payment describes a created Stripe Checkout Session: the hosted payment
// link the customer is redirected to.
type Payment struct {
	SessionId string `json:"session_id"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Link      string `json:"link"`
}
